package services

import (
	"encoding/json"
	"fmt"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// 警报广播主题，保安端控制台订阅该主题实时接收新警报
const alertTopic = "guardiannet/alerts"

// InterfaceAlertPublisher 定义警报广播接口
type InterfaceAlertPublisher interface {
	Connect() error
	PublishAlert(alert *models.EmergencyAlert) error
	Disconnect()
}

// MQTTAlertPublisher 通过MQTT向保安端广播新警报
type MQTTAlertPublisher struct {
	client  mqtt.Client
	qos     byte
	enabled bool
}

// alertMessage 是广播到MQTT的警报载荷
type alertMessage struct {
	ID        uint               `json:"id"`
	Type      models.AlertType   `json:"type"`
	Title     string             `json:"title"`
	Location  string             `json:"location"`
	Status    models.AlertStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewAlertPublisher 创建一个新的MQTT警报广播服务
func NewAlertPublisher(cfg *config.Config) InterfaceAlertPublisher {
	publisher := &MQTTAlertPublisher{
		qos:     byte(cfg.MQTTQoS),
		enabled: cfg.MQTTEnabled,
	}

	if !cfg.MQTTEnabled {
		return publisher
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}

	publisher.client = mqtt.NewClient(opts)
	return publisher
}

// Connect 连接MQTT服务器
func (p *MQTTAlertPublisher) Connect() error {
	if !p.enabled {
		return nil
	}

	token := p.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("MQTT连接超时")
	}
	return token.Error()
}

// PublishAlert 广播一条新警报，失败只记录日志不阻断业务
func (p *MQTTAlertPublisher) PublishAlert(alert *models.EmergencyAlert) error {
	if !p.enabled {
		return nil
	}

	payload, err := json.Marshal(alertMessage{
		ID:        alert.ID,
		Type:      alert.Type,
		Title:     alert.Title(),
		Location:  alert.Location,
		Status:    alert.Status,
		CreatedAt: alert.CreatedAt,
	})
	if err != nil {
		return err
	}

	token := p.client.Publish(alertTopic, p.qos, false, payload)
	if !token.WaitTimeout(3 * time.Second) {
		logger.Warning("警报广播超时: alert_id=%d", alert.ID)
		return fmt.Errorf("警报广播超时")
	}
	if token.Error() != nil {
		logger.Error("警报广播失败: alert_id=%d, err=%v", alert.ID, token.Error())
	}
	return token.Error()
}

// Disconnect 断开MQTT连接
func (p *MQTTAlertPublisher) Disconnect() {
	if p.enabled && p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
