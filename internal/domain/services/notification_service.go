package services

import (
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/logger"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// InterfaceNotificationService 定义短信通知服务接口
// 通知发送失败不阻断业务流程，调用方只记录日志
type InterfaceNotificationService interface {
	SendSMS(to, message string) error
}

// TwilioNotificationService 通过Twilio发送短信
type TwilioNotificationService struct {
	client  *twilio.RestClient
	from    string
	enabled bool
}

// NewNotificationService 创建一个新的短信通知服务
func NewNotificationService(cfg *config.Config) InterfaceNotificationService {
	var client *twilio.RestClient
	if cfg.SMSEnabled {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}

	return &TwilioNotificationService{
		client:  client,
		from:    cfg.TwilioFromNumber,
		enabled: cfg.SMSEnabled,
	}
}

// SendSMS 发送短信
func (s *TwilioNotificationService) SendSMS(to, message string) error {
	if !s.enabled {
		logger.Info("短信发送已禁用，跳过发送: to=%s", to)
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(message)

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		logger.Error("短信发送失败: to=%s, err=%v", to, err)
		return err
	}

	return nil
}
