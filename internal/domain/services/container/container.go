package container

import (
	"context"
	"log"
	"sync"
	"time"

	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService *services.RedisService
	otpService   services.InterfaceOTPService

	// 通知与广播服务
	notificationService services.InterfaceNotificationService
	alertPublisher      services.InterfaceAlertPublisher

	// 业务服务
	accountService   services.InterfaceAccountService
	staffService     services.InterfaceStaffService
	vehicleService   services.InterfaceVehicleService
	visitorService   services.InterfaceVisitorService
	deliveryService  services.InterfaceDeliveryService
	gateService      services.InterfaceGateService
	emergencyService services.InterfaceEmergencyService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)

	// 初始化Redis与OTP服务
	c.redisService = services.NewRedisService(c.config)
	c.otpService = services.NewOTPService(c.redisService, c.config)

	// 初始化通知与警报广播服务
	c.notificationService = services.NewNotificationService(c.config)
	c.alertPublisher = services.NewAlertPublisher(c.config)

	// 连接MQTT服务器
	if err := c.alertPublisher.Connect(); err != nil {
		log.Printf("MQTT警报广播连接失败: %v", err)
	}

	// 初始化业务服务
	c.accountService = services.NewAccountService(c.db, c.config, c.otpService, c.notificationService)
	c.staffService = services.NewStaffService(c.db, c.config, c.notificationService)
	c.vehicleService = services.NewVehicleService(c.db, c.config)
	c.visitorService = services.NewVisitorService(c.db, c.config)
	c.deliveryService = services.NewDeliveryService(c.db, c.config, c.notificationService)
	c.gateService = services.NewGateService(c.db, c.config)
	c.emergencyService = services.NewEmergencyService(c.db, c.config, c.alertPublisher, c.notificationService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "otp":
		return c.otpService
	case "notification":
		return c.notificationService
	case "alert_publisher":
		return c.alertPublisher
	case "account":
		return c.accountService
	case "staff":
		return c.staffService
	case "vehicle":
		return c.vehicleService
	case "visitor":
		return c.visitorService
	case "delivery":
		return c.deliveryService
	case "gate":
		return c.gateService
	case "emergency":
		return c.emergencyService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
