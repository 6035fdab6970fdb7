package services

import (
	"errors"
	"fmt"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/logger"
	"guardiannet-http-service/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceDeliveryService 定义快递服务接口
type InterfaceDeliveryService interface {
	CreateDelivery(req *CreateDeliveryRequest) (*models.Delivery, error)
	GetDeliveryByID(id uint) (*models.Delivery, error)
	GetDeliveryByCode(uniqueID string) (*models.Delivery, error)
	GetResidentDeliveries(residentID uint) ([]models.Delivery, error)
}

// CreateDeliveryRequest 表示快递预约请求
type CreateDeliveryRequest struct {
	DeliveryPersonName string
	Phone              string
	Apartment          string
	Company            string
	ExpectedTime       time.Time
	ResidentID         uint
}

// DeliveryService 提供快递预约与通行码签发相关的服务
type DeliveryService struct {
	DB           *gorm.DB
	Config       *config.Config
	Notification InterfaceNotificationService
}

// NewDeliveryService 创建一个新的快递服务
func NewDeliveryService(db *gorm.DB, cfg *config.Config, notification InterfaceNotificationService) InterfaceDeliveryService {
	return &DeliveryService{
		DB:           db,
		Config:       cfg,
		Notification: notification,
	}
}

// 1 CreateDelivery 创建快递预约并短信下发单次通行码
func (s *DeliveryService) CreateDelivery(req *CreateDeliveryRequest) (*models.Delivery, error) {
	// 校验住户存在
	var resident models.Account
	if err := s.DB.First(&resident, req.ResidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAccountNotFound)
		}
		return nil, err
	}

	// 同一住户同时只允许一个待处理预约
	var count int64
	if err := s.DB.Model(&models.Delivery{}).
		Where("resident_id = ? AND status = ?", req.ResidentID, models.DeliveryPending).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, code.New(code.ErrDeliveryPending)
	}

	uniqueID, err := s.generateUniqueID()
	if err != nil {
		return nil, err
	}

	delivery := &models.Delivery{
		UniqueID:           uniqueID,
		DeliveryPersonName: req.DeliveryPersonName,
		Phone:              req.Phone,
		Apartment:          req.Apartment,
		Company:            req.Company,
		ExpectedTime:       req.ExpectedTime,
		ResidentID:         req.ResidentID,
		Status:             models.DeliveryPending,
	}

	if err := s.DB.Create(delivery).Error; err != nil {
		return nil, err
	}

	// 短信下发通行码，发送失败不影响预约结果
	message := fmt.Sprintf("Your GuardianNet delivery to %s at flat %s is scheduled for %s. Entry code: %s",
		resident.Name, resident.FlatNo, req.ExpectedTime.Format("Jan 2, 2006 03:04 PM"), uniqueID)
	if err := s.Notification.SendSMS(delivery.Phone, message); err != nil {
		logger.Warning("快递通行码短信发送失败: delivery_id=%d, err=%v", delivery.ID, err)
	}

	return delivery, nil
}

// 2 GetDeliveryByID 根据ID获取快递预约
func (s *DeliveryService) GetDeliveryByID(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := s.DB.First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrDeliveryNotFound)
		}
		return nil, err
	}
	return &delivery, nil
}

// 3 GetDeliveryByCode 根据通行码获取快递预约（门禁核验入口）
func (s *DeliveryService) GetDeliveryByCode(uniqueID string) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := s.DB.Where("unique_id = ?", uniqueID).First(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrDeliveryNotFound)
		}
		return nil, err
	}
	return &delivery, nil
}

// 4 GetResidentDeliveries 获取住户的快递预约列表
func (s *DeliveryService) GetResidentDeliveries(residentID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	if err := s.DB.Where("resident_id = ?", residentID).
		Order("created_at DESC").Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// generateUniqueID 生成6位通行码，循环检查碰撞
func (s *DeliveryService) generateUniqueID() (string, error) {
	for i := 0; i < 20; i++ {
		id := utils.RandomPassCode(6)

		var count int64
		if err := s.DB.Model(&models.Delivery{}).Where("unique_id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", code.NewWithMessage(code.ErrUnknown, "通行码生成失败，请重试")
}
