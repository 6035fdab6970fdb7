package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceEmergencyService 定义紧急警报服务接口
type InterfaceEmergencyService interface {
	CreateAlert(req *CreateAlertRequest) (*models.EmergencyAlert, error)
	GetAlertByID(id uint) (*models.EmergencyAlert, error)
	GetAlerts(page, pageSize int, status string) ([]models.EmergencyAlert, int64, error)
	GetReporterAlerts(reporterID uint) ([]models.EmergencyAlert, error)
	UpdateStatus(alertID uint, req *UpdateAlertStatusRequest) (*models.EmergencyAlert, error)
}

// CreateAlertRequest 表示警报上报请求
type CreateAlertRequest struct {
	Type        models.AlertType
	CustomTitle string
	Location    string
	Description string
	PhotoURL    string
	ReporterID  uint
}

// UpdateAlertStatusRequest 表示警报状态流转请求
type UpdateAlertStatusRequest struct {
	Status      models.AlertStatus
	AssignedTo  *uint
	ActionTaken string
	ActorID     uint
}

// EmergencyService 提供紧急警报上报与处置相关的服务
type EmergencyService struct {
	DB           *gorm.DB
	Config       *config.Config
	Publisher    InterfaceAlertPublisher
	Notification InterfaceNotificationService
}

// NewEmergencyService 创建一个新的紧急警报服务
func NewEmergencyService(db *gorm.DB, cfg *config.Config,
	publisher InterfaceAlertPublisher, notification InterfaceNotificationService) InterfaceEmergencyService {
	return &EmergencyService{
		DB:           db,
		Config:       cfg,
		Publisher:    publisher,
		Notification: notification,
	}
}

// 1 CreateAlert 上报紧急警报并向保安端广播
// 同一上报人同一类型存在待处理警报时压制重复上报
func (s *EmergencyService) CreateAlert(req *CreateAlertRequest) (*models.EmergencyAlert, error) {
	if !req.Type.Valid() {
		return nil, code.NewWithMessage(code.ErrValidation, "无效的警报类型")
	}
	if req.Type == models.AlertOther && strings.TrimSpace(req.CustomTitle) == "" {
		return nil, code.New(code.ErrAlertTitleRequired)
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, code.NewWithMessage(code.ErrValidation, "警报位置不能为空")
	}

	// 校验上报人存在
	var reporter models.Account
	if err := s.DB.First(&reporter, req.ReporterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAccountNotFound)
		}
		return nil, err
	}

	// 重复上报压制：同人同类型已有Pending警报则直接返回原警报
	var existing models.EmergencyAlert
	err := s.DB.Where("reporter_id = ? AND type = ? AND status = ?",
		req.ReporterID, req.Type, models.AlertPending).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	alert := &models.EmergencyAlert{
		Type:        req.Type,
		CustomTitle: strings.TrimSpace(req.CustomTitle),
		Location:    strings.TrimSpace(req.Location),
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		ReporterID:  req.ReporterID,
		Status:      models.AlertPending,
	}

	if err := s.DB.Create(alert).Error; err != nil {
		return nil, err
	}

	// 广播失败不影响上报结果
	if err := s.Publisher.PublishAlert(alert); err != nil {
		logger.Warning("警报广播失败: alert_id=%d, err=%v", alert.ID, err)
	}

	return alert, nil
}

// 2 GetAlertByID 根据ID获取警报
func (s *EmergencyService) GetAlertByID(id uint) (*models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	if err := s.DB.Preload("Reporter").First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAlertNotFound)
		}
		return nil, err
	}
	return &alert, nil
}

// 3 GetAlerts 分页获取警报列表，支持按状态过滤
func (s *EmergencyService) GetAlerts(page, pageSize int, status string) ([]models.EmergencyAlert, int64, error) {
	var alerts []models.EmergencyAlert
	var total int64

	query := s.DB.Model(&models.EmergencyAlert{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).
		Preload("Reporter").Find(&alerts).Error; err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}

// 4 GetReporterAlerts 获取上报人自己的警报列表
func (s *EmergencyService) GetReporterAlerts(reporterID uint) ([]models.EmergencyAlert, error) {
	var alerts []models.EmergencyAlert
	if err := s.DB.Where("reporter_id = ?", reporterID).
		Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// 5 UpdateStatus 流转警报状态，只允许 Pending→Processing→Resolved
// 进入Processing必须指定处置人；进入Resolved必须填写处置措施
func (s *EmergencyService) UpdateStatus(alertID uint, req *UpdateAlertStatusRequest) (*models.EmergencyAlert, error) {
	alert, err := s.GetAlertByID(alertID)
	if err != nil {
		return nil, err
	}

	if !validAlertTransition(alert.Status, req.Status) {
		return nil, code.NewWithMessage(code.ErrAlertTransition,
			fmt.Sprintf("不允许从 %s 流转到 %s", alert.Status, req.Status))
	}

	updates := map[string]interface{}{"status": req.Status}

	switch req.Status {
	case models.AlertProcessing:
		if req.AssignedTo == nil {
			return nil, code.New(code.ErrAlertAssigneeRequired)
		}
		// 校验处置人是保安或管理员
		var assignee models.Account
		if err := s.DB.First(&assignee, *req.AssignedTo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.New(code.ErrAccountNotFound)
			}
			return nil, err
		}
		if assignee.Role == models.RoleResident {
			return nil, code.NewWithMessage(code.ErrValidation, "处置人必须是保安或管理员")
		}
		updates["assigned_to"] = *req.AssignedTo
	case models.AlertResolved:
		if strings.TrimSpace(req.ActionTaken) == "" {
			return nil, code.New(code.ErrAlertActionRequired)
		}
		updates["action_taken"] = strings.TrimSpace(req.ActionTaken)
		updates["verified_at"] = time.Now()
	}

	// 前置条件CAS：并发流转只有一个生效
	result := s.DB.Model(&models.EmergencyAlert{}).
		Where("id = ? AND status = ?", alertID, alert.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, code.New(code.ErrAlertTransition)
	}

	updated, err := s.GetAlertByID(alertID)
	if err != nil {
		return nil, err
	}

	// 处置完成后短信通知上报人
	if req.Status == models.AlertResolved && updated.Reporter != nil {
		message := fmt.Sprintf("Your %s alert reported at %s has been resolved. Action taken: %s",
			updated.Title(), updated.Location, updated.ActionTaken)
		if err := s.Notification.SendSMS(updated.Reporter.Phone, message); err != nil {
			logger.Warning("警报处置通知短信发送失败: alert_id=%d, err=%v", alertID, err)
		}
	}

	return updated, nil
}

// validAlertTransition 判断状态流转是否合法，禁止回退和跳级
func validAlertTransition(from, to models.AlertStatus) bool {
	switch from {
	case models.AlertPending:
		return to == models.AlertProcessing
	case models.AlertProcessing:
		return to == models.AlertResolved
	}
	return false
}
