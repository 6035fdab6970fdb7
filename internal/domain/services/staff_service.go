package services

import (
	"errors"
	"fmt"
	"strings"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/logger"
	"guardiannet-http-service/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceStaffService 定义家政人员服务接口
type InterfaceStaffService interface {
	RegisterStaff(req *RegisterStaffRequest) (*models.Staff, error)
	GetStaffByID(id uint) (*models.Staff, error)
	GetStaffByPermanentID(permanentID string) (*models.Staff, error)
	GetResidentStaff(residentID uint) ([]models.Staff, error)
	GetAllStaff(page, pageSize int, search string) ([]models.Staff, int64, error)
	Block(staffID uint, remark string, actorID uint) (*models.Staff, error)
	Unblock(staffID uint, actorID uint) (*models.Staff, error)
	DeleteStaff(staffID uint, residentID uint) error
}

// RegisterStaffRequest 表示家政人员登记请求
type RegisterStaffRequest struct {
	Name       string
	Role       models.StaffRole
	OtherRole  string
	Phone      string
	ResidentID uint
}

// StaffService 提供家政人员登记与拉黑相关的服务
type StaffService struct {
	DB           *gorm.DB
	Config       *config.Config
	Notification InterfaceNotificationService
}

// NewStaffService 创建一个新的家政人员服务
func NewStaffService(db *gorm.DB, cfg *config.Config, notification InterfaceNotificationService) InterfaceStaffService {
	return &StaffService{
		DB:           db,
		Config:       cfg,
		Notification: notification,
	}
}

// 1 RegisterStaff 登记家政人员并签发全局唯一的永久ID
func (s *StaffService) RegisterStaff(req *RegisterStaffRequest) (*models.Staff, error) {
	if !req.Role.Valid() {
		return nil, code.NewWithMessage(code.ErrValidation, "无效的家政人员工种")
	}

	// 校验住户存在
	var resident models.Account
	if err := s.DB.First(&resident, req.ResidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAccountNotFound)
		}
		return nil, err
	}

	// 同一住户不允许重复登记同名同工种人员
	var count int64
	if err := s.DB.Model(&models.Staff{}).
		Where("name = ? AND role = ? AND resident_id = ?", req.Name, req.Role, req.ResidentID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, code.New(code.ErrStaffAlreadyExist)
	}

	permanentID, err := s.generatePermanentID()
	if err != nil {
		return nil, err
	}

	staff := &models.Staff{
		PermanentID: permanentID,
		Name:        req.Name,
		Role:        req.Role,
		Phone:       req.Phone,
		ResidentID:  req.ResidentID,
		Status:      models.StaffStatusActive,
	}
	if req.Role == models.StaffRoleOther {
		staff.OtherRole = req.OtherRole
	}

	// 登记与registered日志在同一事务中落库
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(staff).Error; err != nil {
			return err
		}
		return appendMovementLog(tx, staff.PermanentID, models.SubjectStaff,
			models.ActionRegistered, req.ResidentID, staff.Name, "")
	})
	if err != nil {
		return nil, err
	}

	// 短信告知永久ID，发送失败不影响登记结果
	message := fmt.Sprintf("Hello %s, you have been registered as %s staff. Your Permanent ID is: %s. Please keep this ID safe for entry/exit purposes.",
		staff.Name, staff.Role, staff.PermanentID)
	if err := s.Notification.SendSMS(staff.Phone, message); err != nil {
		logger.Warning("家政人员登记短信发送失败: staff_id=%d, err=%v", staff.ID, err)
	}

	return staff, nil
}

// 2 GetStaffByID 根据ID获取家政人员
func (s *StaffService) GetStaffByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := s.DB.First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrStaffNotFound)
		}
		return nil, err
	}
	return &staff, nil
}

// 3 GetStaffByPermanentID 根据永久ID获取家政人员（门禁核验入口）
func (s *StaffService) GetStaffByPermanentID(permanentID string) (*models.Staff, error) {
	var staff models.Staff
	if err := s.DB.Where("permanent_id = ?", permanentID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrStaffNotFound)
		}
		return nil, err
	}
	return &staff, nil
}

// 4 GetResidentStaff 获取住户名下的家政人员列表
func (s *StaffService) GetResidentStaff(residentID uint) ([]models.Staff, error) {
	var staff []models.Staff
	if err := s.DB.Where("resident_id = ?", residentID).
		Order("created_at DESC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// 5 GetAllStaff 获取所有家政人员，支持分页和搜索
func (s *StaffService) GetAllStaff(page, pageSize int, search string) ([]models.Staff, int64, error) {
	var staff []models.Staff
	var total int64

	query := s.DB.Model(&models.Staff{})

	// 如果有搜索关键词，添加搜索条件
	if search != "" {
		query = query.Where("name LIKE ? OR phone LIKE ? OR permanent_id LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&staff).Error; err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// 6 Block 拉黑家政人员，必须填写备注；拉黑后门禁核验一律拒绝
func (s *StaffService) Block(staffID uint, remark string, actorID uint) (*models.Staff, error) {
	if strings.TrimSpace(remark) == "" {
		return nil, code.New(code.ErrRemarkRequired)
	}

	staff, err := s.GetStaffByID(staffID)
	if err != nil {
		return nil, err
	}

	if staff.Status == models.StaffStatusBlocked {
		return nil, code.NewWithMessage(code.ErrValidation, "该人员已处于拉黑状态")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.StaffStatusBlocked,
			"block_remark": strings.TrimSpace(remark),
		}
		if err := tx.Model(staff).Updates(updates).Error; err != nil {
			return err
		}
		return appendMovementLog(tx, staff.PermanentID, models.SubjectStaff,
			models.ActionBlocked, actorID, staff.Name, strings.TrimSpace(remark))
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Hello %s, your access has been blocked. Reason: %s. Please contact the resident for more information.",
		staff.Name, remark)
	if err := s.Notification.SendSMS(staff.Phone, message); err != nil {
		logger.Warning("拉黑通知短信发送失败: staff_id=%d, err=%v", staff.ID, err)
	}

	return s.GetStaffByID(staffID)
}

// 7 Unblock 解除拉黑，恢复门禁通行资格
func (s *StaffService) Unblock(staffID uint, actorID uint) (*models.Staff, error) {
	staff, err := s.GetStaffByID(staffID)
	if err != nil {
		return nil, err
	}

	if staff.Status != models.StaffStatusBlocked {
		return nil, code.NewWithMessage(code.ErrValidation, "该人员未处于拉黑状态")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       models.StaffStatusActive,
			"block_remark": "",
		}
		if err := tx.Model(staff).Updates(updates).Error; err != nil {
			return err
		}
		return appendMovementLog(tx, staff.PermanentID, models.SubjectStaff,
			models.ActionUnblocked, actorID, staff.Name, "")
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Hello %s, your access has been restored. You can now use your Permanent ID: %s for entry/exit.",
		staff.Name, staff.PermanentID)
	if err := s.Notification.SendSMS(staff.Phone, message); err != nil {
		logger.Warning("解除拉黑通知短信发送失败: staff_id=%d, err=%v", staff.ID, err)
	}

	return s.GetStaffByID(staffID)
}

// 8 DeleteStaff 删除家政人员（硬删除）
// 出入日志按永久ID引用且保存名称快照，历史视图不受删除影响
func (s *StaffService) DeleteStaff(staffID uint, residentID uint) error {
	staff, err := s.GetStaffByID(staffID)
	if err != nil {
		return err
	}

	if staff.ResidentID != residentID {
		return code.New(code.ErrPermissionDenied)
	}

	return s.DB.Delete(staff).Error
}

// generatePermanentID 生成4位数字永久ID，循环检查碰撞
func (s *StaffService) generatePermanentID() (string, error) {
	for i := 0; i < 20; i++ {
		id := utils.RandomDigits(4)

		var count int64
		if err := s.DB.Model(&models.Staff{}).Where("permanent_id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", code.NewWithMessage(code.ErrUnknown, "永久ID生成失败，请重试")
}
