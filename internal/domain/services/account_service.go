package services

import (
	"errors"
	"strings"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/logger"
	"guardiannet-http-service/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceAccountService 定义账户服务接口
type InterfaceAccountService interface {
	Register(req *RegisterRequest) (*models.Account, error)
	ConfirmRegistration(email, otp string) error
	RequestPasswordReset(email string) error
	ResendOTP(email string) error
	ResetPassword(email, otp, newPassword string) error
	ChangePassword(accountID uint, oldPassword, newPassword string) error
	GetAccountByID(id uint) (*models.Account, error)
	GetPendingAccounts(page, pageSize int) ([]models.Account, int64, error)
	Approve(id uint) (*models.Account, error)
	Reject(id uint, remark string) (*models.Account, error)
	PurgeStaleRegistrations(olderThan time.Duration) (int64, error)
}

// RegisterRequest 表示注册请求
type RegisterRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     models.Role
	FlatNo   string
}

// AccountService 提供账户注册、找回密码与审批相关的服务
type AccountService struct {
	DB           *gorm.DB
	Config       *config.Config
	OTP          InterfaceOTPService
	Notification InterfaceNotificationService
}

// NewAccountService 创建一个新的账户服务
func NewAccountService(db *gorm.DB, cfg *config.Config, otp InterfaceOTPService, notification InterfaceNotificationService) InterfaceAccountService {
	return &AccountService{
		DB:           db,
		Config:       cfg,
		OTP:          otp,
		Notification: notification,
	}
}

// 1 Register 创建待审批账户并发送激活OTP
func (s *AccountService) Register(req *RegisterRequest) (*models.Account, error) {
	if !req.Role.Valid() || req.Role == models.RoleAdmin {
		// 管理员账户只能由系统引导创建，不开放注册
		return nil, code.NewWithMessage(code.ErrValidation, "无效的注册角色")
	}

	// 住户必须填写房号
	if req.Role == models.RoleResident && strings.TrimSpace(req.FlatNo) == "" {
		return nil, code.NewWithMessage(code.ErrValidation, "住户注册必须填写房号")
	}

	// 校验邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, code.New(code.ErrAccountAlreadyExist)
	}

	// 校验房号唯一性（仅住户）
	if req.Role == models.RoleResident {
		if err := s.DB.Model(&models.Account{}).
			Where("role = ? AND flat_no = ?", models.RoleResident, req.FlatNo).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, code.New(code.ErrFlatAlreadyRegistered)
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       hashedPassword,
		Role:           req.Role,
		ApprovalStatus: models.ApprovalPending,
	}
	if req.Role == models.RoleResident {
		account.FlatNo = req.FlatNo
	}

	if err := s.DB.Create(account).Error; err != nil {
		return nil, err
	}

	// 发送激活OTP，5分钟内完成确认
	if err := s.sendOTP(account.Email, account.Phone); err != nil {
		return nil, err
	}

	return account, nil
}

// 2 ConfirmRegistration 校验激活OTP，通过后账户进入待审批状态
func (s *AccountService) ConfirmRegistration(email, otp string) error {
	account, err := s.getByEmail(email)
	if err != nil {
		return err
	}

	if err := s.OTP.Verify(email, otp); err != nil {
		return err
	}

	return s.DB.Model(account).Update("activated", true).Error
}

// 3 RequestPasswordReset 为找回密码签发OTP
func (s *AccountService) RequestPasswordReset(email string) error {
	account, err := s.getByEmail(email)
	if err != nil {
		return err
	}

	return s.sendOTP(account.Email, account.Phone)
}

// 4 ResendOTP 重发OTP，受30秒冷却限制；新OTP签发后旧OTP作废
func (s *AccountService) ResendOTP(email string) error {
	account, err := s.getByEmail(email)
	if err != nil {
		return err
	}

	return s.sendOTP(account.Email, account.Phone)
}

// 5 ResetPassword 校验OTP并重置密码，成功后OTP作废不可重放
func (s *AccountService) ResetPassword(email, otp, newPassword string) error {
	account, err := s.getByEmail(email)
	if err != nil {
		return err
	}

	if err := s.OTP.Verify(email, otp); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.DB.Model(account).Update("password", hashedPassword).Error
}

// 6 ChangePassword 登录态下修改密码
func (s *AccountService) ChangePassword(accountID uint, oldPassword, newPassword string) error {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(oldPassword, account.Password) {
		return code.NewWithMessage(code.ErrPasswordIncorrect, "原密码不正确")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.DB.Model(account).Update("password", hashedPassword).Error
}

// 7 GetAccountByID 根据ID获取账户
func (s *AccountService) GetAccountByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := s.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAccountNotFound)
		}
		return nil, err
	}
	return &account, nil
}

// 8 GetPendingAccounts 获取待审批账户列表，支持分页
func (s *AccountService) GetPendingAccounts(page, pageSize int) ([]models.Account, int64, error) {
	var accounts []models.Account
	var total int64

	query := s.DB.Model(&models.Account{}).Where("approval_status = ?", models.ApprovalPending)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at ASC").Limit(pageSize).Offset(offset).Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// 9 Approve 审批通过，重复审批为幂等空操作
func (s *AccountService) Approve(id uint) (*models.Account, error) {
	account, err := s.GetAccountByID(id)
	if err != nil {
		return nil, err
	}

	if account.ApprovalStatus == models.ApprovalApproved {
		return account, nil
	}

	updates := map[string]interface{}{
		"approval_status":  models.ApprovalApproved,
		"rejection_remark": "",
	}
	if err := s.DB.Model(account).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetAccountByID(id)
}

// 10 Reject 拒绝注册，必须填写拒绝备注供用户查看
func (s *AccountService) Reject(id uint, remark string) (*models.Account, error) {
	if strings.TrimSpace(remark) == "" {
		return nil, code.New(code.ErrRemarkRequired)
	}

	account, err := s.GetAccountByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"approval_status":  models.ApprovalRejected,
		"rejection_remark": strings.TrimSpace(remark),
	}
	if err := s.DB.Model(account).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetAccountByID(id)
}

// 11 PurgeStaleRegistrations 清理长期未审批的注册账户
func (s *AccountService) PurgeStaleRegistrations(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result := s.DB.Where("approval_status = ? AND created_at < ?", models.ApprovalPending, cutoff).
		Delete(&models.Account{})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info("已清理%d个过期未审批账户", result.RowsAffected)
	}

	return result.RowsAffected, nil
}

// sendOTP 签发OTP并通过短信发送，发送失败不回滚签发
func (s *AccountService) sendOTP(email, phone string) error {
	otp, err := s.OTP.Issue(email)
	if err != nil {
		return err
	}

	message := "Your GuardianNet verification code is: " + otp + ". This code is valid for 5 minutes."
	if err := s.Notification.SendSMS(phone, message); err != nil {
		logger.Warning("OTP短信发送失败: email=%s, err=%v", email, err)
	}

	return nil
}

// getByEmail 根据邮箱获取账户
func (s *AccountService) getByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAccountNotFound)
		}
		return nil, err
	}
	return &account, nil
}
