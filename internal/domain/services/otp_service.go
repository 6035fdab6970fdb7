package services

import (
	"time"

	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/utils"
)

// InterfaceOTPService 定义OTP服务接口
type InterfaceOTPService interface {
	// Issue 为邮箱签发新OTP，重发冷却中返回ErrOtpCooldown；
	// 新OTP签发后旧OTP立即作废，有效期与冷却计时都重新开始
	Issue(email string) (string, error)
	// Verify 校验OTP，成功后立即作废（单次有效）
	Verify(email, otp string) error
}

// OTPService 提供一次性验证码的签发与校验
type OTPService struct {
	Store    InterfaceOTPStore
	TTL      time.Duration
	Cooldown time.Duration

	// 测试时可替换的时钟
	now func() time.Time
}

// NewOTPService 创建一个新的OTP服务
func NewOTPService(store InterfaceOTPStore, cfg *config.Config) InterfaceOTPService {
	return &OTPService{
		Store:    store,
		TTL:      time.Duration(cfg.OTPTTLSeconds) * time.Second,
		Cooldown: time.Duration(cfg.OTPResendCooldownSec) * time.Second,
		now:      time.Now,
	}
}

// Issue 签发6位数字OTP
func (s *OTPService) Issue(email string) (string, error) {
	ok, err := s.Store.AcquireCooldown(email, s.Cooldown)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", code.New(code.ErrOtpCooldown)
	}

	otp := utils.RandomDigits(6)
	record := OTPRecord{
		Code:      otp,
		IssuedAt:  s.now(),
		ExpiresAt: s.now().Add(s.TTL),
	}

	// 覆盖写入使同一邮箱先前签发的OTP立即失效
	if err := s.Store.SaveOTP(email, record, s.TTL); err != nil {
		return "", err
	}

	return otp, nil
}

// Verify 校验OTP并在成功后作废
func (s *OTPService) Verify(email, otp string) error {
	record, err := s.Store.GetOTP(email)
	if err != nil {
		return err
	}

	// 不存在视为已过期：要么从未签发，要么TTL已清除
	if record == nil {
		return code.New(code.ErrOtpExpired)
	}

	if s.now().After(record.ExpiresAt) {
		_ = s.Store.DeleteOTP(email)
		return code.New(code.ErrOtpExpired)
	}

	if record.Code != otp {
		return code.New(code.ErrOtpInvalid)
	}

	// 单次有效：校验通过立即删除，防止重放
	return s.Store.DeleteOTP(email)
}
