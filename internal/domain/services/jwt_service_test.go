package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLoginAccount(t *testing.T, db *gorm.DB, password string, activated bool, approval models.ApprovalStatus) *models.Account {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)

	account := &models.Account{
		Name:           "Login User",
		Email:          "login@test.local",
		Phone:          "+915555555555",
		Password:       hashed,
		Role:           models.RoleResident,
		FlatNo:         "A-101",
		Activated:      activated,
		ApprovalStatus: approval,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	account := seedLoginAccount(t, db, "secret123", true, models.ApprovalApproved)
	svc := NewJWTService(newTestConfig(), db)

	result, err := svc.Login("login@test.local", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, account.ID, result.UserID)
	assert.Equal(t, models.RoleResident, result.Role)
	assert.Equal(t, "A-101", result.FlatNo)

	// 令牌可解析回用户ID与角色
	claims, err := svc.ExtractClaims(result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.UserID)
	assert.Equal(t, models.RoleResident, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	seedLoginAccount(t, db, "secret123", true, models.ApprovalApproved)
	svc := NewJWTService(newTestConfig(), db)

	_, err := svc.Login("login@test.local", "wrong")
	assert.True(t, code.Is(err, code.ErrPasswordIncorrect))

	// 未知邮箱与密码错误返回同一错误码，不泄露账户是否存在
	_, err = svc.Login("nobody@test.local", "secret123")
	assert.True(t, code.Is(err, code.ErrPasswordIncorrect))
}

func TestLoginRegistrationGates(t *testing.T) {
	db := newTestDB(t)
	account := seedLoginAccount(t, db, "secret123", false, models.ApprovalPending)
	svc := NewJWTService(newTestConfig(), db)

	// 未完成OTP激活
	_, err := svc.Login("login@test.local", "secret123")
	assert.True(t, code.Is(err, code.ErrAccountNotActivated))

	// 已激活但审批待定
	require.NoError(t, db.Model(account).Update("activated", true).Error)
	_, err = svc.Login("login@test.local", "secret123")
	assert.True(t, code.Is(err, code.ErrAccountNotApproved))

	// 审批被拒绝，错误消息回显拒绝备注
	require.NoError(t, db.Model(account).Updates(map[string]interface{}{
		"approval_status":  models.ApprovalRejected,
		"rejection_remark": "证件信息不符",
	}).Error)
	_, err = svc.Login("login@test.local", "secret123")
	require.Error(t, err)
	assert.True(t, code.Is(err, code.ErrAccountRejected))
	assert.Contains(t, err.Error(), "证件信息不符")

	// 审批通过后可以登录
	require.NoError(t, db.Model(account).Update("approval_status", models.ApprovalApproved).Error)
	_, err = svc.Login("login@test.local", "secret123")
	require.NoError(t, err)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	token, err := svc.GenerateToken(1, models.RoleResident)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	// 篡改后的令牌验签失败
	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	// 其他密钥签发的令牌验签失败
	otherCfg := newTestConfig()
	otherCfg.JWTSecretKey = "another-secret"
	other := NewJWTService(otherCfg, db)
	foreign, err := other.GenerateToken(1, models.RoleResident)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)
}
