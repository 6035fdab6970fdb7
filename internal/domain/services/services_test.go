package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 为每个测试创建独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Staff{},
		&models.Vehicle{},
		&models.Visitor{},
		&models.Delivery{},
		&models.MovementLog{},
		&models.EmergencyAlert{},
	))

	return db
}

// newTestConfig 返回测试用配置
func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret-key",
		OTPTTLSeconds:        300,
		OTPResendCooldownSec: 30,
		PassTTLHours:         24,
	}
}

// createTestResident 创建一个已审批通过的住户账户
func createTestResident(t *testing.T, db *gorm.DB, flatNo string) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:           "Test Resident " + flatNo,
		Email:          flatNo + "@test.local",
		Phone:          "+910000000000",
		Password:       "hashed",
		Role:           models.RoleResident,
		FlatNo:         flatNo,
		Activated:      true,
		ApprovalStatus: models.ApprovalApproved,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// createTestSecurity 创建一个保安账户
func createTestSecurity(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:           "Test Guard",
		Email:          fmt.Sprintf("guard-%s@test.local", strings.ReplaceAll(t.Name(), "/", "_")),
		Phone:          "+910000000001",
		Password:       "hashed",
		Role:           models.RoleSecurity,
		Activated:      true,
		ApprovalStatus: models.ApprovalApproved,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// fakeNotifier 记录发出的短信，用于断言通知行为
type fakeNotifier struct {
	mu       sync.Mutex
	Messages []string
	To       []string
}

func (f *fakeNotifier) SendSMS(to, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.To = append(f.To, to)
	f.Messages = append(f.Messages, message)
	return nil
}

// fakePublisher 记录广播的警报
type fakePublisher struct {
	mu        sync.Mutex
	Published []*models.EmergencyAlert
}

func (f *fakePublisher) Connect() error { return nil }

func (f *fakePublisher) PublishAlert(alert *models.EmergencyAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Published = append(f.Published, alert)
	return nil
}

func (f *fakePublisher) Disconnect() {}

// memoryOTPStore 是InterfaceOTPStore的内存实现，配合假时钟测试OTP行为
type memoryOTPStore struct {
	mu        sync.Mutex
	records   map[string]OTPRecord
	cooldowns map[string]time.Time
	now       func() time.Time
}

func newMemoryOTPStore(now func() time.Time) *memoryOTPStore {
	return &memoryOTPStore{
		records:   make(map[string]OTPRecord),
		cooldowns: make(map[string]time.Time),
		now:       now,
	}
}

func (m *memoryOTPStore) SaveOTP(email string, record OTPRecord, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[email] = record
	return nil
}

func (m *memoryOTPStore) GetOTP(email string) (*OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[email]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *memoryOTPStore) DeleteOTP(email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, email)
	return nil
}

func (m *memoryOTPStore) AcquireCooldown(email string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if until, ok := m.cooldowns[email]; ok && m.now().Before(until) {
		return false, nil
	}
	m.cooldowns[email] = m.now().Add(ttl)
	return true, nil
}
