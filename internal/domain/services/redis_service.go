package services

import (
	"context"
	"encoding/json"
	"time"

	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// InterfaceOTPStore 定义OTP存取接口，便于测试时替换为内存实现
type InterfaceOTPStore interface {
	SaveOTP(email string, record OTPRecord, ttl time.Duration) error
	GetOTP(email string) (*OTPRecord, error)
	DeleteOTP(email string) error
	// AcquireCooldown 尝试获取重发冷却锁，冷却中返回false
	AcquireCooldown(email string, ttl time.Duration) (bool, error)
}

// OTPRecord 表示一条已签发的OTP
type OTPRecord struct {
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// SaveOTP 写入OTP记录，同一邮箱的旧OTP被直接覆盖作废
func (s *RedisService) SaveOTP(email string, record OTPRecord, ttl time.Duration) error {
	return s.Set("otp:"+email, record, ttl)
}

// GetOTP 读取OTP记录，不存在时返回nil
func (s *RedisService) GetOTP(email string) (*OTPRecord, error) {
	var record OTPRecord
	err := s.Get("otp:"+email, &record)
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteOTP 删除OTP记录（校验成功后立即作废，防止重放）
func (s *RedisService) DeleteOTP(email string) error {
	return s.Delete("otp:" + email)
}

// AcquireCooldown 以SETNX方式获取重发冷却锁
func (s *RedisService) AcquireCooldown(email string, ttl time.Duration) (bool, error) {
	return s.Client.SetNX(s.Ctx, "otp_cooldown:"+email, 1, ttl).Result()
}
