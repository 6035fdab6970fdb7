package services

import (
	"errors"
	"fmt"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/utils"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID uint, role models.Role) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
	Login(email, password string) (*LoginResult, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token     string      `json:"token"`
	UserID    uint        `json:"user_id"`
	Role      models.Role `json:"role"`
	Name      string      `json:"name"`
	FlatNo    string      `json:"flat_no,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	DB        *gorm.DB
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "guardiannet-http-service",
		DB:        db,
	}
}

// GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(userID uint, role models.Role) (string, error) {
	// 令牌有效期为24小时
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken 验证JWT令牌
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// ExtractClaims 从令牌中提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	jwtClaims := &JWTClaims{}

	// 提取用户ID
	if userID, ok := claims["user_id"].(float64); ok {
		jwtClaims.UserID = uint(userID)
	}

	// 提取角色
	if role, ok := claims["role"].(string); ok {
		jwtClaims.Role = models.Role(role)
	}

	if issuer, ok := claims["iss"].(string); ok {
		jwtClaims.Issuer = issuer
	}

	return jwtClaims, nil
}

// Login 处理用户登录请求
// 未激活、待审批、已拒绝的账户都不允许登录，已拒绝时回显拒绝备注
func (s *JWTService) Login(email, password string) (*LoginResult, error) {
	var account models.Account
	if err := s.DB.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrPasswordIncorrect)
		}
		return nil, err
	}

	// 比较密码
	if !utils.CheckPasswordHash(password, account.Password) {
		return nil, code.New(code.ErrPasswordIncorrect)
	}

	// 注册流程校验：先OTP激活，再管理员审批
	if !account.Activated {
		return nil, code.New(code.ErrAccountNotActivated)
	}

	switch account.ApprovalStatus {
	case models.ApprovalApproved:
		// 允许登录
	case models.ApprovalRejected:
		msg := code.GetMessage(code.ErrAccountRejected)
		if account.RejectionRemark != "" {
			msg = msg + ": " + account.RejectionRemark
		}
		return nil, code.NewWithMessage(code.ErrAccountRejected, msg)
	default:
		return nil, code.New(code.ErrAccountNotApproved)
	}

	token, err := s.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		UserID:    account.ID,
		Role:      account.Role,
		Name:      account.Name,
		FlatNo:    account.FlatNo,
		CreatedAt: account.CreatedAt,
	}, nil
}
