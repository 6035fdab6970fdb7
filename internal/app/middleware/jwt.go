package middleware

import (
	"net/http"
	"strings"

	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// authenticate 校验token并检查角色白名单，roles为空表示任意有效角色
func authenticate(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Authorization header is required",
				"data":    nil,
			})
			c.Abort()
			return
		}

		tokenString := extractToken(authHeader)
		token, err := jwtService.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid or expired token",
				"data":    nil,
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid token claims",
				"data":    nil,
			})
			c.Abort()
			return
		}

		role, exists := claims["role"].(string)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions: missing role",
				"data":    nil,
			})
			c.Abort()
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{
					"code":    403,
					"message": "Insufficient permissions: requires " + strings.Join(roles, " or ") + " role",
					"data":    nil,
				})
				c.Abort()
				return
			}
		}

		// 存储claims到上下文
		c.Set("userID", claims["user_id"])
		c.Set("role", role)
		c.Set("claims", claims)
		c.Next()
	}
}

// AuthenticateAdmin 验证管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return authenticate("admin")
}

// AuthenticateSecurity 验证保安权限，管理员也可以访问保安的接口
func AuthenticateSecurity() gin.HandlerFunc {
	return authenticate("security", "admin")
}

// AuthenticateResident 验证住户权限
func AuthenticateResident() gin.HandlerFunc {
	return authenticate("resident")
}

// Authentication 通用的认证中间件，任意有效角色均可访问
func Authentication() gin.HandlerFunc {
	return authenticate("resident", "security", "admin")
}

// CurrentUserID 从上下文中取出当前登录用户ID
func CurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(float64); ok {
			return uint(id)
		}
	}
	return 0
}
