package routes

import (
	"time"

	"guardiannet-http-service/internal/app/controllers"
	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, nil)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册住户路由
	registerResidentRoutes(api, container)
	// 注册保安路由
	registerSecurityRoutes(api, container)
	// 注册管理员路由
	registerAdminRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件 - 每秒允许10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 兼容Docker健康检查的路由

	// 认证路由组 - OTP相关接口从严限流防止短信轰炸
	authGroup := api.Group("/auth")
	authGroup.POST("/login", controllers.HandleJWTFunc(container, "login"))
	authGroup.POST("/register", middleware.CombinedRateLimiter(1, 3), controllers.HandleJWTFunc(container, "register"))
	authGroup.POST("/confirm", controllers.HandleJWTFunc(container, "confirmRegistration"))
	authGroup.POST("/otp/resend", middleware.CombinedRateLimiter(1, 2), controllers.HandleJWTFunc(container, "resendOTP"))
	authGroup.POST("/password/forgot", middleware.CombinedRateLimiter(1, 2), controllers.HandleJWTFunc(container, "requestPasswordReset"))
	authGroup.POST("/password/reset", controllers.HandleJWTFunc(container, "resetPassword"))
}

// registerResidentRoutes 注册住户路由
func registerResidentRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 任意已登录角色可访问的路由
	authed := api.Group("/")
	authed.Use(middleware.Authentication())
	authed.Use(middleware.IPRateLimiter(30, 50))

	authed.GET("/auth/profile", controllers.HandleJWTFunc(container, "getProfile"))
	authed.POST("/auth/password/change", controllers.HandleJWTFunc(container, "changePassword"))

	// 警报上报对所有登录用户开放
	authed.POST("/emergency/alerts", controllers.HandleEmergencyFunc(container, "createAlert"))
	authed.GET("/emergency/alerts/mine", controllers.HandleEmergencyFunc(container, "getMyAlerts"))

	// 住户专属路由
	resident := api.Group("/")
	resident.Use(middleware.AuthenticateResident())
	resident.Use(middleware.IPRateLimiter(30, 50))

	// 家政人员登记
	staffGroup := resident.Group("/staff")
	staffGroup.POST("", controllers.HandleStaffFunc(container, "registerStaff"))
	staffGroup.GET("/mine", controllers.HandleStaffFunc(container, "getMyStaff"))
	staffGroup.POST("/:id/block", controllers.HandleStaffFunc(container, "blockStaff"))
	staffGroup.POST("/:id/unblock", controllers.HandleStaffFunc(container, "unblockStaff"))
	staffGroup.DELETE("/:id", controllers.HandleStaffFunc(container, "deleteStaff"))

	// 车辆登记
	vehicleGroup := resident.Group("/vehicles")
	vehicleGroup.POST("", controllers.HandleVehicleFunc(container, "registerVehicle"))
	vehicleGroup.POST("/guest", controllers.HandleVehicleFunc(container, "registerGuestVehicle"))
	vehicleGroup.GET("/mine", controllers.HandleVehicleFunc(container, "getMyVehicles"))
	vehicleGroup.DELETE("/:vehicle_no", controllers.HandleVehicleFunc(container, "deleteVehicle"))

	// 访客邀请
	visitorGroup := resident.Group("/visitors")
	visitorGroup.POST("", controllers.HandleVisitorFunc(container, "inviteVisitor"))
	visitorGroup.GET("/mine", controllers.HandleVisitorFunc(container, "getMyVisitors"))
	visitorGroup.GET("/:id/qr", controllers.HandleVisitorFunc(container, "getVisitorQR"))
	visitorGroup.POST("/:id/revoke", controllers.HandleVisitorFunc(container, "revokeVisitor"))

	// 快递预约
	deliveryGroup := resident.Group("/deliveries")
	deliveryGroup.POST("", controllers.HandleDeliveryFunc(container, "createDelivery"))
	deliveryGroup.GET("/mine", controllers.HandleDeliveryFunc(container, "getMyDeliveries"))
}

// registerSecurityRoutes 注册保安路由，管理员同样可以访问
func registerSecurityRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	security := api.Group("/")
	security.Use(middleware.AuthenticateSecurity())
	security.Use(middleware.IPRateLimiter(30, 50))

	// 门禁核验路由 - 核验接口不缓存
	gateGroup := security.Group("/gate")
	gateGroup.POST("/staff/entry", controllers.HandleGateFunc(container, "staffEntry"))
	gateGroup.POST("/staff/exit", controllers.HandleGateFunc(container, "staffExit"))
	gateGroup.POST("/vehicle/entry", controllers.HandleGateFunc(container, "vehicleEntry"))
	gateGroup.POST("/vehicle/exit", controllers.HandleGateFunc(container, "vehicleExit"))
	gateGroup.POST("/visitor/entry", controllers.HandleGateFunc(container, "visitorEntry"))
	gateGroup.POST("/visitor/exit", controllers.HandleGateFunc(container, "visitorExit"))
	gateGroup.POST("/delivery/entry", controllers.HandleGateFunc(container, "deliveryEntry"))
	gateGroup.POST("/delivery/exit", controllers.HandleGateFunc(container, "deliveryExit"))
	gateGroup.GET("/inside", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Second}), controllers.HandleGateFunc(container, "getInside"))
	gateGroup.GET("/logs", middleware.Cache(middleware.CacheConfig{Expiration: 10 * time.Second}), controllers.HandleGateFunc(container, "getLogs"))
	gateGroup.GET("/logs/:subject_id", controllers.HandleGateFunc(container, "getSubjectLogs"))

	// 登记信息查询路由
	security.GET("/staff", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}), controllers.HandleStaffFunc(container, "getStaffs"))
	security.GET("/staff/:id", controllers.HandleStaffFunc(container, "getStaff"))
	security.GET("/vehicles", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}), controllers.HandleVehicleFunc(container, "getVehicles"))
	security.GET("/vehicles/:vehicle_no", controllers.HandleVehicleFunc(container, "getVehicle"))
	security.GET("/visitors/:id", controllers.HandleVisitorFunc(container, "getVisitor"))
	security.GET("/deliveries/:id", controllers.HandleDeliveryFunc(container, "getDelivery"))

	// 警报处置路由
	emergencyGroup := security.Group("/emergency")
	emergencyGroup.GET("/alerts", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Second}), controllers.HandleEmergencyFunc(container, "getAlerts"))
	emergencyGroup.GET("/alerts/:id", controllers.HandleEmergencyFunc(container, "getAlert"))
	emergencyGroup.PUT("/alerts/:id/status", controllers.HandleEmergencyFunc(container, "updateAlertStatus"))
}

// registerAdminRoutes 注册管理员路由
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthenticateAdmin())
	admin.Use(middleware.IPRateLimiter(30, 50))

	// 账户审批路由
	admin.GET("/accounts/pending", middleware.Cache(middleware.CacheConfig{Expiration: 10 * time.Second}), controllers.HandleAdminFunc(container, "getPendingAccounts"))
	admin.POST("/accounts/:id/approve", controllers.HandleAdminFunc(container, "approveAccount"))
	admin.POST("/accounts/:id/reject", controllers.HandleAdminFunc(container, "rejectAccount"))

	// 管理员可拉黑家政人员与禁行车辆
	admin.POST("/staff/:id/block", controllers.HandleStaffFunc(container, "blockStaff"))
	admin.POST("/staff/:id/unblock", controllers.HandleStaffFunc(container, "unblockStaff"))
	admin.POST("/vehicles/:vehicle_no/block", controllers.HandleVehicleFunc(container, "blockVehicle"))
	admin.POST("/vehicles/:vehicle_no/unblock", controllers.HandleVehicleFunc(container, "unblockVehicle"))
}
