package controllers

import (
	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Register()
	ConfirmRegistration()
	Login()
	RequestPasswordReset()
	ResendOTP()
	ResetPassword()
	ChangePassword()
	GetProfile()
}

// JWTController 处理身份验证与账户生命周期请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// RegisterRequest 表示注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Rahul Sharma"`
	Email    string `json:"email" binding:"required,email" example:"rahul@example.com"`
	Phone    string `json:"phone" binding:"required" example:"+919812345678"`
	Password string `json:"password" binding:"required,min=6" example:"Secret@123"`
	Role     string `json:"role" binding:"required" example:"resident"` // 可选值: resident, security
	FlatNo   string `json:"flat_no" example:"A-101"`                    // 住户必填
}

// ConfirmRegistrationRequest 表示注册确认请求
type ConfirmRegistrationRequest struct {
	Email string `json:"email" binding:"required,email" example:"rahul@example.com"`
	OTP   string `json:"otp" binding:"required" example:"482913"`
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"rahul@example.com"`
	Password string `json:"password" binding:"required" example:"Secret@123"`
}

// EmailRequest 表示只携带邮箱的请求
type EmailRequest struct {
	Email string `json:"email" binding:"required,email" example:"rahul@example.com"`
}

// ResetPasswordRequest 表示重置密码请求
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email" example:"rahul@example.com"`
	OTP         string `json:"otp" binding:"required" example:"482913"`
	NewPassword string `json:"new_password" binding:"required,min=6" example:"NewSecret@456"`
}

// ChangePasswordRequest 表示修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"Secret@123"`
	NewPassword string `json:"new_password" binding:"required,min=6" example:"NewSecret@456"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"100401"`
	Message string      `json:"message" example:"认证失败"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "register":
			controller.Register()
		case "confirmRegistration":
			controller.ConfirmRegistration()
		case "login":
			controller.Login()
		case "requestPasswordReset":
			controller.RequestPasswordReset()
		case "resendOTP":
			controller.ResendOTP()
		case "resetPassword":
			controller.ResetPassword()
		case "changePassword":
			controller.ChangePassword()
		case "getProfile":
			controller.GetProfile()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Register 处理账户注册
// @Summary      用户注册
// @Description  注册住户或保安账户，注册后需要OTP激活并等待管理员审批
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "注册请求参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (c *JWTController) Register() {
	var req RegisterRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	account, err := accountService.Register(&services.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     models.Role(req.Role),
		FlatNo:   req.FlatNo,
	})
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":              account.ID,
		"name":            account.Name,
		"email":           account.Email,
		"role":            account.Role,
		"approval_status": account.ApprovalStatus,
	})
}

// ConfirmRegistration 处理注册OTP确认
// @Summary      确认注册
// @Description  校验注册OTP，通过后账户进入待审批状态
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ConfirmRegistrationRequest true "确认请求参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/confirm [post]
func (c *JWTController) ConfirmRegistration() {
	var req ConfirmRegistrationRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	if err := accountService.ConfirmRegistration(req.Email, req.OTP); err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"message": "账户已激活，等待管理员审批",
	})
}

// Login 处理用户登录
// @Summary      用户登录
// @Description  校验邮箱与密码并返回JWT令牌，未激活或未审批的账户不允许登录
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录请求参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.Login(req.Email, req.Password)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, result)
}

// RequestPasswordReset 处理找回密码请求
// @Summary      找回密码
// @Description  向账户手机号下发重置密码OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body EmailRequest true "邮箱"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/password/forgot [post]
func (c *JWTController) RequestPasswordReset() {
	var req EmailRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	if err := accountService.RequestPasswordReset(req.Email); err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"message": "验证码已发送",
	})
}

// ResendOTP 处理OTP重发
// @Summary      重发验证码
// @Description  重发OTP，受冷却时间限制；新验证码签发后旧验证码作废
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body EmailRequest true "邮箱"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /auth/otp/resend [post]
func (c *JWTController) ResendOTP() {
	var req EmailRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	if err := accountService.ResendOTP(req.Email); err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"message": "验证码已重新发送",
	})
}

// ResetPassword 处理重置密码
// @Summary      重置密码
// @Description  校验OTP并设置新密码，验证码单次有效
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "重置密码请求参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/password/reset [post]
func (c *JWTController) ResetPassword() {
	var req ResetPasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	if err := accountService.ResetPassword(req.Email, req.OTP, req.NewPassword); err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"message": "密码已重置",
	})
}

// ChangePassword 处理登录态修改密码
// @Summary      修改密码
// @Description  校验原密码后设置新密码
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "修改密码请求参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/password/change [post]
// @Security     BearerAuth
func (c *JWTController) ChangePassword() {
	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	userID := middleware.CurrentUserID(c.Ctx)
	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	if err := accountService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"message": "密码已修改",
	})
}

// GetProfile 获取当前登录用户信息
// @Summary      获取个人信息
// @Description  返回当前登录用户的账户信息
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/profile [get]
// @Security     BearerAuth
func (c *JWTController) GetProfile() {
	userID := middleware.CurrentUserID(c.Ctx)
	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	account, err := accountService.GetAccountByID(userID)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":              account.ID,
		"name":            account.Name,
		"email":           account.Email,
		"phone":           account.Phone,
		"role":            account.Role,
		"flat_no":         account.FlatNo,
		"approval_status": account.ApprovalStatus,
		"created_at":      account.CreatedAt,
	})
}
