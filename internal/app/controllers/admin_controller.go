package controllers

import (
	"strconv"

	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	GetPendingAccounts()
	ApproveAccount()
	RejectAccount()
}

// AdminController 处理管理员审批相关的请求
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// RejectAccountRequest 表示拒绝注册的请求体
type RejectAccountRequest struct {
	Remark string `json:"remark" binding:"required" example:"房号信息无法核实"`
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getPendingAccounts":
			controller.GetPendingAccounts()
		case "approveAccount":
			controller.ApproveAccount()
		case "rejectAccount":
			controller.RejectAccount()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetPendingAccounts 获取待审批账户列表
// @Summary      获取待审批账户
// @Description  获取所有等待审批的注册账户，支持分页
// @Tags         Admin
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/accounts/pending [get]
// @Security     BearerAuth
func (c *AdminController) GetPendingAccounts() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	accounts, total, err := accountService.GetPendingAccounts(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询待审批账户失败: "+err.Error(), nil)
		return
	}

	var accountResponses []gin.H
	for _, account := range accounts {
		accountResponses = append(accountResponses, gin.H{
			"id":         account.ID,
			"name":       account.Name,
			"email":      account.Email,
			"phone":      account.Phone,
			"role":       account.Role,
			"flat_no":    account.FlatNo,
			"activated":  account.Activated,
			"created_at": account.CreatedAt,
		})
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        accountResponses,
	})
}

// ApproveAccount 审批通过注册账户
// @Summary      审批通过
// @Description  审批通过指定账户，重复审批为幂等操作
// @Tags         Admin
// @Produce      json
// @Param        id path int true "账户ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/accounts/{id}/approve [post]
// @Security     BearerAuth
func (c *AdminController) ApproveAccount() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	account, err := accountService.Approve(uint(id))
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":              account.ID,
		"name":            account.Name,
		"email":           account.Email,
		"approval_status": account.ApprovalStatus,
	})
}

// RejectAccount 拒绝注册账户
// @Summary      拒绝注册
// @Description  拒绝指定账户的注册申请，必须填写拒绝备注
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "账户ID"
// @Param        request body RejectAccountRequest true "拒绝备注"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/accounts/{id}/reject [post]
// @Security     BearerAuth
func (c *AdminController) RejectAccount() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	var req RejectAccountRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	accountService := c.Container.GetService("account").(services.InterfaceAccountService)
	account, err := accountService.Reject(uint(id), req.Remark)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":               account.ID,
		"name":             account.Name,
		"email":            account.Email,
		"approval_status":  account.ApprovalStatus,
		"rejection_remark": account.RejectionRemark,
	})
}
