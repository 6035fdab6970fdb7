package controllers

import (
	"net/http"
	"strconv"

	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceVisitorController 定义访客控制器接口
type InterfaceVisitorController interface {
	InviteVisitor()
	GetVisitor()
	GetMyVisitors()
	RevokeVisitor()
	GetVisitorQR()
}

// VisitorController 处理访客邀请相关的请求
type VisitorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVisitorController 创建一个新的访客控制器
func NewVisitorController(ctx *gin.Context, container *container.ServiceContainer) *VisitorController {
	return &VisitorController{
		Ctx:       ctx,
		Container: container,
	}
}

// InviteVisitorRequest 表示邀请访客的请求体
type InviteVisitorRequest struct {
	Name    string `json:"name" binding:"required" example:"Amit Verma"`
	Phone   string `json:"phone" binding:"required" example:"+919912345678"`
	Purpose string `json:"purpose" example:"家庭聚会"`
}

// HandleVisitorFunc 返回一个处理访客请求的Gin处理函数
func HandleVisitorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVisitorController(ctx, container)

		switch method {
		case "inviteVisitor":
			controller.InviteVisitor()
		case "getVisitor":
			controller.GetVisitor()
		case "getMyVisitors":
			controller.GetMyVisitors()
		case "revokeVisitor":
			controller.RevokeVisitor()
		case "getVisitorQR":
			controller.GetVisitorQR()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// InviteVisitor 邀请访客
// @Summary      邀请访客
// @Description  住户邀请访客，系统签发单次有效的二维码通行证
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        request body InviteVisitorRequest true "访客信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /visitors [post]
// @Security     BearerAuth
func (c *VisitorController) InviteVisitor() {
	var req InviteVisitorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	residentID := middleware.CurrentUserID(c.Ctx)
	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.InviteVisitor(&services.InviteVisitorRequest{
		Name:       req.Name,
		Phone:      req.Phone,
		Purpose:    req.Purpose,
		ResidentID: residentID,
	})
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, visitor)
}

// GetVisitor 获取单个访客详情
// @Summary      获取访客详情
// @Description  根据ID获取访客详细信息与通行状态
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id} [get]
// @Security     BearerAuth
func (c *VisitorController) GetVisitor() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.GetVisitorByID(uint(id))
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, visitor)
}

// GetMyVisitors 获取当前住户邀请的访客列表
// @Summary      获取我的访客
// @Description  获取当前登录住户邀请的所有访客
// @Tags         Visitor
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /visitors/mine [get]
// @Security     BearerAuth
func (c *VisitorController) GetMyVisitors() {
	residentID := middleware.CurrentUserID(c.Ctx)
	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitors, err := visitorService.GetResidentVisitors(residentID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询访客列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data": visitors,
	})
}

// RevokeVisitor 撤销访客通行证
// @Summary      撤销通行证
// @Description  撤销尚未使用的访客通行证，已入园的通行证不可撤销
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id}/revoke [post]
// @Security     BearerAuth
func (c *VisitorController) RevokeVisitor() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	residentID := middleware.CurrentUserID(c.Ctx)
	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.Revoke(uint(id), residentID)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":           visitor.ID,
		"name":         visitor.Name,
		"entry_status": visitor.EntryStatus,
	})
}

// GetVisitorQR 获取访客通行证二维码
// @Summary      获取通行证二维码
// @Description  将访客通行证令牌渲染为PNG二维码图片
// @Tags         Visitor
// @Produce      png
// @Param        id path int true "访客ID"
// @Success      200  {file}    binary
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id}/qr [get]
// @Security     BearerAuth
func (c *VisitorController) GetVisitorQR() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	residentID := middleware.CurrentUserID(c.Ctx)
	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	png, err := visitorService.RenderPassQR(uint(id), residentID)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	c.Ctx.Data(http.StatusOK, "image/png", png)
}
