package controllers

import (
	"strconv"

	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceStaffController 定义家政人员控制器接口
type InterfaceStaffController interface {
	RegisterStaff()
	GetStaff()
	GetMyStaff()
	GetStaffs()
	BlockStaff()
	UnblockStaff()
	DeleteStaff()
}

// StaffController 处理家政人员相关的请求
type StaffController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewStaffController 创建一个新的家政人员控制器
func NewStaffController(ctx *gin.Context, container *container.ServiceContainer) *StaffController {
	return &StaffController{
		Ctx:       ctx,
		Container: container,
	}
}

// RegisterStaffRequest 表示登记家政人员的请求体
type RegisterStaffRequest struct {
	Name      string `json:"name" binding:"required" example:"Sunita Devi"`
	Role      string `json:"role" binding:"required" example:"maid"` // 可选值: maid, driver, cook, other
	OtherRole string `json:"other_role" example:"gardener"`          // Role为other时填写具体工种
	Phone     string `json:"phone" binding:"required" example:"+919898989898"`
}

// BlockStaffRequest 表示拉黑家政人员的请求体
type BlockStaffRequest struct {
	Remark string `json:"remark" binding:"required" example:"多次未经允许带外人进入"`
}

// HandleStaffFunc 返回一个处理家政人员请求的Gin处理函数
func HandleStaffFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewStaffController(ctx, container)

		switch method {
		case "registerStaff":
			controller.RegisterStaff()
		case "getStaff":
			controller.GetStaff()
		case "getMyStaff":
			controller.GetMyStaff()
		case "getStaffs":
			controller.GetStaffs()
		case "blockStaff":
			controller.BlockStaff()
		case "unblockStaff":
			controller.UnblockStaff()
		case "deleteStaff":
			controller.DeleteStaff()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// RegisterStaff 登记家政人员
// @Summary      登记家政人员
// @Description  住户登记家政人员，系统签发永久ID并短信通知
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        request body RegisterStaffRequest true "家政人员信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /staff [post]
// @Security     BearerAuth
func (c *StaffController) RegisterStaff() {
	var req RegisterStaffRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	residentID := middleware.CurrentUserID(c.Ctx)
	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, err := staffService.RegisterStaff(&services.RegisterStaffRequest{
		Name:       req.Name,
		Role:       models.StaffRole(req.Role),
		OtherRole:  req.OtherRole,
		Phone:      req.Phone,
		ResidentID: residentID,
	})
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":           staff.ID,
		"permanent_id": staff.PermanentID,
		"name":         staff.Name,
		"role":         staff.Role,
		"other_role":   staff.OtherRole,
		"phone":        staff.Phone,
		"status":       staff.Status,
		"created_at":   staff.CreatedAt,
	})
}

// GetStaff 获取单个家政人员详情
// @Summary      获取家政人员详情
// @Description  根据ID获取家政人员详细信息与在园状态
// @Tags         Staff
// @Produce      json
// @Param        id path int true "家政人员ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /staff/{id} [get]
// @Security     BearerAuth
func (c *StaffController) GetStaff() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, err := staffService.GetStaffByID(uint(id))
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":              staff.ID,
		"permanent_id":    staff.PermanentID,
		"name":            staff.Name,
		"role":            staff.Role,
		"other_role":      staff.OtherRole,
		"phone":           staff.Phone,
		"status":          staff.Status,
		"block_remark":    staff.BlockRemark,
		"is_inside":       staff.IsInside,
		"last_entry_time": staff.LastEntryTime,
		"last_exit_time":  staff.LastExitTime,
		"created_at":      staff.CreatedAt,
	})
}

// GetMyStaff 获取当前住户名下的家政人员列表
// @Summary      获取我的家政人员
// @Description  获取当前登录住户登记的所有家政人员
// @Tags         Staff
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /staff/mine [get]
// @Security     BearerAuth
func (c *StaffController) GetMyStaff() {
	residentID := middleware.CurrentUserID(c.Ctx)
	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, err := staffService.GetResidentStaff(residentID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询家政人员列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data": staff,
	})
}

// GetStaffs 获取所有家政人员列表
// @Summary      获取家政人员列表
// @Description  获取全小区的家政人员列表，支持分页和搜索
// @Tags         Staff
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        search query string false "搜索关键词(姓名、电话、永久ID)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /staff [get]
// @Security     BearerAuth
func (c *StaffController) GetStaffs() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	search := c.Ctx.Query("search")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staffs, total, err := staffService.GetAllStaff(page, pageSize, search)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询家政人员列表失败: "+err.Error(), nil)
		return
	}

	var staffResponses []gin.H
	for _, staff := range staffs {
		staffResponses = append(staffResponses, gin.H{
			"id":           staff.ID,
			"permanent_id": staff.PermanentID,
			"name":         staff.Name,
			"role":         staff.Role,
			"phone":        staff.Phone,
			"status":       staff.Status,
			"is_inside":    staff.IsInside,
			"created_at":   staff.CreatedAt,
		})
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        staffResponses,
	})
}

// BlockStaff 拉黑家政人员
// @Summary      拉黑家政人员
// @Description  拉黑指定家政人员，必须填写备注；拉黑后门禁核验一律拒绝
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        id path int true "家政人员ID"
// @Param        request body BlockStaffRequest true "拉黑备注"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /staff/{id}/block [post]
// @Security     BearerAuth
func (c *StaffController) BlockStaff() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	var req BlockStaffRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	actorID := middleware.CurrentUserID(c.Ctx)
	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, err := staffService.Block(uint(id), req.Remark, actorID)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":           staff.ID,
		"permanent_id": staff.PermanentID,
		"status":       staff.Status,
		"block_remark": staff.BlockRemark,
	})
}

// UnblockStaff 解除拉黑
// @Summary      解除拉黑
// @Description  解除家政人员拉黑状态，恢复门禁通行资格
// @Tags         Staff
// @Produce      json
// @Param        id path int true "家政人员ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /staff/{id}/unblock [post]
// @Security     BearerAuth
func (c *StaffController) UnblockStaff() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	actorID := middleware.CurrentUserID(c.Ctx)
	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, err := staffService.Unblock(uint(id), actorID)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":           staff.ID,
		"permanent_id": staff.PermanentID,
		"status":       staff.Status,
	})
}

// DeleteStaff 删除家政人员
// @Summary      删除家政人员
// @Description  删除住户自己登记的家政人员，出入历史日志保留
// @Tags         Staff
// @Produce      json
// @Param        id path int true "家政人员ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /staff/{id} [delete]
// @Security     BearerAuth
func (c *StaffController) DeleteStaff() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	residentID := middleware.CurrentUserID(c.Ctx)
	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.DeleteStaff(uint(id), residentID); err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"message": "家政人员已删除",
	})
}
