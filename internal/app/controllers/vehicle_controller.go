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

// InterfaceVehicleController 定义车辆控制器接口
type InterfaceVehicleController interface {
	RegisterVehicle()
	RegisterGuestVehicle()
	GetVehicle()
	GetMyVehicles()
	GetVehicles()
	BlockVehicle()
	UnblockVehicle()
	DeleteVehicle()
}

// VehicleController 处理车辆相关的请求
type VehicleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVehicleController 创建一个新的车辆控制器
func NewVehicleController(ctx *gin.Context, container *container.ServiceContainer) *VehicleController {
	return &VehicleController{
		Ctx:       ctx,
		Container: container,
	}
}

// RegisterVehicleRequest 表示登记私家车的请求体
type RegisterVehicleRequest struct {
	VehicleNo   string `json:"vehicle_no" binding:"required" example:"MH12AB1234"`
	VehicleType string `json:"vehicle_type" binding:"required" example:"car"` // 可选值: car, bike, scooter, truck, van
}

// RegisterGuestVehicleRequest 表示登记访客车辆的请求体
type RegisterGuestVehicleRequest struct {
	VisitorID   uint   `json:"visitor_id" binding:"required" example:"3"`
	VehicleNo   string `json:"vehicle_no" binding:"required" example:"HP37G9923"`
	VehicleType string `json:"vehicle_type" binding:"required" example:"car"`
}

// BlockVehicleRequest 表示禁行车辆的请求体
type BlockVehicleRequest struct {
	Remark string `json:"remark" binding:"required" example:"多次占用消防通道"`
}

// HandleVehicleFunc 返回一个处理车辆请求的Gin处理函数
func HandleVehicleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVehicleController(ctx, container)

		switch method {
		case "registerVehicle":
			controller.RegisterVehicle()
		case "registerGuestVehicle":
			controller.RegisterGuestVehicle()
		case "getVehicle":
			controller.GetVehicle()
		case "getMyVehicles":
			controller.GetMyVehicles()
		case "getVehicles":
			controller.GetVehicles()
		case "blockVehicle":
			controller.BlockVehicle()
		case "unblockVehicle":
			controller.UnblockVehicle()
		case "deleteVehicle":
			controller.DeleteVehicle()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// RegisterVehicle 登记私家车
// @Summary      登记私家车
// @Description  住户登记自己的车辆，车牌号全局唯一
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        request body RegisterVehicleRequest true "车辆信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /vehicles [post]
// @Security     BearerAuth
func (c *VehicleController) RegisterVehicle() {
	var req RegisterVehicleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	ownerID := middleware.CurrentUserID(c.Ctx)
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.RegisterPersonalVehicle(ownerID, req.VehicleNo, models.VehicleType(req.VehicleType))
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, vehicle)
}

// RegisterGuestVehicle 登记访客车辆
// @Summary      登记访客车辆
// @Description  住户为已邀请的访客登记车辆
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        request body RegisterGuestVehicleRequest true "访客车辆信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /vehicles/guest [post]
// @Security     BearerAuth
func (c *VehicleController) RegisterGuestVehicle() {
	var req RegisterGuestVehicleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	ownerID := middleware.CurrentUserID(c.Ctx)
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.RegisterGuestVehicle(ownerID, req.VisitorID, req.VehicleNo, models.VehicleType(req.VehicleType))
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, vehicle)
}

// GetVehicle 获取单个车辆详情
// @Summary      获取车辆详情
// @Description  根据车牌号获取车辆详细信息与当前位置
// @Tags         Vehicle
// @Produce      json
// @Param        vehicle_no path string true "车牌号"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /vehicles/{vehicle_no} [get]
// @Security     BearerAuth
func (c *VehicleController) GetVehicle() {
	vehicleNo := c.Ctx.Param("vehicle_no")

	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.GetVehicleByNo(vehicleNo)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, vehicle)
}

// GetMyVehicles 获取当前住户名下的车辆列表
// @Summary      获取我的车辆
// @Description  获取当前登录住户登记的所有车辆
// @Tags         Vehicle
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /vehicles/mine [get]
// @Security     BearerAuth
func (c *VehicleController) GetMyVehicles() {
	ownerID := middleware.CurrentUserID(c.Ctx)
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicles, err := vehicleService.GetOwnerVehicles(ownerID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询车辆列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data": vehicles,
	})
}

// GetVehicles 获取所有车辆列表
// @Summary      获取车辆列表
// @Description  获取全小区的车辆列表，支持分页和搜索
// @Tags         Vehicle
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        search query string false "搜索关键词(车牌号、房号)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /vehicles [get]
// @Security     BearerAuth
func (c *VehicleController) GetVehicles() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	search := c.Ctx.Query("search")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicles, total, err := vehicleService.GetAllVehicles(page, pageSize, search)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询车辆列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        vehicles,
	})
}

// BlockVehicle 禁行车辆
// @Summary      禁行车辆
// @Description  禁止指定车辆进入小区，必须填写备注
// @Tags         Vehicle
// @Accept       json
// @Produce      json
// @Param        vehicle_no path string true "车牌号"
// @Param        request body BlockVehicleRequest true "禁行备注"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /vehicles/{vehicle_no}/block [post]
// @Security     BearerAuth
func (c *VehicleController) BlockVehicle() {
	vehicleNo := c.Ctx.Param("vehicle_no")

	var req BlockVehicleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	actorID := middleware.CurrentUserID(c.Ctx)
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.Block(vehicleNo, req.Remark, actorID)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"vehicle_no":   vehicle.VehicleNo,
		"entry_status": vehicle.EntryStatus,
		"block_remark": vehicle.BlockRemark,
	})
}

// UnblockVehicle 解除禁行
// @Summary      解除禁行
// @Description  解除车辆禁行状态，恢复进入资格
// @Tags         Vehicle
// @Produce      json
// @Param        vehicle_no path string true "车牌号"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /vehicles/{vehicle_no}/unblock [post]
// @Security     BearerAuth
func (c *VehicleController) UnblockVehicle() {
	vehicleNo := c.Ctx.Param("vehicle_no")

	actorID := middleware.CurrentUserID(c.Ctx)
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	vehicle, err := vehicleService.Unblock(vehicleNo, actorID)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"vehicle_no":   vehicle.VehicleNo,
		"entry_status": vehicle.EntryStatus,
	})
}

// DeleteVehicle 删除车辆
// @Summary      删除车辆
// @Description  删除住户自己登记的车辆，出入历史日志保留
// @Tags         Vehicle
// @Produce      json
// @Param        vehicle_no path string true "车牌号"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /vehicles/{vehicle_no} [delete]
// @Security     BearerAuth
func (c *VehicleController) DeleteVehicle() {
	vehicleNo := c.Ctx.Param("vehicle_no")

	ownerID := middleware.CurrentUserID(c.Ctx)
	vehicleService := c.Container.GetService("vehicle").(services.InterfaceVehicleService)
	if err := vehicleService.DeleteVehicle(vehicleNo, ownerID); err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"message": "车辆已删除",
	})
}
