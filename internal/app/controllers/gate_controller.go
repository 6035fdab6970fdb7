package controllers

import (
	"strconv"

	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceGateController 定义门禁控制器接口
type InterfaceGateController interface {
	StaffEntry()
	StaffExit()
	VehicleEntry()
	VehicleExit()
	VisitorEntry()
	VisitorExit()
	DeliveryEntry()
	DeliveryExit()
	GetInside()
	GetLogs()
	GetSubjectLogs()
}

// GateController 处理门禁核验相关的请求，由保安端调用
type GateController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewGateController 创建一个新的门禁控制器
func NewGateController(ctx *gin.Context, container *container.ServiceContainer) *GateController {
	return &GateController{
		Ctx:       ctx,
		Container: container,
	}
}

// GateCredentialRequest 表示门禁核验凭证
// 家政人员传永久ID，车辆传车牌号，访客传通行证令牌，快递传通行码
type GateCredentialRequest struct {
	Credential string `json:"credential" binding:"required" example:"4821"`
}

// HandleGateFunc 返回一个处理门禁请求的Gin处理函数
func HandleGateFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewGateController(ctx, container)

		switch method {
		case "staffEntry":
			controller.StaffEntry()
		case "staffExit":
			controller.StaffExit()
		case "vehicleEntry":
			controller.VehicleEntry()
		case "vehicleExit":
			controller.VehicleExit()
		case "visitorEntry":
			controller.VisitorEntry()
		case "visitorExit":
			controller.VisitorExit()
		case "deliveryEntry":
			controller.DeliveryEntry()
		case "deliveryExit":
			controller.DeliveryExit()
		case "getInside":
			controller.GetInside()
		case "getLogs":
			controller.GetLogs()
		case "getSubjectLogs":
			controller.GetSubjectLogs()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// bindCredential 解析核验凭证请求体
func (c *GateController) bindCredential() (string, bool) {
	var req GateCredentialRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return "", false
	}
	return req.Credential, true
}

// StaffEntry 家政人员入园核验
// @Summary      家政人员入园
// @Description  保安核验家政人员永久ID，拉黑或已在园内的人员拒绝入园
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "永久ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/staff/entry [post]
// @Security     BearerAuth
func (c *GateController) StaffEntry() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	staff, err := gateService.StaffEntry(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"permanent_id":    staff.PermanentID,
		"name":            staff.Name,
		"role":            staff.Role,
		"is_inside":       staff.IsInside,
		"last_entry_time": staff.LastEntryTime,
	})
}

// StaffExit 家政人员出园核验
// @Summary      家政人员出园
// @Description  保安核验家政人员永久ID并登记出园
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "永久ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/staff/exit [post]
// @Security     BearerAuth
func (c *GateController) StaffExit() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	staff, err := gateService.StaffExit(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"permanent_id":   staff.PermanentID,
		"name":           staff.Name,
		"is_inside":      staff.IsInside,
		"last_exit_time": staff.LastExitTime,
	})
}

// VehicleEntry 车辆入园核验
// @Summary      车辆入园
// @Description  保安核验车牌号，禁行或已在园内的车辆拒绝入园
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "车牌号"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/vehicle/entry [post]
// @Security     BearerAuth
func (c *GateController) VehicleEntry() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	vehicle, err := gateService.VehicleEntry(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"vehicle_no":      vehicle.VehicleNo,
		"flat_no":         vehicle.FlatNo,
		"current_status":  vehicle.CurrentStatus,
		"last_entry_time": vehicle.LastEntryTime,
	})
}

// VehicleExit 车辆出园核验
// @Summary      车辆出园
// @Description  保安核验车牌号并登记出园
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "车牌号"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/vehicle/exit [post]
// @Security     BearerAuth
func (c *GateController) VehicleExit() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	vehicle, err := gateService.VehicleExit(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"vehicle_no":     vehicle.VehicleNo,
		"current_status": vehicle.CurrentStatus,
		"last_exit_time": vehicle.LastExitTime,
	})
}

// VisitorEntry 访客入园核验
// @Summary      访客入园
// @Description  保安扫描访客二维码核验通行证，通行证单次有效且有有效期
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "通行证令牌"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/visitor/entry [post]
// @Security     BearerAuth
func (c *GateController) VisitorEntry() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	visitor, err := gateService.VisitorEntry(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"name":       visitor.Name,
		"flat_no":    visitor.FlatNo,
		"purpose":    visitor.Purpose,
		"entry_time": visitor.EntryTime,
	})
}

// VisitorExit 访客出园核验
// @Summary      访客出园
// @Description  保安核验访客通行证并登记出园，通行证进入终态
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "通行证令牌"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/visitor/exit [post]
// @Security     BearerAuth
func (c *GateController) VisitorExit() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	visitor, err := gateService.VisitorExit(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"name":         visitor.Name,
		"entry_status": visitor.EntryStatus,
		"exit_time":    visitor.ExitTime,
	})
}

// DeliveryEntry 快递员入园核验
// @Summary      快递员入园
// @Description  保安核验快递通行码，通行码单次有效
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "快递通行码"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/delivery/entry [post]
// @Security     BearerAuth
func (c *GateController) DeliveryEntry() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	delivery, err := gateService.DeliveryEntry(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"unique_id":            delivery.UniqueID,
		"delivery_person_name": delivery.DeliveryPersonName,
		"apartment":            delivery.Apartment,
		"company":              delivery.Company,
		"status":               delivery.Status,
		"entry_time":           delivery.EntryTime,
	})
}

// DeliveryExit 快递员出园核验
// @Summary      快递员出园
// @Description  保安核验快递通行码并登记出园，通行码进入终态
// @Tags         Gate
// @Accept       json
// @Produce      json
// @Param        request body GateCredentialRequest true "快递通行码"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /gate/delivery/exit [post]
// @Security     BearerAuth
func (c *GateController) DeliveryExit() {
	credential, ok := c.bindCredential()
	if !ok {
		return
	}

	verifiedBy := middleware.CurrentUserID(c.Ctx)
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	delivery, err := gateService.DeliveryExit(credential, verifiedBy)
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"unique_id":            delivery.UniqueID,
		"delivery_person_name": delivery.DeliveryPersonName,
		"status":               delivery.Status,
		"exit_time":            delivery.ExitTime,
	})
}

// GetInside 获取当前在园主体
// @Summary      获取在园名单
// @Description  获取当前在园的家政人员、车辆、访客与快递员汇总
// @Tags         Gate
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /gate/inside [get]
// @Security     BearerAuth
func (c *GateController) GetInside() {
	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	snapshot, err := gateService.GetCurrentlyInside()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询在园名单失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, snapshot)
}

// GetLogs 获取出入日志
// @Summary      获取出入日志
// @Description  分页获取全小区的出入审计日志，支持按主体类型过滤
// @Tags         Gate
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为20"
// @Param        subject_type query string false "主体类型过滤: staff, vehicle, visitor, delivery"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /gate/logs [get]
// @Security     BearerAuth
func (c *GateController) GetLogs() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "20"))
	subjectType := c.Ctx.Query("subject_type")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	logs, total, err := gateService.GetMovementLogs(page, pageSize, subjectType)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询出入日志失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        logs,
	})
}

// GetSubjectLogs 获取单个主体的出入历史
// @Summary      获取主体出入历史
// @Description  根据主体凭证获取完整出入历史，删除主体后历史仍可查询
// @Tags         Gate
// @Produce      json
// @Param        subject_id path string true "主体凭证(永久ID/车牌号/通行证令牌/通行码)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /gate/logs/{subject_id} [get]
// @Security     BearerAuth
func (c *GateController) GetSubjectLogs() {
	subjectID := c.Ctx.Param("subject_id")

	gateService := c.Container.GetService("gate").(services.InterfaceGateService)
	logs, err := gateService.GetSubjectLogs(subjectID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询出入历史失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data": logs,
	})
}
