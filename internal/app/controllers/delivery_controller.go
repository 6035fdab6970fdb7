package controllers

import (
	"strconv"
	"time"

	"guardiannet-http-service/internal/app/middleware"
	"guardiannet-http-service/internal/domain/services"
	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceDeliveryController 定义快递控制器接口
type InterfaceDeliveryController interface {
	CreateDelivery()
	GetDelivery()
	GetMyDeliveries()
}

// DeliveryController 处理快递预约相关的请求
type DeliveryController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeliveryController 创建一个新的快递控制器
func NewDeliveryController(ctx *gin.Context, container *container.ServiceContainer) *DeliveryController {
	return &DeliveryController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateDeliveryRequest 表示快递预约的请求体
type CreateDeliveryRequest struct {
	DeliveryPersonName string `json:"delivery_person_name" binding:"required" example:"Ravi Kumar"`
	Phone              string `json:"phone" binding:"required" example:"+919877654321"`
	Apartment          string `json:"apartment" binding:"required" example:"A-101"`
	Company            string `json:"company" binding:"required" example:"Amazon"`
	ExpectedTime       string `json:"expected_time" binding:"required" example:"2026-09-01T15:00:00Z"`
}

// HandleDeliveryFunc 返回一个处理快递请求的Gin处理函数
func HandleDeliveryFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeliveryController(ctx, container)

		switch method {
		case "createDelivery":
			controller.CreateDelivery()
		case "getDelivery":
			controller.GetDelivery()
		case "getMyDeliveries":
			controller.GetMyDeliveries()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// CreateDelivery 创建快递预约
// @Summary      预约快递
// @Description  住户预约快递上门，系统生成单次通行码并短信下发给快递员
// @Tags         Delivery
// @Accept       json
// @Produce      json
// @Param        request body CreateDeliveryRequest true "快递预约信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /deliveries [post]
// @Security     BearerAuth
func (c *DeliveryController) CreateDelivery() {
	var req CreateDeliveryRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	expectedTime, err := time.Parse(time.RFC3339, req.ExpectedTime)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的预计送达时间格式，应为RFC3339", nil)
		return
	}

	residentID := middleware.CurrentUserID(c.Ctx)
	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	delivery, err := deliveryService.CreateDelivery(&services.CreateDeliveryRequest{
		DeliveryPersonName: req.DeliveryPersonName,
		Phone:              req.Phone,
		Apartment:          req.Apartment,
		Company:            req.Company,
		ExpectedTime:       expectedTime,
		ResidentID:         residentID,
	})
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, delivery)
}

// GetDelivery 获取单个快递预约详情
// @Summary      获取快递详情
// @Description  根据ID获取快递预约详细信息与通行状态
// @Tags         Delivery
// @Produce      json
// @Param        id path int true "快递预约ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /deliveries/{id} [get]
// @Security     BearerAuth
func (c *DeliveryController) GetDelivery() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	delivery, err := deliveryService.GetDeliveryByID(uint(id))
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, delivery)
}

// GetMyDeliveries 获取当前住户的快递预约列表
// @Summary      获取我的快递
// @Description  获取当前登录住户的所有快递预约
// @Tags         Delivery
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /deliveries/mine [get]
// @Security     BearerAuth
func (c *DeliveryController) GetMyDeliveries() {
	residentID := middleware.CurrentUserID(c.Ctx)
	deliveryService := c.Container.GetService("delivery").(services.InterfaceDeliveryService)
	deliveries, err := deliveryService.GetResidentDeliveries(residentID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询快递列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data": deliveries,
	})
}
