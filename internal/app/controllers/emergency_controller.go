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

// InterfaceEmergencyController 定义紧急警报控制器接口
type InterfaceEmergencyController interface {
	CreateAlert()
	GetAlerts()
	GetMyAlerts()
	GetAlert()
	UpdateAlertStatus()
}

// EmergencyController 处理紧急警报相关的请求
type EmergencyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewEmergencyController 创建一个新的紧急警报控制器
func NewEmergencyController(ctx *gin.Context, container *container.ServiceContainer) *EmergencyController {
	return &EmergencyController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateAlertRequest 表示警报上报的请求体
type CreateAlertRequest struct {
	Type        string `json:"type" binding:"required" example:"Fire"` // 可选值: Fire, Medical, Security Threat, Suspicious Person, Unauthorized Entry, Other
	CustomTitle string `json:"custom_title" example:"电梯困人"`            // Type为Other时必填
	Location    string `json:"location" binding:"required" example:"B栋3层走廊"`
	Description string `json:"description" example:"走廊冒烟，有焦糊味"`
	PhotoURL    string `json:"photo_url" example:"https://cdn.example.com/alerts/1.jpg"`
}

// UpdateAlertStatusRequest 表示警报状态流转的请求体
type UpdateAlertStatusRequest struct {
	Status      string `json:"status" binding:"required" example:"Processing"` // 可选值: Processing, Resolved
	AssignedTo  *uint  `json:"assigned_to" example:"5"`                        // 流转到Processing时必填
	ActionTaken string `json:"action_taken" example:"已疏散人员并扑灭初期火情"`            // 流转到Resolved时必填
}

// HandleEmergencyFunc 返回一个处理紧急警报请求的Gin处理函数
func HandleEmergencyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewEmergencyController(ctx, container)

		switch method {
		case "createAlert":
			controller.CreateAlert()
		case "getAlerts":
			controller.GetAlerts()
		case "getMyAlerts":
			controller.GetMyAlerts()
		case "getAlert":
			controller.GetAlert()
		case "updateAlertStatus":
			controller.UpdateAlertStatus()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// CreateAlert 上报紧急警报
// @Summary      上报警报
// @Description  上报紧急警报并实时广播给保安端，重复的待处理警报被压制
// @Tags         Emergency
// @Accept       json
// @Produce      json
// @Param        request body CreateAlertRequest true "警报信息"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /emergency/alerts [post]
// @Security     BearerAuth
func (c *EmergencyController) CreateAlert() {
	var req CreateAlertRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	reporterID := middleware.CurrentUserID(c.Ctx)
	emergencyService := c.Container.GetService("emergency").(services.InterfaceEmergencyService)
	alert, err := emergencyService.CreateAlert(&services.CreateAlertRequest{
		Type:        models.AlertType(req.Type),
		CustomTitle: req.CustomTitle,
		Location:    req.Location,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		ReporterID:  reporterID,
	})
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":         alert.ID,
		"type":       alert.Type,
		"title":      alert.Title(),
		"location":   alert.Location,
		"status":     alert.Status,
		"created_at": alert.CreatedAt,
	})
}

// GetAlerts 获取警报列表
// @Summary      获取警报列表
// @Description  分页获取全部警报，支持按状态过滤
// @Tags         Emergency
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        page_size query int false "每页条数，默认为10"
// @Param        status query string false "状态过滤: Pending, Processing, Resolved"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /emergency/alerts [get]
// @Security     BearerAuth
func (c *EmergencyController) GetAlerts() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	status := c.Ctx.Query("status")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	emergencyService := c.Container.GetService("emergency").(services.InterfaceEmergencyService)
	alerts, total, err := emergencyService.GetAlerts(page, pageSize, status)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询警报列表失败: "+err.Error(), nil)
		return
	}

	var alertResponses []gin.H
	for _, alert := range alerts {
		item := gin.H{
			"id":           alert.ID,
			"type":         alert.Type,
			"title":        alert.Title(),
			"location":     alert.Location,
			"description":  alert.Description,
			"photo_url":    alert.PhotoURL,
			"status":       alert.Status,
			"assigned_to":  alert.AssignedTo,
			"action_taken": alert.ActionTaken,
			"verified_at":  alert.VerifiedAt,
			"created_at":   alert.CreatedAt,
		}
		if alert.Reporter != nil {
			item["reporter"] = gin.H{
				"id":      alert.Reporter.ID,
				"name":    alert.Reporter.Name,
				"flat_no": alert.Reporter.FlatNo,
			}
		}
		alertResponses = append(alertResponses, item)
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        alertResponses,
	})
}

// GetMyAlerts 获取当前用户上报的警报
// @Summary      获取我的警报
// @Description  获取当前登录用户上报的所有警报
// @Tags         Emergency
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /emergency/alerts/mine [get]
// @Security     BearerAuth
func (c *EmergencyController) GetMyAlerts() {
	reporterID := middleware.CurrentUserID(c.Ctx)
	emergencyService := c.Container.GetService("emergency").(services.InterfaceEmergencyService)
	alerts, err := emergencyService.GetReporterAlerts(reporterID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询警报列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data": alerts,
	})
}

// GetAlert 获取单个警报详情
// @Summary      获取警报详情
// @Description  根据ID获取警报详细信息与处置进度
// @Tags         Emergency
// @Produce      json
// @Param        id path int true "警报ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /emergency/alerts/{id} [get]
// @Security     BearerAuth
func (c *EmergencyController) GetAlert() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	emergencyService := c.Container.GetService("emergency").(services.InterfaceEmergencyService)
	alert, err := emergencyService.GetAlertByID(uint(id))
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, alert)
}

// UpdateAlertStatus 流转警报状态
// @Summary      流转警报状态
// @Description  警报状态只允许 Pending→Processing→Resolved 向前流转
// @Tags         Emergency
// @Accept       json
// @Produce      json
// @Param        id path int true "警报ID"
// @Param        request body UpdateAlertStatusRequest true "流转请求"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /emergency/alerts/{id}/status [put]
// @Security     BearerAuth
func (c *EmergencyController) UpdateAlertStatus() {
	idStr := c.Ctx.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的ID参数", nil)
		return
	}

	var req UpdateAlertStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	actorID := middleware.CurrentUserID(c.Ctx)
	emergencyService := c.Container.GetService("emergency").(services.InterfaceEmergencyService)
	alert, err := emergencyService.UpdateStatus(uint(id), &services.UpdateAlertStatusRequest{
		Status:      models.AlertStatus(req.Status),
		AssignedTo:  req.AssignedTo,
		ActionTaken: req.ActionTaken,
		ActorID:     actorID,
	})
	if err != nil {
		response.FailErr(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":           alert.ID,
		"status":       alert.Status,
		"assigned_to":  alert.AssignedTo,
		"action_taken": alert.ActionTaken,
		"verified_at":  alert.VerifiedAt,
	})
}
