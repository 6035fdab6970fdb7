package services

import (
	"errors"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// InterfaceVisitorService 定义访客服务接口
type InterfaceVisitorService interface {
	InviteVisitor(req *InviteVisitorRequest) (*models.Visitor, error)
	GetVisitorByID(id uint) (*models.Visitor, error)
	GetResidentVisitors(residentID uint) ([]models.Visitor, error)
	Revoke(visitorID uint, residentID uint) (*models.Visitor, error)
	RenderPassQR(visitorID uint, residentID uint) ([]byte, error)
}

// InviteVisitorRequest 表示访客邀请请求
type InviteVisitorRequest struct {
	Name       string
	Phone      string
	Purpose    string
	ResidentID uint
}

// VisitorService 提供访客邀请与通行证签发相关的服务
type VisitorService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewVisitorService 创建一个新的访客服务
func NewVisitorService(db *gorm.DB, cfg *config.Config) InterfaceVisitorService {
	return &VisitorService{
		DB:     db,
		Config: cfg,
	}
}

// 1 InviteVisitor 住户邀请访客并签发单次有效的二维码通行证
func (s *VisitorService) InviteVisitor(req *InviteVisitorRequest) (*models.Visitor, error) {
	// 校验住户存在并取房号
	var resident models.Account
	if err := s.DB.First(&resident, req.ResidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAccountNotFound)
		}
		return nil, err
	}

	visitor := &models.Visitor{
		Name:        req.Name,
		Phone:       req.Phone,
		Purpose:     req.Purpose,
		FlatNo:      resident.FlatNo,
		ResidentID:  req.ResidentID,
		PassToken:   uuid.NewString(),
		EntryStatus: models.VisitorGranted,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(visitor).Error; err != nil {
			return err
		}
		return appendMovementLog(tx, visitor.PassToken, models.SubjectVisitor,
			models.ActionRegistered, req.ResidentID, visitor.Name, visitor.Purpose)
	})
	if err != nil {
		return nil, err
	}

	return visitor, nil
}

// 2 GetVisitorByID 根据ID获取访客
func (s *VisitorService) GetVisitorByID(id uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrVisitorNotFound)
		}
		return nil, err
	}
	return &visitor, nil
}

// 3 GetResidentVisitors 获取住户邀请的访客列表
func (s *VisitorService) GetResidentVisitors(residentID uint) ([]models.Visitor, error) {
	var visitors []models.Visitor
	if err := s.DB.Where("resident_id = ?", residentID).
		Order("created_at DESC").Find(&visitors).Error; err != nil {
		return nil, err
	}
	return visitors, nil
}

// 4 Revoke 撤销未使用的访客通行证
func (s *VisitorService) Revoke(visitorID uint, residentID uint) (*models.Visitor, error) {
	visitor, err := s.GetVisitorByID(visitorID)
	if err != nil {
		return nil, err
	}

	if visitor.ResidentID != residentID {
		return nil, code.New(code.ErrPermissionDenied)
	}

	// 已进入或已完成进出的通行证不可撤销
	if visitor.EntryTime != nil {
		return nil, code.New(code.ErrPassAlreadyUsed)
	}

	if err := s.DB.Model(visitor).Update("entry_status", models.VisitorDenied).Error; err != nil {
		return nil, err
	}

	return s.GetVisitorByID(visitorID)
}

// 5 RenderPassQR 将通行证令牌渲染为二维码PNG
func (s *VisitorService) RenderPassQR(visitorID uint, residentID uint) ([]byte, error) {
	visitor, err := s.GetVisitorByID(visitorID)
	if err != nil {
		return nil, err
	}

	if visitor.ResidentID != residentID {
		return nil, code.New(code.ErrPermissionDenied)
	}

	return qrcode.Encode(visitor.PassToken, qrcode.Medium, 256)
}
