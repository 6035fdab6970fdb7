package services

import (
	"errors"
	"regexp"
	"strings"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// 车牌号格式，如 MH12AB1234 或 HP37G9923
var vehicleNoPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{1,2}[0-9]{4}$`)

// InterfaceVehicleService 定义车辆服务接口
type InterfaceVehicleService interface {
	RegisterPersonalVehicle(ownerID uint, vehicleNo string, vehicleType models.VehicleType) (*models.Vehicle, error)
	RegisterGuestVehicle(ownerID uint, visitorID uint, vehicleNo string, vehicleType models.VehicleType) (*models.Vehicle, error)
	GetVehicleByNo(vehicleNo string) (*models.Vehicle, error)
	GetOwnerVehicles(ownerID uint) ([]models.Vehicle, error)
	GetAllVehicles(page, pageSize int, search string) ([]models.Vehicle, int64, error)
	Block(vehicleNo, remark string, actorID uint) (*models.Vehicle, error)
	Unblock(vehicleNo string, actorID uint) (*models.Vehicle, error)
	DeleteVehicle(vehicleNo string, ownerID uint) error
}

// VehicleService 提供车辆登记与禁行相关的服务
type VehicleService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewVehicleService 创建一个新的车辆服务
func NewVehicleService(db *gorm.DB, cfg *config.Config) InterfaceVehicleService {
	return &VehicleService{
		DB:     db,
		Config: cfg,
	}
}

// 1 RegisterPersonalVehicle 登记住户私家车
func (s *VehicleService) RegisterPersonalVehicle(ownerID uint, vehicleNo string, vehicleType models.VehicleType) (*models.Vehicle, error) {
	return s.register(ownerID, nil, vehicleNo, vehicleType)
}

// 2 RegisterGuestVehicle 登记访客车辆，关联访客记录
func (s *VehicleService) RegisterGuestVehicle(ownerID uint, visitorID uint, vehicleNo string, vehicleType models.VehicleType) (*models.Vehicle, error) {
	// 校验访客存在且属于该住户
	var visitor models.Visitor
	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrVisitorNotFound)
		}
		return nil, err
	}
	if visitor.ResidentID != ownerID {
		return nil, code.New(code.ErrPermissionDenied)
	}

	return s.register(ownerID, &visitorID, vehicleNo, vehicleType)
}

// register 执行车辆登记公共逻辑
func (s *VehicleService) register(ownerID uint, visitorID *uint, vehicleNo string, vehicleType models.VehicleType) (*models.Vehicle, error) {
	vehicleNo = strings.ToUpper(strings.TrimSpace(vehicleNo))
	if !vehicleNoPattern.MatchString(vehicleNo) {
		return nil, code.New(code.ErrVehicleNoInvalid)
	}
	if !vehicleType.Valid() {
		return nil, code.NewWithMessage(code.ErrValidation, "无效的车辆类型")
	}

	// 校验车主存在
	var owner models.Account
	if err := s.DB.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrAccountNotFound)
		}
		return nil, err
	}

	// 车牌号全局唯一
	var count int64
	if err := s.DB.Model(&models.Vehicle{}).Where("vehicle_no = ?", vehicleNo).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, code.New(code.ErrVehicleAlreadyExist)
	}

	vehicle := &models.Vehicle{
		VehicleNo:     vehicleNo,
		FlatNo:        owner.FlatNo,
		VehicleType:   vehicleType,
		OwnerID:       ownerID,
		IsGuest:       visitorID != nil,
		VisitorID:     visitorID,
		EntryStatus:   models.VehicleAllowed,
		CurrentStatus: models.VehicleOutside,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vehicle).Error; err != nil {
			return err
		}
		return appendMovementLog(tx, vehicle.VehicleNo, models.SubjectVehicle,
			models.ActionRegistered, ownerID, vehicle.VehicleNo, "")
	})
	if err != nil {
		return nil, err
	}

	return vehicle, nil
}

// 3 GetVehicleByNo 根据车牌号获取车辆
func (s *VehicleService) GetVehicleByNo(vehicleNo string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	vehicleNo = strings.ToUpper(strings.TrimSpace(vehicleNo))
	if err := s.DB.Where("vehicle_no = ?", vehicleNo).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrVehicleNotFound)
		}
		return nil, err
	}
	return &vehicle, nil
}

// 4 GetOwnerVehicles 获取住户名下的车辆列表
func (s *VehicleService) GetOwnerVehicles(ownerID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := s.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// 5 GetAllVehicles 获取所有车辆，支持分页和搜索
func (s *VehicleService) GetAllVehicles(page, pageSize int, search string) ([]models.Vehicle, int64, error) {
	var vehicles []models.Vehicle
	var total int64

	query := s.DB.Model(&models.Vehicle{})

	if search != "" {
		query = query.Where("vehicle_no LIKE ? OR flat_no LIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

// 6 Block 禁行车辆，必须填写备注；禁行后门禁核验一律拒绝
func (s *VehicleService) Block(vehicleNo, remark string, actorID uint) (*models.Vehicle, error) {
	if strings.TrimSpace(remark) == "" {
		return nil, code.New(code.ErrRemarkRequired)
	}

	vehicle, err := s.GetVehicleByNo(vehicleNo)
	if err != nil {
		return nil, err
	}

	if vehicle.EntryStatus == models.VehicleDenied {
		return nil, code.NewWithMessage(code.ErrValidation, "该车辆已处于禁行状态")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"entry_status": models.VehicleDenied,
			"block_remark": strings.TrimSpace(remark),
		}
		if err := tx.Model(vehicle).Updates(updates).Error; err != nil {
			return err
		}
		return appendMovementLog(tx, vehicle.VehicleNo, models.SubjectVehicle,
			models.ActionBlocked, actorID, vehicle.VehicleNo, strings.TrimSpace(remark))
	})
	if err != nil {
		return nil, err
	}

	return s.GetVehicleByNo(vehicleNo)
}

// 7 Unblock 解除禁行
func (s *VehicleService) Unblock(vehicleNo string, actorID uint) (*models.Vehicle, error) {
	vehicle, err := s.GetVehicleByNo(vehicleNo)
	if err != nil {
		return nil, err
	}

	if vehicle.EntryStatus != models.VehicleDenied {
		return nil, code.NewWithMessage(code.ErrValidation, "该车辆未处于禁行状态")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"entry_status": models.VehicleAllowed,
			"block_remark": "",
		}
		if err := tx.Model(vehicle).Updates(updates).Error; err != nil {
			return err
		}
		return appendMovementLog(tx, vehicle.VehicleNo, models.SubjectVehicle,
			models.ActionUnblocked, actorID, vehicle.VehicleNo, "")
	})
	if err != nil {
		return nil, err
	}

	return s.GetVehicleByNo(vehicleNo)
}

// 8 DeleteVehicle 删除车辆（硬删除），出入日志保留
func (s *VehicleService) DeleteVehicle(vehicleNo string, ownerID uint) error {
	vehicle, err := s.GetVehicleByNo(vehicleNo)
	if err != nil {
		return err
	}

	if vehicle.OwnerID != ownerID {
		return code.New(code.ErrPermissionDenied)
	}

	return s.DB.Delete(vehicle).Error
}
