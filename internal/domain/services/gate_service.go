package services

import (
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceGateService 定义门禁核验服务接口
type InterfaceGateService interface {
	StaffEntry(permanentID string, verifiedBy uint) (*models.Staff, error)
	StaffExit(permanentID string, verifiedBy uint) (*models.Staff, error)
	VehicleEntry(vehicleNo string, verifiedBy uint) (*models.Vehicle, error)
	VehicleExit(vehicleNo string, verifiedBy uint) (*models.Vehicle, error)
	VisitorEntry(passToken string, verifiedBy uint) (*models.Visitor, error)
	VisitorExit(passToken string, verifiedBy uint) (*models.Visitor, error)
	DeliveryEntry(uniqueID string, verifiedBy uint) (*models.Delivery, error)
	DeliveryExit(uniqueID string, verifiedBy uint) (*models.Delivery, error)
	GetCurrentlyInside() (*InsideSnapshot, error)
	GetMovementLogs(page, pageSize int, subjectType string) ([]models.MovementLog, int64, error)
	GetSubjectLogs(subjectID string) ([]models.MovementLog, error)
}

// InsideSnapshot 表示当前在园主体的汇总视图
type InsideSnapshot struct {
	Staff      []models.Staff    `json:"staff"`
	Vehicles   []models.Vehicle  `json:"vehicles"`
	Visitors   []models.Visitor  `json:"visitors"`
	Deliveries []models.Delivery `json:"deliveries"`
}

// GateService 提供门禁进出核验相关的服务
// 每次核验在单个事务内完成状态流转与日志追加；
// 状态流转使用带前置条件的UPDATE，并发重复核验仅有一个生效
type GateService struct {
	DB     *gorm.DB
	Config *config.Config
	now    func() time.Time
}

// NewGateService 创建一个新的门禁核验服务
func NewGateService(db *gorm.DB, cfg *config.Config) InterfaceGateService {
	return &GateService{
		DB:     db,
		Config: cfg,
		now:    time.Now,
	}
}

// 1 StaffEntry 家政人员持永久ID入园
func (s *GateService) StaffEntry(permanentID string, verifiedBy uint) (*models.Staff, error) {
	staff, err := s.findStaff(permanentID)
	if err != nil {
		return nil, err
	}

	if staff.Status == models.StaffStatusBlocked {
		return nil, code.NewWithMessage(code.ErrSubjectBlocked, "该人员已被拉黑: "+staff.BlockRemark)
	}
	if staff.IsInside {
		return nil, code.New(code.ErrAlreadyInside)
	}

	now := s.now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// 前置条件CAS：仅在园外且未拉黑时流转
		result := tx.Model(&models.Staff{}).
			Where("permanent_id = ? AND is_inside = ? AND status = ?",
				permanentID, false, models.StaffStatusActive).
			Updates(map[string]interface{}{
				"is_inside":       true,
				"last_entry_time": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrAlreadyInside)
		}
		return appendMovementLog(tx, permanentID, models.SubjectStaff,
			models.ActionEntry, verifiedBy, staff.Name, "")
	})
	if err != nil {
		return nil, err
	}

	return s.findStaff(permanentID)
}

// 2 StaffExit 家政人员持永久ID出园
// 拉黑不阻止出园，只阻止入园
func (s *GateService) StaffExit(permanentID string, verifiedBy uint) (*models.Staff, error) {
	staff, err := s.findStaff(permanentID)
	if err != nil {
		return nil, err
	}

	if !staff.IsInside {
		return nil, code.New(code.ErrNotInside)
	}

	now := s.now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Staff{}).
			Where("permanent_id = ? AND is_inside = ?", permanentID, true).
			Updates(map[string]interface{}{
				"is_inside":      false,
				"last_exit_time": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrNotInside)
		}
		return appendMovementLog(tx, permanentID, models.SubjectStaff,
			models.ActionExit, verifiedBy, staff.Name, "")
	})
	if err != nil {
		return nil, err
	}

	return s.findStaff(permanentID)
}

// 3 VehicleEntry 车辆持车牌号入园
func (s *GateService) VehicleEntry(vehicleNo string, verifiedBy uint) (*models.Vehicle, error) {
	vehicle, err := s.findVehicle(vehicleNo)
	if err != nil {
		return nil, err
	}

	if vehicle.EntryStatus == models.VehicleDenied {
		return nil, code.NewWithMessage(code.ErrVehicleDenied, "该车辆已被禁行: "+vehicle.BlockRemark)
	}
	if vehicle.CurrentStatus == models.VehicleInside {
		return nil, code.New(code.ErrAlreadyInside)
	}

	now := s.now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Vehicle{}).
			Where("vehicle_no = ? AND current_status = ? AND entry_status = ?",
				vehicle.VehicleNo, models.VehicleOutside, models.VehicleAllowed).
			Updates(map[string]interface{}{
				"current_status":  models.VehicleInside,
				"last_entry_time": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrAlreadyInside)
		}
		return appendMovementLog(tx, vehicle.VehicleNo, models.SubjectVehicle,
			models.ActionEntry, verifiedBy, vehicle.VehicleNo, "")
	})
	if err != nil {
		return nil, err
	}

	return s.findVehicle(vehicleNo)
}

// 4 VehicleExit 车辆持车牌号出园
func (s *GateService) VehicleExit(vehicleNo string, verifiedBy uint) (*models.Vehicle, error) {
	vehicle, err := s.findVehicle(vehicleNo)
	if err != nil {
		return nil, err
	}

	if vehicle.CurrentStatus != models.VehicleInside {
		return nil, code.New(code.ErrNotInside)
	}

	now := s.now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Vehicle{}).
			Where("vehicle_no = ? AND current_status = ?", vehicle.VehicleNo, models.VehicleInside).
			Updates(map[string]interface{}{
				"current_status": models.VehicleOutside,
				"last_exit_time": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrNotInside)
		}
		return appendMovementLog(tx, vehicle.VehicleNo, models.SubjectVehicle,
			models.ActionExit, verifiedBy, vehicle.VehicleNo, "")
	})
	if err != nil {
		return nil, err
	}

	return s.findVehicle(vehicleNo)
}

// 5 VisitorEntry 访客扫码入园，通行证单次有效
func (s *GateService) VisitorEntry(passToken string, verifiedBy uint) (*models.Visitor, error) {
	visitor, err := s.findVisitor(passToken)
	if err != nil {
		return nil, err
	}

	if visitor.EntryStatus == models.VisitorDenied {
		return nil, code.New(code.ErrPassRevoked)
	}
	if visitor.EntryStatus == models.VisitorExit || visitor.EntryTime != nil {
		return nil, code.New(code.ErrPassAlreadyUsed)
	}

	now := s.now()
	// 通行证自签发起计时有效
	expiry := visitor.CreatedAt.Add(time.Duration(s.Config.PassTTLHours) * time.Hour)
	if now.After(expiry) {
		return nil, code.New(code.ErrPassExpired)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Visitor{}).
			Where("pass_token = ? AND entry_status = ? AND entry_time IS NULL",
				passToken, models.VisitorGranted).
			Update("entry_time", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrPassAlreadyUsed)
		}
		return appendMovementLog(tx, passToken, models.SubjectVisitor,
			models.ActionEntry, verifiedBy, visitor.Name, visitor.Purpose)
	})
	if err != nil {
		return nil, err
	}

	return s.findVisitor(passToken)
}

// 6 VisitorExit 访客出园，通行证进入终态不可复用
func (s *GateService) VisitorExit(passToken string, verifiedBy uint) (*models.Visitor, error) {
	visitor, err := s.findVisitor(passToken)
	if err != nil {
		return nil, err
	}

	if visitor.EntryTime == nil {
		return nil, code.New(code.ErrNotInside)
	}
	if visitor.EntryStatus == models.VisitorExit {
		return nil, code.New(code.ErrPassAlreadyUsed)
	}

	now := s.now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Visitor{}).
			Where("pass_token = ? AND entry_time IS NOT NULL AND exit_time IS NULL", passToken).
			Updates(map[string]interface{}{
				"entry_status": models.VisitorExit,
				"exit_time":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrNotInside)
		}
		return appendMovementLog(tx, passToken, models.SubjectVisitor,
			models.ActionExit, verifiedBy, visitor.Name, "")
	})
	if err != nil {
		return nil, err
	}

	return s.findVisitor(passToken)
}

// 7 DeliveryEntry 快递员持通行码入园，pending流转为approved
func (s *GateService) DeliveryEntry(uniqueID string, verifiedBy uint) (*models.Delivery, error) {
	delivery, err := s.findDelivery(uniqueID)
	if err != nil {
		return nil, err
	}

	if delivery.Status != models.DeliveryPending {
		return nil, code.New(code.ErrPassAlreadyUsed)
	}

	now := s.now()
	expiry := delivery.CreatedAt.Add(time.Duration(s.Config.PassTTLHours) * time.Hour)
	if now.After(expiry) {
		return nil, code.New(code.ErrPassExpired)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Delivery{}).
			Where("unique_id = ? AND status = ?", uniqueID, models.DeliveryPending).
			Updates(map[string]interface{}{
				"status":     models.DeliveryApproved,
				"entry_time": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrPassAlreadyUsed)
		}
		return appendMovementLog(tx, uniqueID, models.SubjectDelivery,
			models.ActionEntry, verifiedBy, delivery.DeliveryPersonName, delivery.Company)
	})
	if err != nil {
		return nil, err
	}

	return s.findDelivery(uniqueID)
}

// 8 DeliveryExit 快递员出园，approved流转为completed终态
func (s *GateService) DeliveryExit(uniqueID string, verifiedBy uint) (*models.Delivery, error) {
	delivery, err := s.findDelivery(uniqueID)
	if err != nil {
		return nil, err
	}

	if delivery.Status == models.DeliveryPending {
		return nil, code.New(code.ErrNotInside)
	}
	if delivery.Status == models.DeliveryCompleted {
		return nil, code.New(code.ErrPassAlreadyUsed)
	}

	now := s.now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Delivery{}).
			Where("unique_id = ? AND status = ?", uniqueID, models.DeliveryApproved).
			Updates(map[string]interface{}{
				"status":    models.DeliveryCompleted,
				"exit_time": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrNotInside)
		}
		return appendMovementLog(tx, uniqueID, models.SubjectDelivery,
			models.ActionExit, verifiedBy, delivery.DeliveryPersonName, "")
	})
	if err != nil {
		return nil, err
	}

	return s.findDelivery(uniqueID)
}

// 9 GetCurrentlyInside 获取当前在园的全部主体
func (s *GateService) GetCurrentlyInside() (*InsideSnapshot, error) {
	snapshot := &InsideSnapshot{}

	if err := s.DB.Where("is_inside = ?", true).Find(&snapshot.Staff).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("current_status = ?", models.VehicleInside).Find(&snapshot.Vehicles).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("entry_time IS NOT NULL AND exit_time IS NULL").Find(&snapshot.Visitors).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("status = ?", models.DeliveryApproved).Find(&snapshot.Deliveries).Error; err != nil {
		return nil, err
	}

	return snapshot, nil
}

// 10 GetMovementLogs 分页获取出入日志，支持按主体类型过滤
func (s *GateService) GetMovementLogs(page, pageSize int, subjectType string) ([]models.MovementLog, int64, error) {
	var logs []models.MovementLog
	var total int64

	query := s.DB.Model(&models.MovementLog{})
	if subjectType != "" {
		query = query.Where("subject_type = ?", subjectType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("timestamp DESC").Limit(pageSize).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// 11 GetSubjectLogs 获取单个主体的完整出入历史
func (s *GateService) GetSubjectLogs(subjectID string) ([]models.MovementLog, error) {
	var logs []models.MovementLog
	if err := s.DB.Where("subject_id = ?", subjectID).
		Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *GateService) findStaff(permanentID string) (*models.Staff, error) {
	var staff models.Staff
	if err := s.DB.Where("permanent_id = ?", permanentID).First(&staff).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, code.New(code.ErrStaffNotFound)
		}
		return nil, err
	}
	return &staff, nil
}

func (s *GateService) findVehicle(vehicleNo string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.DB.Where("vehicle_no = ?", vehicleNo).First(&vehicle).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, code.New(code.ErrVehicleNotFound)
		}
		return nil, err
	}
	return &vehicle, nil
}

func (s *GateService) findVisitor(passToken string) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.Where("pass_token = ?", passToken).First(&visitor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, code.New(code.ErrVisitorNotFound)
		}
		return nil, err
	}
	return &visitor, nil
}

func (s *GateService) findDelivery(uniqueID string) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := s.DB.Where("unique_id = ?", uniqueID).First(&delivery).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, code.New(code.ErrDeliveryNotFound)
		}
		return nil, err
	}
	return &delivery, nil
}
