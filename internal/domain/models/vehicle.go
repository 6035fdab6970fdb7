package models

import "time"

// VehicleEntryStatus 表示车辆准入状态
type VehicleEntryStatus string

const (
	VehicleAllowed VehicleEntryStatus = "allowed"
	VehicleDenied  VehicleEntryStatus = "denied"
)

// VehicleCurrentStatus 表示车辆当前位置
type VehicleCurrentStatus string

const (
	VehicleInside  VehicleCurrentStatus = "inside"
	VehicleOutside VehicleCurrentStatus = "outside"
)

// VehicleType 表示车辆类型
type VehicleType string

const (
	VehicleTypeCar     VehicleType = "car"
	VehicleTypeBike    VehicleType = "bike"
	VehicleTypeScooter VehicleType = "scooter"
	VehicleTypeTruck   VehicleType = "truck"
	VehicleTypeVan     VehicleType = "van"
)

// Valid 判断车辆类型是否为合法枚举值
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTypeCar, VehicleTypeBike, VehicleTypeScooter, VehicleTypeTruck, VehicleTypeVan:
		return true
	}
	return false
}

// Vehicle 表示登记车辆，车牌号为自然主键
type Vehicle struct {
	VehicleNo   string      `gorm:"type:varchar(15);primaryKey" json:"vehicle_no"`
	FlatNo      string      `gorm:"type:varchar(20);index;not null" json:"flat_no"`
	VehicleType VehicleType `gorm:"type:varchar(20);not null" json:"vehicle_type"`
	OwnerID     uint        `gorm:"index;not null" json:"owner_id"`
	IsGuest     bool        `gorm:"default:false" json:"is_guest"`
	VisitorID   *uint       `gorm:"index" json:"visitor_id,omitempty"` // 访客车辆关联的访客记录

	EntryStatus VehicleEntryStatus `gorm:"type:varchar(20);not null;default:'allowed'" json:"entry_status"`
	BlockRemark string             `gorm:"type:varchar(255)" json:"block_remark,omitempty"`

	// 当前位置快照，仅由门禁核验流转
	CurrentStatus VehicleCurrentStatus `gorm:"type:varchar(20);not null;default:'outside'" json:"current_status"`
	LastEntryTime *time.Time           `json:"last_entry_time,omitempty"`
	LastExitTime  *time.Time           `json:"last_exit_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Owner *Account `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
