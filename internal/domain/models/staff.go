package models

import "time"

// StaffRole 表示家政人员工种
type StaffRole string

const (
	StaffRoleMaid   StaffRole = "maid"
	StaffRoleDriver StaffRole = "driver"
	StaffRoleCook   StaffRole = "cook"
	StaffRoleOther  StaffRole = "other"
)

// Valid 判断工种是否为合法枚举值
func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleMaid, StaffRoleDriver, StaffRoleCook, StaffRoleOther:
		return true
	}
	return false
}

// StaffStatus 表示家政人员的准入状态
type StaffStatus string

const (
	StaffStatusActive  StaffStatus = "active"
	StaffStatusBlocked StaffStatus = "blocked"
)

// Staff 表示住户登记的家政人员
// PermanentID 签发后不再变更，是门禁核验的唯一凭证
type Staff struct {
	BaseModel
	PermanentID string      `gorm:"type:varchar(10);uniqueIndex;not null" json:"permanent_id"`
	Name        string      `gorm:"type:varchar(50);not null" json:"name"`
	Role        StaffRole   `gorm:"type:varchar(20);not null" json:"role"`
	OtherRole   string      `gorm:"type:varchar(50)" json:"other_role,omitempty"` // Role为other时的具体工种
	Phone       string      `gorm:"type:varchar(20);not null" json:"phone"`
	ResidentID  uint        `gorm:"index;not null" json:"resident_id"`
	Status      StaffStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	BlockRemark string      `gorm:"type:varchar(255)" json:"block_remark,omitempty"`

	// 在园状态快照，仅由门禁核验流转；历史以MovementLog为准
	IsInside      bool       `gorm:"default:false" json:"is_inside"`
	LastEntryTime *time.Time `json:"last_entry_time,omitempty"`
	LastExitTime  *time.Time `json:"last_exit_time,omitempty"`

	// Relations
	Resident *Account `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}
