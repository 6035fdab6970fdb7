package models

import "time"

// VisitorEntryStatus 表示访客通行状态
// exit 为终态：一次完整的进出后通行证不可复用
type VisitorEntryStatus string

const (
	VisitorGranted VisitorEntryStatus = "granted"
	VisitorDenied  VisitorEntryStatus = "denied"
	VisitorExit    VisitorEntryStatus = "exit"
)

// Visitor 表示住户邀请的访客
type Visitor struct {
	BaseModel
	Name       string `gorm:"type:varchar(50);not null" json:"name"`
	Phone      string `gorm:"type:varchar(20);not null" json:"phone"`
	Purpose    string `gorm:"type:varchar(100)" json:"purpose"`
	FlatNo     string `gorm:"type:varchar(20);not null" json:"flat_no"`
	ResidentID uint   `gorm:"index;not null" json:"resident_id"`

	// PassToken 是二维码载荷，单次有效
	PassToken   string             `gorm:"type:varchar(64);uniqueIndex;not null" json:"pass_token"`
	EntryStatus VisitorEntryStatus `gorm:"type:varchar(20);not null;default:'granted'" json:"entry_status"`
	EntryTime   *time.Time         `json:"entry_time,omitempty"`
	ExitTime    *time.Time         `json:"exit_time,omitempty"`

	// Relations
	Resident *Account `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}
