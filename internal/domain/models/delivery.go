package models

import "time"

// DeliveryStatus 表示快递请求状态
// completed 为终态：进出一次后通行码失效
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryApproved  DeliveryStatus = "approved"
	DeliveryCompleted DeliveryStatus = "completed"
)

// Delivery 表示住户预约的快递/外卖上门请求
type Delivery struct {
	BaseModel
	// UniqueID 是发给快递员的短通行码，单次有效
	UniqueID           string         `gorm:"type:varchar(10);uniqueIndex;not null" json:"unique_id"`
	DeliveryPersonName string         `gorm:"type:varchar(50);not null" json:"delivery_person_name"`
	Phone              string         `gorm:"type:varchar(20);not null" json:"phone"`
	Apartment          string         `gorm:"type:varchar(20);not null" json:"apartment"`
	Company            string         `gorm:"type:varchar(50);not null" json:"company"`
	ExpectedTime       time.Time      `json:"expected_time"`
	ResidentID         uint           `gorm:"index;not null" json:"resident_id"`
	Status             DeliveryStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	EntryTime          *time.Time     `json:"entry_time,omitempty"`
	ExitTime           *time.Time     `json:"exit_time,omitempty"`

	// Relations
	Resident *Account `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}
