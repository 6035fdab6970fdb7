package models

import "time"

// AlertType 表示紧急警报类型
type AlertType string

const (
	AlertFire             AlertType = "Fire"
	AlertMedical          AlertType = "Medical"
	AlertSecurityThreat   AlertType = "Security Threat"
	AlertSuspiciousPerson AlertType = "Suspicious Person"
	AlertUnauthorized     AlertType = "Unauthorized Entry"
	AlertOther            AlertType = "Other"
)

// Valid 判断警报类型是否为合法枚举值
func (t AlertType) Valid() bool {
	switch t {
	case AlertFire, AlertMedical, AlertSecurityThreat, AlertSuspiciousPerson, AlertUnauthorized, AlertOther:
		return true
	}
	return false
}

// AlertStatus 表示警报处理状态，只允许向前流转
type AlertStatus string

const (
	AlertPending    AlertStatus = "Pending"
	AlertProcessing AlertStatus = "Processing"
	AlertResolved   AlertStatus = "Resolved"
)

// EmergencyAlert 表示紧急警报
type EmergencyAlert struct {
	BaseModel
	Type        AlertType `gorm:"type:varchar(30);not null" json:"type"`
	CustomTitle string    `gorm:"type:varchar(100)" json:"custom_title,omitempty"` // Type为Other时必填
	Location    string    `gorm:"type:varchar(100);not null" json:"location"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	PhotoURL    string    `gorm:"type:varchar(255)" json:"photo_url,omitempty"` // 对象存储中的证据照片
	ReporterID  uint      `gorm:"index;not null" json:"reporter_id"`

	Status      AlertStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	AssignedTo  *uint       `json:"assigned_to,omitempty"` // Processing起必填
	ActionTaken string      `gorm:"type:text" json:"action_taken,omitempty"`
	VerifiedAt  *time.Time  `json:"verified_at,omitempty"`

	// Relations
	Reporter *Account `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
}

// Title 返回展示用标题，Other类型使用自定义标题
func (a *EmergencyAlert) Title() string {
	if a.Type == AlertOther && a.CustomTitle != "" {
		return a.CustomTitle
	}
	return string(a.Type)
}
