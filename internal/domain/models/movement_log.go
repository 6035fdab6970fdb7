package models

import "time"

// SubjectType 表示门禁核验主体类型
type SubjectType string

const (
	SubjectStaff    SubjectType = "staff"
	SubjectVehicle  SubjectType = "vehicle"
	SubjectVisitor  SubjectType = "visitor"
	SubjectDelivery SubjectType = "delivery"
)

// MovementAction 表示出入日志动作
type MovementAction string

const (
	ActionEntry      MovementAction = "entry"
	ActionExit       MovementAction = "exit"
	ActionRegistered MovementAction = "registered"
	ActionBlocked    MovementAction = "blocked"
	ActionUnblocked  MovementAction = "unblocked"
)

// MovementLog 表示只追加的出入审计日志
// 日志是当前状态与历史的唯一事实来源，写入后不再修改或删除；
// SubjectName 是写入时的名称快照，主体被硬删除后历史视图仍可展示
type MovementLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SubjectID   string         `gorm:"type:varchar(64);index:idx_subject,priority:1;not null" json:"subject_id"`
	SubjectType SubjectType    `gorm:"type:varchar(20);index:idx_subject,priority:2;not null" json:"subject_type"`
	Action      MovementAction `gorm:"type:varchar(20);not null" json:"action"`
	Timestamp   time.Time      `gorm:"index;not null" json:"timestamp"`
	VerifiedBy  uint           `json:"verified_by"` // 核验人账户ID，0表示系统动作
	SubjectName string         `gorm:"type:varchar(50)" json:"subject_name"`
	Notes       string         `gorm:"type:varchar(255)" json:"notes,omitempty"`
}
