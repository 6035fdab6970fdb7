package models

// Role 表示账户角色
type Role string

const (
	RoleResident Role = "resident"
	RoleSecurity Role = "security"
	RoleAdmin    Role = "admin"
)

// Valid 判断角色是否为合法枚举值
func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleSecurity, RoleAdmin:
		return true
	}
	return false
}

// ApprovalStatus 表示账户审批状态
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Account 表示平台账户（住户/保安/管理员）
type Account struct {
	BaseModel
	Name     string `gorm:"type:varchar(50);not null" json:"name"`
	Email    string `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"type:varchar(20);not null" json:"phone"`
	Password string `gorm:"type:varchar(100);not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'resident'" json:"role"`

	// 房号仅住户填写，住户之间唯一
	FlatNo string `gorm:"type:varchar(20)" json:"flat_no,omitempty"`

	// 激活与审批：注册后先通过OTP激活，再等待管理员审批
	Activated       bool           `gorm:"default:false" json:"activated"`
	ApprovalStatus  ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"approval_status"`
	RejectionRemark string         `gorm:"type:varchar(255)" json:"rejection_remark,omitempty"`
}
