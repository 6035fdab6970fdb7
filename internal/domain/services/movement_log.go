package services

import (
	"time"

	"guardiannet-http-service/internal/domain/models"

	"gorm.io/gorm"
)

// appendMovementLog 在事务内追加一条出入审计日志
// 日志与登记表写入在同一事务中提交，保证状态与历史一致
func appendMovementLog(tx *gorm.DB, subjectID string, subjectType models.SubjectType,
	action models.MovementAction, verifiedBy uint, subjectName, notes string) error {
	return tx.Create(&models.MovementLog{
		SubjectID:   subjectID,
		SubjectType: subjectType,
		Action:      action,
		Timestamp:   time.Now(),
		VerifiedBy:  verifiedBy,
		SubjectName: subjectName,
		Notes:       notes,
	}).Error
}
