package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStaffService(db *gorm.DB, notifier *fakeNotifier) InterfaceStaffService {
	return NewStaffService(db, newTestConfig(), notifier)
}

func TestRegisterStaff(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	notifier := &fakeNotifier{}
	svc := newTestStaffService(db, notifier)

	staff, err := svc.RegisterStaff(&RegisterStaffRequest{
		Name:       "Ramesh",
		Role:       models.StaffRoleMaid,
		Phone:      "+911111111111",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)

	// 永久ID为4位数字
	assert.Len(t, staff.PermanentID, 4)
	assert.Equal(t, models.StaffStatusActive, staff.Status)
	assert.False(t, staff.IsInside)

	// 登记落一条registered日志
	var logs []models.MovementLog
	require.NoError(t, db.Where("subject_id = ?", staff.PermanentID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionRegistered, logs[0].Action)
	assert.Equal(t, models.SubjectStaff, logs[0].SubjectType)

	// 短信告知永久ID
	require.Len(t, notifier.Messages, 1)
	assert.Contains(t, notifier.Messages[0], staff.PermanentID)
	assert.Equal(t, staff.Phone, notifier.To[0])
}

func TestRegisterStaffInvalidRole(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := newTestStaffService(db, &fakeNotifier{})

	_, err := svc.RegisterStaff(&RegisterStaffRequest{
		Name:       "Ramesh",
		Role:       "plumber",
		Phone:      "+911111111111",
		ResidentID: resident.ID,
	})
	assert.True(t, code.Is(err, code.ErrValidation))
}

func TestRegisterStaffDuplicate(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := newTestStaffService(db, &fakeNotifier{})

	req := &RegisterStaffRequest{
		Name:       "Ramesh",
		Role:       models.StaffRoleCook,
		Phone:      "+911111111111",
		ResidentID: resident.ID,
	}
	_, err := svc.RegisterStaff(req)
	require.NoError(t, err)

	// 同一住户不允许重复登记同名同工种人员
	_, err = svc.RegisterStaff(req)
	assert.True(t, code.Is(err, code.ErrStaffAlreadyExist))

	// 不同住户登记同名同工种不受影响
	other := createTestResident(t, db, "B-202")
	req.ResidentID = other.ID
	_, err = svc.RegisterStaff(req)
	require.NoError(t, err)
}

func TestRegisterStaffOtherRole(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := newTestStaffService(db, &fakeNotifier{})

	staff, err := svc.RegisterStaff(&RegisterStaffRequest{
		Name:       "Suresh",
		Role:       models.StaffRoleOther,
		OtherRole:  "gardener",
		Phone:      "+911111111112",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "gardener", staff.OtherRole)
}

func TestBlockStaffRequiresRemark(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := newTestStaffService(db, &fakeNotifier{})

	staff, err := svc.RegisterStaff(&RegisterStaffRequest{
		Name:       "Ramesh",
		Role:       models.StaffRoleMaid,
		Phone:      "+911111111111",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)

	_, err = svc.Block(staff.ID, "   ", resident.ID)
	assert.True(t, code.Is(err, code.ErrRemarkRequired))
}

func TestBlockAndUnblockStaff(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	notifier := &fakeNotifier{}
	svc := newTestStaffService(db, notifier)

	staff, err := svc.RegisterStaff(&RegisterStaffRequest{
		Name:       "Ramesh",
		Role:       models.StaffRoleMaid,
		Phone:      "+911111111111",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)

	blocked, err := svc.Block(staff.ID, "theft reported", resident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StaffStatusBlocked, blocked.Status)
	assert.Equal(t, "theft reported", blocked.BlockRemark)

	// 重复拉黑被拒绝
	_, err = svc.Block(staff.ID, "again", resident.ID)
	assert.True(t, code.Is(err, code.ErrValidation))

	unblocked, err := svc.Unblock(staff.ID, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StaffStatusActive, unblocked.Status)
	assert.Empty(t, unblocked.BlockRemark)

	// 未拉黑状态下解除拉黑被拒绝
	_, err = svc.Unblock(staff.ID, resident.ID)
	assert.True(t, code.Is(err, code.ErrValidation))

	// 拉黑与解除各落一条日志
	var logs []models.MovementLog
	require.NoError(t, db.Where("subject_id = ? AND action IN ?",
		staff.PermanentID, []models.MovementAction{models.ActionBlocked, models.ActionUnblocked}).
		Find(&logs).Error)
	assert.Len(t, logs, 2)
}

func TestDeleteStaffOwnership(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	other := createTestResident(t, db, "B-202")
	svc := newTestStaffService(db, &fakeNotifier{})

	staff, err := svc.RegisterStaff(&RegisterStaffRequest{
		Name:       "Ramesh",
		Role:       models.StaffRoleMaid,
		Phone:      "+911111111111",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)

	// 非登记住户不能删除
	err = svc.DeleteStaff(staff.ID, other.ID)
	assert.True(t, code.Is(err, code.ErrPermissionDenied))

	require.NoError(t, svc.DeleteStaff(staff.ID, resident.ID))
	_, err = svc.GetStaffByID(staff.ID)
	assert.True(t, code.Is(err, code.ErrStaffNotFound))

	// 硬删除不影响出入日志的历史视图
	var logs []models.MovementLog
	require.NoError(t, db.Where("subject_id = ?", staff.PermanentID).Find(&logs).Error)
	assert.NotEmpty(t, logs)
	assert.Equal(t, "Ramesh", logs[0].SubjectName)
}

func TestGetAllStaffSearch(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := newTestStaffService(db, &fakeNotifier{})

	_, err := svc.RegisterStaff(&RegisterStaffRequest{
		Name: "Ramesh", Role: models.StaffRoleMaid, Phone: "+911111111111", ResidentID: resident.ID,
	})
	require.NoError(t, err)
	_, err = svc.RegisterStaff(&RegisterStaffRequest{
		Name: "Suresh", Role: models.StaffRoleDriver, Phone: "+911111111112", ResidentID: resident.ID,
	})
	require.NoError(t, err)

	staff, total, err := svc.GetAllStaff(1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, staff, 2)

	staff, total, err = svc.GetAllStaff(1, 10, "Ramesh")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, staff, 1)
	assert.Equal(t, "Ramesh", staff[0].Name)
}
