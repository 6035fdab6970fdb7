package services

import (
	"testing"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestGateService(db *gorm.DB) *GateService {
	return &GateService{
		DB:     db,
		Config: newTestConfig(),
		now:    time.Now,
	}
}

func seedStaff(t *testing.T, db *gorm.DB, residentID uint, permanentID string) *models.Staff {
	t.Helper()
	staff := &models.Staff{
		PermanentID: permanentID,
		Name:        "Ramesh",
		Role:        models.StaffRoleMaid,
		Phone:       "+911111111111",
		ResidentID:  residentID,
		Status:      models.StaffStatusActive,
	}
	require.NoError(t, db.Create(staff).Error)
	return staff
}

func seedVehicle(t *testing.T, db *gorm.DB, ownerID uint, vehicleNo string) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		VehicleNo:     vehicleNo,
		FlatNo:        "A-101",
		VehicleType:   models.VehicleTypeCar,
		OwnerID:       ownerID,
		EntryStatus:   models.VehicleAllowed,
		CurrentStatus: models.VehicleOutside,
	}
	require.NoError(t, db.Create(vehicle).Error)
	return vehicle
}

func seedVisitor(t *testing.T, db *gorm.DB, residentID uint, passToken string) *models.Visitor {
	t.Helper()
	visitor := &models.Visitor{
		Name:        "Guest One",
		Phone:       "+912222222222",
		Purpose:     "Dinner",
		FlatNo:      "A-101",
		ResidentID:  residentID,
		PassToken:   passToken,
		EntryStatus: models.VisitorGranted,
	}
	require.NoError(t, db.Create(visitor).Error)
	return visitor
}

func seedDelivery(t *testing.T, db *gorm.DB, residentID uint, uniqueID string) *models.Delivery {
	t.Helper()
	delivery := &models.Delivery{
		UniqueID:           uniqueID,
		DeliveryPersonName: "Courier",
		Phone:              "+913333333333",
		Apartment:          "A-101",
		Company:            "FastShip",
		ExpectedTime:       time.Now().Add(time.Hour),
		ResidentID:         residentID,
		Status:             models.DeliveryPending,
	}
	require.NoError(t, db.Create(delivery).Error)
	return delivery
}

func TestStaffEntryExitAlternation(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedStaff(t, db, resident.ID, "1234")
	svc := newTestGateService(db)

	staff, err := svc.StaffEntry("1234", guard.ID)
	require.NoError(t, err)
	assert.True(t, staff.IsInside)
	assert.NotNil(t, staff.LastEntryTime)

	// 已在园内，重复入园被拒绝
	_, err = svc.StaffEntry("1234", guard.ID)
	assert.True(t, code.Is(err, code.ErrAlreadyInside))

	staff, err = svc.StaffExit("1234", guard.ID)
	require.NoError(t, err)
	assert.False(t, staff.IsInside)
	assert.NotNil(t, staff.LastExitTime)

	// 已在园外，重复出园被拒绝
	_, err = svc.StaffExit("1234", guard.ID)
	assert.True(t, code.Is(err, code.ErrNotInside))

	// 每次成功核验各追加一条日志
	logs, err := svc.GetSubjectLogs("1234")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, models.SubjectStaff, l.SubjectType)
		assert.Equal(t, guard.ID, l.VerifiedBy)
	}
}

func TestStaffEntryBlocked(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	staff := seedStaff(t, db, resident.ID, "5678")
	require.NoError(t, db.Model(staff).Updates(map[string]interface{}{
		"status":       models.StaffStatusBlocked,
		"block_remark": "theft reported",
	}).Error)
	svc := newTestGateService(db)

	// 拉黑只拒绝入园，错误消息携带拉黑备注
	_, err := svc.StaffEntry("5678", guard.ID)
	require.Error(t, err)
	assert.True(t, code.Is(err, code.ErrSubjectBlocked))
	assert.Contains(t, err.Error(), "theft reported")
}

func TestStaffExitWhileBlocked(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	staff := seedStaff(t, db, resident.ID, "4321")
	require.NoError(t, db.Model(staff).Updates(map[string]interface{}{
		"is_inside":    true,
		"status":       models.StaffStatusBlocked,
		"block_remark": "pending review",
	}).Error)
	svc := newTestGateService(db)

	// 在园内被拉黑的人员仍然可以出园
	out, err := svc.StaffExit("4321", guard.ID)
	require.NoError(t, err)
	assert.False(t, out.IsInside)
}

func TestStaffEntryUnknownCredential(t *testing.T) {
	db := newTestDB(t)
	guard := createTestSecurity(t, db)
	svc := newTestGateService(db)

	_, err := svc.StaffEntry("9999", guard.ID)
	assert.True(t, code.Is(err, code.ErrStaffNotFound))
}

func TestVehicleEntryExitFlow(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedVehicle(t, db, resident.ID, "KA01AB1234")
	svc := newTestGateService(db)

	vehicle, err := svc.VehicleEntry("KA01AB1234", guard.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleInside, vehicle.CurrentStatus)

	_, err = svc.VehicleEntry("KA01AB1234", guard.ID)
	assert.True(t, code.Is(err, code.ErrAlreadyInside))

	vehicle, err = svc.VehicleExit("KA01AB1234", guard.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleOutside, vehicle.CurrentStatus)

	_, err = svc.VehicleExit("KA01AB1234", guard.ID)
	assert.True(t, code.Is(err, code.ErrNotInside))
}

func TestVehicleEntryDenied(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	vehicle := seedVehicle(t, db, resident.ID, "KA02CD5678")
	require.NoError(t, db.Model(vehicle).Updates(map[string]interface{}{
		"entry_status": models.VehicleDenied,
		"block_remark": "unpaid dues",
	}).Error)
	svc := newTestGateService(db)

	_, err := svc.VehicleEntry("KA02CD5678", guard.ID)
	require.Error(t, err)
	assert.True(t, code.Is(err, code.ErrVehicleDenied))
	assert.Contains(t, err.Error(), "unpaid dues")
}

func TestVisitorPassSingleUse(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedVisitor(t, db, resident.ID, "pass-token-1")
	svc := newTestGateService(db)

	visitor, err := svc.VisitorEntry("pass-token-1", guard.ID)
	require.NoError(t, err)
	require.NotNil(t, visitor.EntryTime)

	// 通行证单次有效，二次扫码入园被拒绝
	_, err = svc.VisitorEntry("pass-token-1", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))

	visitor, err = svc.VisitorExit("pass-token-1", guard.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorExit, visitor.EntryStatus)
	require.NotNil(t, visitor.ExitTime)

	// 出园后通行证进入终态，进出都不可复用
	_, err = svc.VisitorEntry("pass-token-1", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))
	_, err = svc.VisitorExit("pass-token-1", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))
}

func TestVisitorExitBeforeEntry(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedVisitor(t, db, resident.ID, "pass-token-2")
	svc := newTestGateService(db)

	_, err := svc.VisitorExit("pass-token-2", guard.ID)
	assert.True(t, code.Is(err, code.ErrNotInside))
}

func TestVisitorEntryRevokedPass(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	visitor := seedVisitor(t, db, resident.ID, "pass-token-3")
	require.NoError(t, db.Model(visitor).Update("entry_status", models.VisitorDenied).Error)
	svc := newTestGateService(db)

	_, err := svc.VisitorEntry("pass-token-3", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassRevoked))
}

func TestVisitorEntryExpiredPass(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedVisitor(t, db, resident.ID, "pass-token-4")

	// 将核验时钟拨到签发24小时之后
	svc := newTestGateService(db)
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err := svc.VisitorEntry("pass-token-4", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassExpired))
}

func TestDeliveryEntryExitFlow(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedDelivery(t, db, resident.ID, "ABC123")
	svc := newTestGateService(db)

	// 出园必须在入园之后
	_, err := svc.DeliveryExit("ABC123", guard.ID)
	assert.True(t, code.Is(err, code.ErrNotInside))

	delivery, err := svc.DeliveryEntry("ABC123", guard.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryApproved, delivery.Status)
	require.NotNil(t, delivery.EntryTime)

	_, err = svc.DeliveryEntry("ABC123", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))

	delivery, err = svc.DeliveryExit("ABC123", guard.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryCompleted, delivery.Status)
	require.NotNil(t, delivery.ExitTime)

	// completed为终态，通行码不可复用
	_, err = svc.DeliveryEntry("ABC123", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))
	_, err = svc.DeliveryExit("ABC123", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))
}

func TestDeliveryEntryExpiredCode(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedDelivery(t, db, resident.ID, "XYZ789")

	svc := newTestGateService(db)
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err := svc.DeliveryEntry("XYZ789", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassExpired))
}

func TestGetCurrentlyInside(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedStaff(t, db, resident.ID, "1111")
	seedStaff(t, db, resident.ID, "2222")
	seedVehicle(t, db, resident.ID, "KA03EF9012")
	seedVisitor(t, db, resident.ID, "pass-inside")
	seedDelivery(t, db, resident.ID, "DEF456")
	svc := newTestGateService(db)

	_, err := svc.StaffEntry("1111", guard.ID)
	require.NoError(t, err)
	_, err = svc.VehicleEntry("KA03EF9012", guard.ID)
	require.NoError(t, err)
	_, err = svc.VisitorEntry("pass-inside", guard.ID)
	require.NoError(t, err)
	_, err = svc.DeliveryEntry("DEF456", guard.ID)
	require.NoError(t, err)

	snapshot, err := svc.GetCurrentlyInside()
	require.NoError(t, err)
	assert.Len(t, snapshot.Staff, 1)
	assert.Len(t, snapshot.Vehicles, 1)
	assert.Len(t, snapshot.Visitors, 1)
	assert.Len(t, snapshot.Deliveries, 1)

	// 出园后从在园视图移除
	_, err = svc.StaffExit("1111", guard.ID)
	require.NoError(t, err)
	snapshot, err = svc.GetCurrentlyInside()
	require.NoError(t, err)
	assert.Empty(t, snapshot.Staff)
}

func TestGetMovementLogsFilterAndPaging(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedStaff(t, db, resident.ID, "3333")
	seedVehicle(t, db, resident.ID, "KA04GH3456")
	svc := newTestGateService(db)

	_, err := svc.StaffEntry("3333", guard.ID)
	require.NoError(t, err)
	_, err = svc.StaffExit("3333", guard.ID)
	require.NoError(t, err)
	_, err = svc.VehicleEntry("KA04GH3456", guard.ID)
	require.NoError(t, err)

	logs, total, err := svc.GetMovementLogs(1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, logs, 3)

	logs, total, err = svc.GetMovementLogs(1, 10, string(models.SubjectStaff))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, l := range logs {
		assert.Equal(t, models.SubjectStaff, l.SubjectType)
	}

	logs, total, err = svc.GetMovementLogs(1, 2, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, logs, 2)
}

// 并发核验时以带前置条件的UPDATE为准：另一窗口的核验先落库后，
// 后到的更新不再命中任何行，返回冲突错误而不是覆盖状态。
// 通过now钩子在前置检查之后、事务提交之前改写行来模拟先落库的核验

func TestStaffEntryConflictLoser(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedStaff(t, db, resident.ID, "7001")
	svc := newTestGateService(db)

	svc.now = func() time.Time {
		require.NoError(t, db.Model(&models.Staff{}).
			Where("permanent_id = ?", "7001").
			Update("is_inside", true).Error)
		return time.Now()
	}

	_, err := svc.StaffEntry("7001", guard.ID)
	assert.True(t, code.Is(err, code.ErrAlreadyInside))

	// 落败方不追加日志
	logs, err := svc.GetSubjectLogs("7001")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestStaffExitConflictLoser(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	staff := seedStaff(t, db, resident.ID, "7002")
	require.NoError(t, db.Model(staff).Update("is_inside", true).Error)
	svc := newTestGateService(db)

	svc.now = func() time.Time {
		require.NoError(t, db.Model(&models.Staff{}).
			Where("permanent_id = ?", "7002").
			Update("is_inside", false).Error)
		return time.Now()
	}

	_, err := svc.StaffExit("7002", guard.ID)
	assert.True(t, code.Is(err, code.ErrNotInside))
}

func TestVehicleEntryConflictLoser(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedVehicle(t, db, resident.ID, "MH12AB7003")
	svc := newTestGateService(db)

	svc.now = func() time.Time {
		require.NoError(t, db.Model(&models.Vehicle{}).
			Where("vehicle_no = ?", "MH12AB7003").
			Update("current_status", models.VehicleInside).Error)
		return time.Now()
	}

	_, err := svc.VehicleEntry("MH12AB7003", guard.ID)
	assert.True(t, code.Is(err, code.ErrAlreadyInside))
}

func TestVisitorEntryConflictLoser(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedVisitor(t, db, resident.ID, "pass-7004")
	svc := newTestGateService(db)

	svc.now = func() time.Time {
		require.NoError(t, db.Model(&models.Visitor{}).
			Where("pass_token = ?", "pass-7004").
			Update("entry_time", time.Now()).Error)
		return time.Now()
	}

	_, err := svc.VisitorEntry("pass-7004", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))

	// 通行证仍只被核销一次
	logs, err := svc.GetSubjectLogs("pass-7004")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDeliveryEntryConflictLoser(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	seedDelivery(t, db, resident.ID, "700005")
	svc := newTestGateService(db)

	svc.now = func() time.Time {
		require.NoError(t, db.Model(&models.Delivery{}).
			Where("unique_id = ?", "700005").
			Update("status", models.DeliveryApproved).Error)
		return time.Now()
	}

	_, err := svc.DeliveryEntry("700005", guard.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))
}
