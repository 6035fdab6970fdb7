package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPersonalVehicle(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := NewVehicleService(db, newTestConfig())

	vehicle, err := svc.RegisterPersonalVehicle(resident.ID, "mh12ab1234", models.VehicleTypeCar)
	require.NoError(t, err)

	// 车牌号规范化为大写
	assert.Equal(t, "MH12AB1234", vehicle.VehicleNo)
	assert.Equal(t, "A-101", vehicle.FlatNo)
	assert.Equal(t, models.VehicleAllowed, vehicle.EntryStatus)
	assert.Equal(t, models.VehicleOutside, vehicle.CurrentStatus)
	assert.False(t, vehicle.IsGuest)

	var logs []models.MovementLog
	require.NoError(t, db.Where("subject_id = ?", vehicle.VehicleNo).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionRegistered, logs[0].Action)
}

func TestRegisterVehicleValidation(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := NewVehicleService(db, newTestConfig())

	// 车牌号格式校验
	_, err := svc.RegisterPersonalVehicle(resident.ID, "INVALID", models.VehicleTypeCar)
	assert.True(t, code.Is(err, code.ErrVehicleNoInvalid))

	// 车辆类型校验
	_, err = svc.RegisterPersonalVehicle(resident.ID, "MH12AB1234", "boat")
	assert.True(t, code.Is(err, code.ErrValidation))

	// 车牌号全局唯一
	_, err = svc.RegisterPersonalVehicle(resident.ID, "MH12AB1234", models.VehicleTypeCar)
	require.NoError(t, err)
	other := createTestResident(t, db, "B-202")
	_, err = svc.RegisterPersonalVehicle(other.ID, "MH12AB1234", models.VehicleTypeCar)
	assert.True(t, code.Is(err, code.ErrVehicleAlreadyExist))
}

func TestRegisterGuestVehicle(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	other := createTestResident(t, db, "B-202")
	visitorSvc := NewVisitorService(db, newTestConfig())
	svc := NewVehicleService(db, newTestConfig())

	visitor, err := visitorSvc.InviteVisitor(&InviteVisitorRequest{
		Name: "Guest One", Phone: "+91", ResidentID: resident.ID,
	})
	require.NoError(t, err)

	// 访客必须属于登记住户
	_, err = svc.RegisterGuestVehicle(other.ID, visitor.ID, "HP37G9923", models.VehicleTypeCar)
	assert.True(t, code.Is(err, code.ErrPermissionDenied))

	vehicle, err := svc.RegisterGuestVehicle(resident.ID, visitor.ID, "HP37G9923", models.VehicleTypeCar)
	require.NoError(t, err)
	assert.True(t, vehicle.IsGuest)
	require.NotNil(t, vehicle.VisitorID)
	assert.Equal(t, visitor.ID, *vehicle.VisitorID)
}

func TestBlockAndUnblockVehicle(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	admin := createTestSecurity(t, db)
	svc := NewVehicleService(db, newTestConfig())

	_, err := svc.RegisterPersonalVehicle(resident.ID, "KA01AB1234", models.VehicleTypeCar)
	require.NoError(t, err)

	// 禁行必须填写备注
	_, err = svc.Block("KA01AB1234", " ", admin.ID)
	assert.True(t, code.Is(err, code.ErrRemarkRequired))

	blocked, err := svc.Block("KA01AB1234", "unpaid dues", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleDenied, blocked.EntryStatus)
	assert.Equal(t, "unpaid dues", blocked.BlockRemark)

	_, err = svc.Block("KA01AB1234", "again", admin.ID)
	assert.True(t, code.Is(err, code.ErrValidation))

	unblocked, err := svc.Unblock("KA01AB1234", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleAllowed, unblocked.EntryStatus)
	assert.Empty(t, unblocked.BlockRemark)

	_, err = svc.Unblock("KA01AB1234", admin.ID)
	assert.True(t, code.Is(err, code.ErrValidation))
}

func TestDeleteVehicleOwnership(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	other := createTestResident(t, db, "B-202")
	svc := NewVehicleService(db, newTestConfig())

	_, err := svc.RegisterPersonalVehicle(resident.ID, "KA01AB1234", models.VehicleTypeCar)
	require.NoError(t, err)

	err = svc.DeleteVehicle("KA01AB1234", other.ID)
	assert.True(t, code.Is(err, code.ErrPermissionDenied))

	require.NoError(t, svc.DeleteVehicle("KA01AB1234", resident.ID))
	_, err = svc.GetVehicleByNo("KA01AB1234")
	assert.True(t, code.Is(err, code.ErrVehicleNotFound))

	// 登记日志不受删除影响
	var logs []models.MovementLog
	require.NoError(t, db.Where("subject_id = ?", "KA01AB1234").Find(&logs).Error)
	assert.NotEmpty(t, logs)
}

func TestGetAllVehiclesSearch(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := NewVehicleService(db, newTestConfig())

	_, err := svc.RegisterPersonalVehicle(resident.ID, "KA01AB1234", models.VehicleTypeCar)
	require.NoError(t, err)
	_, err = svc.RegisterPersonalVehicle(resident.ID, "MH12CD5678", models.VehicleTypeBike)
	require.NoError(t, err)

	vehicles, total, err := svc.GetAllVehicles(1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, vehicles, 2)

	vehicles, total, err = svc.GetAllVehicles(1, 10, "KA01")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "KA01AB1234", vehicles[0].VehicleNo)
}
