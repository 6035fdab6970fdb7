package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEmergencyService(db *gorm.DB, publisher *fakePublisher, notifier *fakeNotifier) InterfaceEmergencyService {
	return NewEmergencyService(db, newTestConfig(), publisher, notifier)
}

func TestCreateAlert(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	publisher := &fakePublisher{}
	svc := newTestEmergencyService(db, publisher, &fakeNotifier{})

	alert, err := svc.CreateAlert(&CreateAlertRequest{
		Type:       models.AlertFire,
		Location:   "B栋3层走廊",
		ReporterID: resident.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AlertPending, alert.Status)
	assert.Equal(t, "Fire", alert.Title())

	// 上报成功后向保安端广播
	require.Len(t, publisher.Published, 1)
	assert.Equal(t, alert.ID, publisher.Published[0].ID)
}

func TestCreateAlertValidation(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := newTestEmergencyService(db, &fakePublisher{}, &fakeNotifier{})

	// 非法类型
	_, err := svc.CreateAlert(&CreateAlertRequest{
		Type: "Flood", Location: "Gate 1", ReporterID: resident.ID,
	})
	assert.True(t, code.Is(err, code.ErrValidation))

	// Other类型必须填写自定义标题
	_, err = svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertOther, Location: "Gate 1", ReporterID: resident.ID,
	})
	assert.True(t, code.Is(err, code.ErrAlertTitleRequired))

	// 位置不能为空
	_, err = svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertFire, Location: "  ", ReporterID: resident.ID,
	})
	assert.True(t, code.Is(err, code.ErrValidation))

	// 上报人必须存在
	_, err = svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertFire, Location: "Gate 1", ReporterID: 9999,
	})
	assert.True(t, code.Is(err, code.ErrAccountNotFound))
}

func TestCreateAlertOtherTitle(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := newTestEmergencyService(db, &fakePublisher{}, &fakeNotifier{})

	alert, err := svc.CreateAlert(&CreateAlertRequest{
		Type:        models.AlertOther,
		CustomTitle: "电梯困人",
		Location:    "A栋电梯",
		ReporterID:  resident.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "电梯困人", alert.Title())
}

func TestCreateAlertDuplicateSuppressed(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	publisher := &fakePublisher{}
	svc := newTestEmergencyService(db, publisher, &fakeNotifier{})

	first, err := svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertFire, Location: "Gate 1", ReporterID: resident.ID,
	})
	require.NoError(t, err)

	// 同人同类型已有待处理警报，重复上报返回原警报且不再广播
	second, err := svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertFire, Location: "Gate 2", ReporterID: resident.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, publisher.Published, 1)

	// 不同类型不受压制
	third, err := svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertMedical, Location: "Gate 1", ReporterID: resident.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestAlertStatusForwardOnly(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	notifier := &fakeNotifier{}
	svc := newTestEmergencyService(db, &fakePublisher{}, notifier)

	alert, err := svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertFire, Location: "Gate 1", ReporterID: resident.ID,
	})
	require.NoError(t, err)

	// 禁止跳级到Resolved
	_, err = svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertResolved, ActionTaken: "done", ActorID: guard.ID,
	})
	assert.True(t, code.Is(err, code.ErrAlertTransition))

	// 流转到Processing必须指定处置人
	_, err = svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertProcessing, ActorID: guard.ID,
	})
	assert.True(t, code.Is(err, code.ErrAlertAssigneeRequired))

	// 处置人不能是住户
	_, err = svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertProcessing, AssignedTo: &resident.ID, ActorID: guard.ID,
	})
	assert.True(t, code.Is(err, code.ErrValidation))

	processing, err := svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertProcessing, AssignedTo: &guard.ID, ActorID: guard.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AlertProcessing, processing.Status)
	require.NotNil(t, processing.AssignedTo)
	assert.Equal(t, guard.ID, *processing.AssignedTo)

	// 禁止回退到Pending，禁止重复流转到Processing
	_, err = svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertPending, ActorID: guard.ID,
	})
	assert.True(t, code.Is(err, code.ErrAlertTransition))
	_, err = svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertProcessing, AssignedTo: &guard.ID, ActorID: guard.ID,
	})
	assert.True(t, code.Is(err, code.ErrAlertTransition))

	// 流转到Resolved必须填写处置措施
	_, err = svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertResolved, ActorID: guard.ID,
	})
	assert.True(t, code.Is(err, code.ErrAlertActionRequired))

	resolved, err := svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertResolved, ActionTaken: "已疏散人员并扑灭初期火情", ActorID: guard.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AlertResolved, resolved.Status)
	assert.NotNil(t, resolved.VerifiedAt)
	assert.Equal(t, "已疏散人员并扑灭初期火情", resolved.ActionTaken)

	// 处置完成后短信通知上报人
	require.Len(t, notifier.Messages, 1)
	assert.Equal(t, resident.Phone, notifier.To[0])

	// Resolved为终态
	_, err = svc.UpdateStatus(alert.ID, &UpdateAlertStatusRequest{
		Status: models.AlertProcessing, AssignedTo: &guard.ID, ActorID: guard.ID,
	})
	assert.True(t, code.Is(err, code.ErrAlertTransition))
}

func TestGetAlertsFilterByStatus(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	guard := createTestSecurity(t, db)
	svc := newTestEmergencyService(db, &fakePublisher{}, &fakeNotifier{})

	fire, err := svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertFire, Location: "Gate 1", ReporterID: resident.ID,
	})
	require.NoError(t, err)
	_, err = svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertMedical, Location: "Gate 2", ReporterID: resident.ID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(fire.ID, &UpdateAlertStatusRequest{
		Status: models.AlertProcessing, AssignedTo: &guard.ID, ActorID: guard.ID,
	})
	require.NoError(t, err)

	alerts, total, err := svc.GetAlerts(1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, alerts, 2)

	alerts, total, err = svc.GetAlerts(1, 10, string(models.AlertPending))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertMedical, alerts[0].Type)
}

func TestGetReporterAlerts(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	other := createTestResident(t, db, "B-202")
	svc := newTestEmergencyService(db, &fakePublisher{}, &fakeNotifier{})

	_, err := svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertFire, Location: "Gate 1", ReporterID: resident.ID,
	})
	require.NoError(t, err)
	_, err = svc.CreateAlert(&CreateAlertRequest{
		Type: models.AlertMedical, Location: "Gate 2", ReporterID: other.ID,
	})
	require.NoError(t, err)

	alerts, err := svc.GetReporterAlerts(resident.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, resident.ID, alerts[0].ReporterID)
}
