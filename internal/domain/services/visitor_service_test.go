package services

import (
	"bytes"
	"testing"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/error/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestInviteVisitor(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := NewVisitorService(db, newTestConfig())

	visitor, err := svc.InviteVisitor(&InviteVisitorRequest{
		Name:       "Guest One",
		Phone:      "+912222222222",
		Purpose:    "Dinner",
		ResidentID: resident.ID,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, visitor.PassToken)
	assert.Equal(t, models.VisitorGranted, visitor.EntryStatus)
	// 房号取自邀请住户的快照
	assert.Equal(t, "A-101", visitor.FlatNo)
	assert.Nil(t, visitor.EntryTime)

	// 邀请落一条registered日志
	var logs []models.MovementLog
	require.NoError(t, db.Where("subject_id = ?", visitor.PassToken).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionRegistered, logs[0].Action)
	assert.Equal(t, models.SubjectVisitor, logs[0].SubjectType)
}

func TestInviteVisitorUnknownResident(t *testing.T) {
	db := newTestDB(t)
	svc := NewVisitorService(db, newTestConfig())

	_, err := svc.InviteVisitor(&InviteVisitorRequest{
		Name: "Guest", Phone: "+91", ResidentID: 9999,
	})
	assert.True(t, code.Is(err, code.ErrAccountNotFound))
}

func TestInviteVisitorTokensUnique(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := NewVisitorService(db, newTestConfig())

	first, err := svc.InviteVisitor(&InviteVisitorRequest{
		Name: "Guest One", Phone: "+91", ResidentID: resident.ID,
	})
	require.NoError(t, err)
	second, err := svc.InviteVisitor(&InviteVisitorRequest{
		Name: "Guest Two", Phone: "+91", ResidentID: resident.ID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.PassToken, second.PassToken)
}

func TestRevokeVisitorPass(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	other := createTestResident(t, db, "B-202")
	svc := NewVisitorService(db, newTestConfig())

	visitor, err := svc.InviteVisitor(&InviteVisitorRequest{
		Name: "Guest One", Phone: "+91", ResidentID: resident.ID,
	})
	require.NoError(t, err)

	// 只有邀请住户可以撤销
	_, err = svc.Revoke(visitor.ID, other.ID)
	assert.True(t, code.Is(err, code.ErrPermissionDenied))

	revoked, err := svc.Revoke(visitor.ID, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorDenied, revoked.EntryStatus)
}

func TestRevokeUsedPass(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	svc := NewVisitorService(db, newTestConfig())

	visitor, err := svc.InviteVisitor(&InviteVisitorRequest{
		Name: "Guest One", Phone: "+91", ResidentID: resident.ID,
	})
	require.NoError(t, err)

	// 访客已入园后撤销无意义，被拒绝
	now := time.Now()
	require.NoError(t, db.Model(visitor).Update("entry_time", now).Error)

	_, err = svc.Revoke(visitor.ID, resident.ID)
	assert.True(t, code.Is(err, code.ErrPassAlreadyUsed))
}

func TestRenderPassQR(t *testing.T) {
	db := newTestDB(t)
	resident := createTestResident(t, db, "A-101")
	other := createTestResident(t, db, "B-202")
	svc := NewVisitorService(db, newTestConfig())

	visitor, err := svc.InviteVisitor(&InviteVisitorRequest{
		Name: "Guest One", Phone: "+91", ResidentID: resident.ID,
	})
	require.NoError(t, err)

	png, err := svc.RenderPassQR(visitor.ID, resident.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))

	// 非邀请住户无权获取二维码
	_, err = svc.RenderPassQR(visitor.ID, other.ID)
	assert.True(t, code.Is(err, code.ErrPermissionDenied))
}
