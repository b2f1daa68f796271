package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"kostku_backend/internals/constants"
	"kostku_backend/internals/databases/dbtest"
	billService "kostku_backend/internals/features/billing/bills/service"
	propertyModel "kostku_backend/internals/features/properties/model"
	model "kostku_backend/internals/features/rooms/model"
	tenantModel "kostku_backend/internals/features/tenants/model"
)

type env struct {
	db     *gorm.DB
	svc    *RoomService
	owner  billService.Actor
	prop   *propertyModel.PropertyModel
	tenant *tenantModel.TenantModel
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.Open(t)
	owner := dbtest.CreateUser(t, db, constants.RoleOwner)
	prop := dbtest.CreateProperty(t, db, owner.UserID)
	tenant := dbtest.CreateTenant(t, db, owner.UserID, nil)
	return &env{
		db:     db,
		svc:    NewRoomService(db, billService.NewService(billService.NewGormStore(db))),
		owner:  billService.Actor{UserID: owner.UserID, Role: constants.RoleOwner},
		prop:   prop,
		tenant: tenant,
	}
}

func TestAssignAndVacate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room := dbtest.CreateRoom(t, e.db, e.prop.PropertyID, dbtest.RoomOpts{Name: "A-01"})
	other := dbtest.CreateRoom(t, e.db, e.prop.PropertyID, dbtest.RoomOpts{Name: "A-02"})

	r, err := e.svc.AssignTenant(ctx, e.owner, room.RoomID, e.tenant.TenantID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusOccupied, r.RoomStatus)
	require.NotNil(t, r.RoomTenantID)

	_, err = e.svc.AssignTenant(ctx, e.owner, room.RoomID, e.tenant.TenantID)
	assert.ErrorIs(t, err, ErrRoomOccupied)
	_, err = e.svc.AssignTenant(ctx, e.owner, other.RoomID, e.tenant.TenantID)
	assert.ErrorIs(t, err, ErrTenantBusy)
	_, err = e.svc.AssignTenant(ctx, e.owner, other.RoomID, uuid.New())
	assert.ErrorIs(t, err, ErrTenantNotFound)

	stranger := billService.Actor{UserID: uuid.New(), Role: constants.RoleOwner}
	_, err = e.svc.Vacate(ctx, stranger, room.RoomID)
	assert.ErrorIs(t, err, ErrForbidden)

	r, err = e.svc.Vacate(ctx, e.owner, room.RoomID)
	require.NoError(t, err)
	assert.Nil(t, r.RoomTenantID)
	assert.Equal(t, model.RoomStatusAvailable, r.RoomStatus)

	_, err = e.svc.Vacate(ctx, e.owner, room.RoomID)
	assert.ErrorIs(t, err, ErrRoomVacant)
	_, err = e.svc.Vacate(ctx, e.owner, uuid.New())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestMoveInGeneratesFirstBill(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	room := dbtest.CreateRoom(t, e.db, e.prop.PropertyID, dbtest.RoomOpts{Name: "A-01", TenantID: &e.tenant.TenantID})

	res, err := e.svc.SetMoveIn(ctx, e.owner, room.RoomID, MoveInInput{
		Date:              time.Date(2026, 1, 15, 13, 45, 0, 0, time.FixedZone("WIB", 7*3600)),
		GenerateFirstBill: true,
		MeterStart:        100,
	})
	require.NoError(t, err)
	require.NoError(t, res.FirstBillErr)
	require.NotNil(t, res.FirstBill)

	assert.Equal(t, "2026-01-15", res.Room.RoomMoveInDate.Format("2006-01-02"))
	b := res.FirstBill.Bill
	assert.Equal(t, "2026-01", b.BillPeriod)
	assert.Equal(t, e.tenant.TenantID, b.BillTenantID)
	assert.Zero(t, b.BillConsumptionKwh)
	assert.True(t, decimal.RequireFromString("1686290.32").Equal(b.BillTotalAmount), b.BillTotalAmount.String())

	_, err = e.svc.SetMoveIn(ctx, e.owner, room.RoomID, MoveInInput{Date: time.Now()})
	assert.ErrorIs(t, err, ErrMoveInAlreadySet)
}

func TestMoveInKeepsDateWhenFirstBillFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.db.Model(e.prop).Update("property_cost_per_kwh", decimal.Zero).Error)
	room := dbtest.CreateRoom(t, e.db, e.prop.PropertyID, dbtest.RoomOpts{Name: "A-01", TenantID: &e.tenant.TenantID})

	res, err := e.svc.SetMoveIn(ctx, e.owner, room.RoomID, MoveInInput{
		Date:              time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		GenerateFirstBill: true,
	})
	require.NoError(t, err)
	assert.Nil(t, res.FirstBill)
	_, isValidation := billService.AsValidationError(res.FirstBillErr)
	assert.True(t, isValidation)

	var stored model.RoomModel
	require.NoError(t, e.db.First(&stored, "room_id = ?", room.RoomID).Error)
	require.NotNil(t, stored.RoomMoveInDate)
	assert.Equal(t, 10, stored.RoomMoveInDate.Day())

	vacant := dbtest.CreateRoom(t, e.db, e.prop.PropertyID, dbtest.RoomOpts{Name: "A-02"})
	_, err = e.svc.SetMoveIn(ctx, e.owner, vacant.RoomID, MoveInInput{Date: time.Now()})
	assert.ErrorIs(t, err, ErrRoomVacant)
}

func roomSheet(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"name", "price", "trash_service", "occupants"}))
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf
}

func TestImportRooms(t *testing.T) {
	e := newEnv(t)
	dbtest.CreateRoom(t, e.db, e.prop.PropertyID, dbtest.RoomOpts{Name: "A-01"})

	buf := roomSheet(t, [][]any{
		{"A-01", 3000000, "ya", 1},
		{"A-02", "Rp 2.500.000", "tidak", 2},
		{"A-03", 2750000.5, "", ""},
		{"", "", "", ""},
		{"A-04", "mahal", "ya", 1},
		{"A-05", 1000000, "mungkin", 1},
		{"a-02", 1000000, "ya", 1},
	})

	res, err := e.svc.ImportRooms(context.Background(), e.owner, e.prop.PropertyID, buf)
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	assert.Len(t, res.Skipped, 4)

	var a2 model.RoomModel
	require.NoError(t, e.db.First(&a2, "room_name = ?", "A-02").Error)
	assert.True(t, decimal.NewFromInt(2500000).Equal(a2.RoomMonthlyPrice))
	assert.False(t, a2.RoomTrashService)
	assert.Equal(t, 2, a2.RoomOccupants)

	var a3 model.RoomModel
	require.NoError(t, e.db.First(&a3, "room_name = ?", "A-03").Error)
	assert.Equal(t, 1, a3.RoomOccupants)

	_, err = e.svc.ImportRooms(context.Background(), billService.Actor{UserID: uuid.New(), Role: constants.RoleOwner}, e.prop.PropertyID, roomSheet(t, nil))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.svc.ImportRooms(context.Background(), e.owner, e.prop.PropertyID, bytes.NewBufferString("bukan excel"))
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"3000000":        "3000000",
		"Rp 3.000.000":   "3000000",
		"rp1.250.000,50": "1250000.5",
		"2750000.5":      "2750000.5",
	}
	for in, want := range cases {
		got, err := parsePrice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
	_, err := parsePrice("0")
	assert.Error(t, err)
}
