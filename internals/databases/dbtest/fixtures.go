package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	billModel "kostku_backend/internals/features/billing/bills/model"
	propertyModel "kostku_backend/internals/features/properties/model"
	roomModel "kostku_backend/internals/features/rooms/model"
	tenantModel "kostku_backend/internals/features/tenants/model"
	authModel "kostku_backend/internals/features/users/auth/model"
)

func mustCreate(t testing.TB, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

func CreateUser(t testing.TB, db *gorm.DB, role string) *authModel.UserModel {
	t.Helper()
	u := &authModel.UserModel{
		UserName:     role + "-" + uuid.NewString()[:6],
		UserEmail:    uuid.NewString()[:8] + "@kostku.test",
		UserPassword: "x",
		UserRole:     role,
		UserIsActive: true,
	}
	mustCreate(t, db, u)
	return u
}

func CreateProperty(t testing.TB, db *gorm.DB, ownerID uuid.UUID) *propertyModel.PropertyModel {
	t.Helper()
	p := &propertyModel.PropertyModel{
		PropertyOwnerID:    ownerID,
		PropertyName:       "Kost Melati",
		PropertyCostPerKwh: decimal.NewFromInt(1500),
		PropertyWaterFee:   decimal.NewFromInt(50000),
		PropertyTrashFee:   decimal.NewFromInt(25000),
	}
	mustCreate(t, db, p)
	return p
}

func CreateTenant(t testing.TB, db *gorm.DB, ownerID uuid.UUID, userID *uuid.UUID) *tenantModel.TenantModel {
	t.Helper()
	phone := "081234567890"
	tn := &tenantModel.TenantModel{
		TenantOwnerID:  ownerID,
		TenantUserID:   userID,
		TenantFullName: "Budi Santoso",
		TenantPhone:    &phone,
	}
	mustCreate(t, db, tn)
	return tn
}

// RoomOpts mengatur kamar fixture; nilai nol = kamar kosong 3.000.000 dengan layanan sampah.
type RoomOpts struct {
	Name     string
	TenantID *uuid.UUID
	MoveIn   *time.Time
	NoTrash  bool
	PriceIDR int64
}

func CreateRoom(t testing.TB, db *gorm.DB, propertyID uuid.UUID, o RoomOpts) *roomModel.RoomModel {
	t.Helper()
	if o.Name == "" {
		o.Name = "A-" + uuid.NewString()[:4]
	}
	if o.PriceIDR == 0 {
		o.PriceIDR = 3_000_000
	}
	r := &roomModel.RoomModel{
		RoomPropertyID:   propertyID,
		RoomName:         o.Name,
		RoomTenantID:     o.TenantID,
		RoomMonthlyPrice: decimal.NewFromInt(o.PriceIDR),
		RoomTrashService: !o.NoTrash,
		RoomMoveInDate:   o.MoveIn,
	}
	if o.TenantID != nil {
		r.RoomStatus = roomModel.RoomStatusOccupied
	}
	mustCreate(t, db, r)
	return r
}

func Date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// CreateBill menyimpan tagihan sederhana: sewa 3.000.000 + air 50.000 = 3.050.000.
func CreateBill(t testing.TB, db *gorm.DB, roomID, tenantID uuid.UUID, period string, paid bool) *billModel.BillModel {
	t.Helper()
	b := &billModel.BillModel{
		BillRoomID:         roomID,
		BillTenantID:       tenantID,
		BillPeriod:         period,
		BillMonthsCovered:  1,
		BillDaysOccupied:   1,
		BillDaysInMonth:    1,
		BillCostPerKwh:     decimal.NewFromInt(1500),
		BillRoomPrice:      decimal.NewFromInt(3_000_000),
		BillUsageCost:      decimal.Zero,
		BillWaterFee:       decimal.NewFromInt(50000),
		BillTrashFee:       decimal.Zero,
		BillAdditionalCost: decimal.Zero,
		BillTotalAmount:    decimal.NewFromInt(3_050_000),
		BillIsPaid:         paid,
	}
	if paid {
		b.BillPaidAt = Date(2026, time.January, 5)
	}
	mustCreate(t, db, b)
	return b
}
