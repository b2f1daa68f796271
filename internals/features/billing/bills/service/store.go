package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kostku_backend/internals/databases"
	billModel "kostku_backend/internals/features/billing/bills/model"
	propertyModel "kostku_backend/internals/features/properties/model"
	roomModel "kostku_backend/internals/features/rooms/model"
	tenantModel "kostku_backend/internals/features/tenants/model"
)

// RoomSnapshot = hasil lookup kamar untuk billing (plus pemilik properti untuk cek akses).
type RoomSnapshot struct {
	Room    roomModel.RoomModel
	OwnerID uuid.UUID
}

// TenantID: penghuni kamar, fallback ke id kamar bila kosong.
func (r *RoomSnapshot) TenantID() uuid.UUID {
	if r.Room.RoomTenantID != nil {
		return *r.Room.RoomTenantID
	}
	return r.Room.RoomID
}

type BillFilter struct {
	OwnerID      *uuid.UUID
	TenantUserID *uuid.UUID
	RoomID       *uuid.UUID
	TenantID     *uuid.UUID
	Period       string
	IsPaid       *bool
	Order        string
	Offset       int
	Limit        int
}

// Store = kolaborator persistensi billing.
type Store interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
	RoomForBilling(ctx context.Context, roomID uuid.UUID, lock bool) (*RoomSnapshot, error)
	HasPaidBill(ctx context.Context, tenantID uuid.UUID, period string) (bool, error)
	CreateBill(ctx context.Context, b *billModel.BillModel) error
	FindBill(ctx context.Context, billID uuid.UUID, lock bool) (*billModel.BillModel, error)
	ListBills(ctx context.Context, f BillFilter) ([]billModel.BillModel, int64, error)
	SetPaid(ctx context.Context, billID uuid.UUID, paid bool, at *time.Time) error
	TenantBelongsToUser(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
}

/* ===================== GORM ===================== */

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) RoomForBilling(ctx context.Context, roomID uuid.UUID, lock bool) (*RoomSnapshot, error) {
	q := s.db.WithContext(ctx)
	if lock {
		// SELECT ... FOR UPDATE: generate untuk kamar yang sama berjalan serial
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var room roomModel.RoomModel
	if err := q.Where("room_id = ?", roomID).Take(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	var prop propertyModel.PropertyModel
	if err := s.db.WithContext(ctx).
		Select("property_id", "property_owner_id").
		Where("property_id = ?", room.RoomPropertyID).
		Take(&prop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	return &RoomSnapshot{Room: room, OwnerID: prop.PropertyOwnerID}, nil
}

func (s *GormStore) HasPaidBill(ctx context.Context, tenantID uuid.UUID, period string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&billModel.BillModel{}).
		Where("bill_tenant_id = ? AND bill_period = ? AND bill_is_paid = ?", tenantID, period, true).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) CreateBill(ctx context.Context, b *billModel.BillModel) error {
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicatePaidBill
		}
		return err
	}
	return nil
}

func (s *GormStore) FindBill(ctx context.Context, billID uuid.UUID, lock bool) (*billModel.BillModel, error) {
	q := s.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b billModel.BillModel
	if err := q.Where("bill_id = ?", billID).Take(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return &b, nil
}

var billOrderColumns = map[string]bool{
	"bills.bill_created_at DESC": true, "bills.bill_created_at ASC": true,
	"bills.bill_period DESC": true, "bills.bill_period ASC": true,
	"bills.bill_total_amount DESC": true, "bills.bill_total_amount ASC": true,
}

func (s *GormStore) ListBills(ctx context.Context, f BillFilter) ([]billModel.BillModel, int64, error) {
	q := s.db.WithContext(ctx).Model(&billModel.BillModel{})

	if f.OwnerID != nil {
		q = q.Joins("JOIN rooms ON rooms.room_id = bills.bill_room_id").
			Joins("JOIN properties ON properties.property_id = rooms.room_property_id").
			Where("properties.property_owner_id = ?", *f.OwnerID)
	}
	if f.TenantUserID != nil {
		sub := s.db.Model(&tenantModel.TenantModel{}).
			Select("tenant_id").
			Where("tenant_user_id = ?", *f.TenantUserID)
		q = q.Where("bills.bill_tenant_id IN (?)", sub)
	}
	if f.RoomID != nil {
		q = q.Where("bills.bill_room_id = ?", *f.RoomID)
	}
	if f.TenantID != nil {
		q = q.Where("bills.bill_tenant_id = ?", *f.TenantID)
	}
	if f.Period != "" {
		q = q.Where("bills.bill_period = ?", f.Period)
	}
	if f.IsPaid != nil {
		q = q.Where("bills.bill_is_paid = ?", *f.IsPaid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.Order
	if !billOrderColumns[order] {
		order = "bills.bill_created_at DESC"
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []billModel.BillModel
	if err := q.Order(order).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *GormStore) SetPaid(ctx context.Context, billID uuid.UUID, paid bool, at *time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&billModel.BillModel{}).
		Where("bill_id = ?", billID).
		Updates(map[string]any{
			"bill_is_paid": paid,
			"bill_paid_at": at,
		})
	if res.Error != nil {
		if database.IsUniqueViolation(res.Error) {
			return ErrPaidBillConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBillNotFound
	}
	return nil
}

func (s *GormStore) TenantBelongsToUser(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&tenantModel.TenantModel{}).
		Where("tenant_id = ? AND tenant_user_id = ?", tenantID, userID).
		Count(&n).Error
	return n > 0, err
}
