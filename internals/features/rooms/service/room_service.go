// file: internals/features/rooms/service/room_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/engine"
	propertyModel "kostku_backend/internals/features/properties/model"
	model "kostku_backend/internals/features/rooms/model"
	tenantModel "kostku_backend/internals/features/tenants/model"
)

var (
	ErrRoomNotFound     = errors.New("kamar tidak ditemukan")
	ErrPropertyNotFound = errors.New("properti tidak ditemukan")
	ErrTenantNotFound   = errors.New("penghuni tidak ditemukan")
	ErrForbidden        = errors.New("tidak punya akses ke kamar ini")
	ErrRoomOccupied     = errors.New("kamar sudah terisi")
	ErrRoomMaintenance  = errors.New("kamar sedang maintenance")
	ErrRoomVacant       = errors.New("kamar belum punya penghuni")
	ErrTenantBusy       = errors.New("penghuni sudah menempati kamar lain")
	ErrMoveInAlreadySet = errors.New("tanggal masuk sudah diisi untuk penghuni ini")
)

type RoomService struct {
	db    *gorm.DB
	bills *billService.Service
}

func NewRoomService(db *gorm.DB, bills *billService.Service) *RoomService {
	return &RoomService{db: db, bills: bills}
}

// canManage: admin atau pemilik properti.
func canManage(actor billService.Actor, ownerID uuid.UUID) bool {
	return actor.IsAdmin() || (!actor.IsTenant() && actor.UserID == ownerID)
}

// Property mengambil properti dan memastikan pemanggil boleh mengelolanya.
func (s *RoomService) Property(ctx context.Context, actor billService.Actor, id uuid.UUID) (*propertyModel.PropertyModel, error) {
	return loadProperty(s.db.WithContext(ctx), actor, id)
}

func loadProperty(tx *gorm.DB, actor billService.Actor, id uuid.UUID) (*propertyModel.PropertyModel, error) {
	var p propertyModel.PropertyModel
	if err := tx.First(&p, "property_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !canManage(actor, p.PropertyOwnerID) {
		return nil, ErrForbidden
	}
	return &p, nil
}

// lockRoom: kamar + properti, dengan row lock bila di dalam transaksi.
func lockRoom(tx *gorm.DB, actor billService.Actor, id uuid.UUID, lock bool) (*model.RoomModel, *propertyModel.PropertyModel, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r model.RoomModel
	if err := q.First(&r, "room_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, err
	}
	p, err := loadProperty(tx, actor, r.RoomPropertyID)
	if errors.Is(err, ErrPropertyNotFound) {
		return nil, nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &r, p, nil
}

func (s *RoomService) Get(ctx context.Context, actor billService.Actor, id uuid.UUID) (*model.RoomModel, error) {
	r, _, err := lockRoom(s.db.WithContext(ctx), actor, id, false)
	return r, err
}

// AssignTenant menempatkan penghuni ke kamar kosong. Tanggal masuk diisi terpisah.
func (s *RoomService) AssignTenant(ctx context.Context, actor billService.Actor, roomID, tenantID uuid.UUID) (*model.RoomModel, error) {
	var out *model.RoomModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, prop, err := lockRoom(tx, actor, roomID, true)
		if err != nil {
			return err
		}
		switch {
		case room.RoomStatus == model.RoomStatusMaintenance:
			return ErrRoomMaintenance
		case !room.IsVacant():
			return ErrRoomOccupied
		}

		var t tenantModel.TenantModel
		if err := tx.First(&t, "tenant_id = ?", tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}
		if t.TenantOwnerID != prop.PropertyOwnerID {
			return ErrTenantNotFound
		}

		var busy int64
		if err := tx.Model(&model.RoomModel{}).Where("room_tenant_id = ?", tenantID).Count(&busy).Error; err != nil {
			return err
		}
		if busy > 0 {
			return ErrTenantBusy
		}

		if err := tx.Model(room).Updates(map[string]any{
			"room_tenant_id":    tenantID,
			"room_status":       model.RoomStatusOccupied,
			"room_move_in_date": nil,
		}).Error; err != nil {
			return err
		}
		room.RoomTenantID = &tenantID
		room.RoomStatus = model.RoomStatusOccupied
		room.RoomMoveInDate = nil
		out = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("room_id", roomID.String()).Str("tenant_id", tenantID.String()).Msg("penghuni ditempatkan")
	return out, nil
}

// Vacate mengosongkan kamar (penghuni & tanggal masuk dihapus). Tagihan lama tetap.
func (s *RoomService) Vacate(ctx context.Context, actor billService.Actor, roomID uuid.UUID) (*model.RoomModel, error) {
	var out *model.RoomModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, _, err := lockRoom(tx, actor, roomID, true)
		if err != nil {
			return err
		}
		if room.IsVacant() {
			return ErrRoomVacant
		}
		if err := tx.Model(room).Updates(map[string]any{
			"room_tenant_id":    nil,
			"room_status":       model.RoomStatusAvailable,
			"room_move_in_date": nil,
		}).Error; err != nil {
			return err
		}
		room.RoomTenantID = nil
		room.RoomStatus = model.RoomStatusAvailable
		room.RoomMoveInDate = nil
		out = room
		return nil
	})
	return out, err
}

type MoveInInput struct {
	Date              time.Time
	GenerateFirstBill bool
	MeterStart        int64
}

type MoveInResult struct {
	Room         *model.RoomModel
	FirstBill    *billService.Result
	FirstBillErr error
}

// SetMoveIn mengisi tanggal masuk (sekali per masa huni). Bila diminta, tagihan
// pertama dibuat dengan tarif default properti; gagalnya tidak membatalkan move-in.
func (s *RoomService) SetMoveIn(ctx context.Context, actor billService.Actor, roomID uuid.UUID, in MoveInInput) (*MoveInResult, error) {
	date := billService.DateOnly(in.Date)

	var (
		room *model.RoomModel
		prop *propertyModel.PropertyModel
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		room, prop, err = lockRoom(tx, actor, roomID, true)
		if err != nil {
			return err
		}
		if room.IsVacant() {
			return ErrRoomVacant
		}
		if room.RoomMoveInDate != nil {
			return ErrMoveInAlreadySet
		}
		if err := tx.Model(room).Update("room_move_in_date", date).Error; err != nil {
			return err
		}
		room.RoomMoveInDate = &date
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &MoveInResult{Room: room}
	if !in.GenerateFirstBill || s.bills == nil {
		return res, nil
	}

	fees := prop.FeeSchedule()
	months := 1
	res.FirstBill, res.FirstBillErr = s.bills.Generate(ctx, actor, billService.GenerateInput{
		RoomID:        roomID,
		Period:        engine.PeriodOf(date).String(),
		MonthsCovered: &months,
		MeterStart:    in.MeterStart,
		MeterEnd:      in.MeterStart,
		CostPerKwh:    fees.CostPerKwh,
		WaterFee:      fees.WaterFee,
		TrashFee:      fees.TrashFee,
	})
	if res.FirstBillErr != nil {
		log.Warn().Err(res.FirstBillErr).Str("room_id", roomID.String()).Msg("tagihan pertama gagal dibuat")
	}
	return res, nil
}
