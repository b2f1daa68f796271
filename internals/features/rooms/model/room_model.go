package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"kostku_backend/internals/features/billing/engine"
)

/* ===================== Status Constants ===================== */

const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

func IsValidRoomStatus(s string) bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	}
	return false
}

/* ===================== Model ===================== */

type RoomModel struct {
	RoomID         uuid.UUID  `json:"room_id" gorm:"type:uuid;primaryKey;column:room_id"`
	RoomPropertyID uuid.UUID  `json:"room_property_id" gorm:"type:uuid;not null;uniqueIndex:uq_rooms_property_name,where:room_deleted_at IS NULL;column:room_property_id"`
	RoomName       string     `json:"room_name" gorm:"size:100;not null;uniqueIndex:uq_rooms_property_name,where:room_deleted_at IS NULL;column:room_name"`
	RoomTenantID   *uuid.UUID `json:"room_tenant_id" gorm:"type:uuid;index;column:room_tenant_id"`

	RoomMonthlyPrice decimal.Decimal `json:"room_monthly_price" gorm:"type:numeric(18,4);not null;column:room_monthly_price"`
	RoomStatus       string          `json:"room_status" gorm:"size:20;not null;default:available;column:room_status"`
	RoomTrashService bool            `json:"room_trash_service" gorm:"not null;column:room_trash_service"`
	RoomMoveInDate   *time.Time      `json:"room_move_in_date" gorm:"column:room_move_in_date"`
	RoomOccupants    int             `json:"room_occupants" gorm:"not null;default:1;column:room_occupants"`
	RoomNotes        *string         `json:"room_notes" gorm:"type:text;column:room_notes"`

	RoomCreatedAt time.Time      `json:"room_created_at" gorm:"autoCreateTime;column:room_created_at"`
	RoomUpdatedAt time.Time      `json:"room_updated_at" gorm:"autoUpdateTime;column:room_updated_at"`
	RoomDeletedAt gorm.DeletedAt `json:"-" gorm:"index;column:room_deleted_at"`
}

func (RoomModel) TableName() string { return "rooms" }

func (r *RoomModel) BeforeCreate(tx *gorm.DB) error {
	if r.RoomID == uuid.Nil {
		r.RoomID = uuid.New()
	}
	if r.RoomStatus == "" {
		r.RoomStatus = RoomStatusAvailable
	}
	if r.RoomOccupants <= 0 {
		r.RoomOccupants = 1
	}
	return nil
}

// NormalizeRoomName: NFC + spasi dirapatkan, supaya "A-01" dari Excel dan dari form
// tidak lolos unique index sebagai dua nama berbeda.
func NormalizeRoomName(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

func (r *RoomModel) IsVacant() bool { return r.RoomTenantID == nil }

// Rates = data kamar yang dipakai engine.
func (r *RoomModel) Rates() engine.RoomRates {
	return engine.RoomRates{
		MonthlyPrice: r.RoomMonthlyPrice,
		TrashService: r.RoomTrashService,
	}
}
