// file: internals/features/rooms/dto/room_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billDTO "kostku_backend/internals/features/billing/bills/dto"
	model "kostku_backend/internals/features/rooms/model"
	helper "kostku_backend/internals/helpers"
)

/* ===================== Create ===================== */

type CreateRoomRequest struct {
	PropertyID   string          `json:"property_id" validate:"required,uuid"`
	Name         string          `json:"name" validate:"required,max=100"`
	MonthlyPrice decimal.Decimal `json:"monthly_price" validate:"gt=0"`
	TrashService *bool           `json:"trash_service"`
	Occupants    *int            `json:"occupants" validate:"omitempty,min=1,max=10"`
	Status       string          `json:"status" validate:"omitempty,oneof=available maintenance"`
	Notes        *string         `json:"notes"`
}

func (r *CreateRoomRequest) Normalize() {
	r.Name = model.NormalizeRoomName(r.Name)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r CreateRoomRequest) ToModel(propertyID uuid.UUID) *model.RoomModel {
	m := &model.RoomModel{
		RoomPropertyID:   propertyID,
		RoomName:         r.Name,
		RoomMonthlyPrice: r.MonthlyPrice,
		RoomTrashService: true,
		RoomStatus:       r.Status,
		RoomNotes:        r.Notes,
	}
	if r.TrashService != nil {
		m.RoomTrashService = *r.TrashService
	}
	if r.Occupants != nil {
		m.RoomOccupants = *r.Occupants
	}
	return m
}

/* ===================== Patch ===================== */

type PatchRoomRequest struct {
	Name         helper.PatchField[string]          `json:"name"`
	MonthlyPrice helper.PatchField[decimal.Decimal] `json:"monthly_price"`
	TrashService helper.PatchField[bool]            `json:"trash_service"`
	Occupants    helper.PatchField[int]             `json:"occupants"`
	Status       helper.PatchField[string]          `json:"status"`
	Notes        helper.PatchField[string]          `json:"notes"`
}

// ApplyTo: status "occupied" hanya lewat assign; kamar terisi tidak bisa di-maintenance.
func (r PatchRoomRequest) ApplyTo(m *model.RoomModel) map[string][]string {
	errs := map[string][]string{}
	add := func(f, rule string) { errs[f] = append(errs[f], rule) }

	if r.Name.Set {
		if !r.Name.Has() || strings.TrimSpace(*r.Name.Value) == "" {
			add("name", "required")
		} else {
			m.RoomName = model.NormalizeRoomName(*r.Name.Value)
		}
	}
	if r.MonthlyPrice.Set {
		if !r.MonthlyPrice.Has() || !r.MonthlyPrice.Value.IsPositive() {
			add("monthly_price", "gt")
		} else {
			m.RoomMonthlyPrice = *r.MonthlyPrice.Value
		}
	}
	if r.TrashService.Set {
		if !r.TrashService.Has() {
			add("trash_service", "required")
		} else {
			m.RoomTrashService = *r.TrashService.Value
		}
	}
	if r.Occupants.Set {
		if !r.Occupants.Has() || *r.Occupants.Value < 1 {
			add("occupants", "min")
		} else {
			m.RoomOccupants = *r.Occupants.Value
		}
	}
	if r.Status.Set {
		st := ""
		if r.Status.Has() {
			st = strings.ToLower(strings.TrimSpace(*r.Status.Value))
		}
		switch {
		case st != model.RoomStatusAvailable && st != model.RoomStatusMaintenance:
			add("status", "oneof")
		case !m.IsVacant():
			add("status", "room_occupied")
		default:
			m.RoomStatus = st
		}
	}
	if r.Notes.Set {
		if r.Notes.Has() && strings.TrimSpace(*r.Notes.Value) != "" {
			v := strings.TrimSpace(*r.Notes.Value)
			m.RoomNotes = &v
		} else {
			m.RoomNotes = nil
		}
	}
	return errs
}

/* ===================== Actions ===================== */

type AssignTenantRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
}

type MoveInRequest struct {
	MoveInDate        string `json:"move_in_date" validate:"required,datetime=2006-01-02"`
	GenerateFirstBill bool   `json:"generate_first_bill"`
	MeterStart        *int64 `json:"meter_start" validate:"omitempty,gte=0"`
}

func (r MoveInRequest) Check() map[string][]string {
	errs := map[string][]string{}
	if r.GenerateFirstBill && r.MeterStart == nil {
		errs["meter_start"] = append(errs["meter_start"], "required_if")
	}
	return errs
}

func (r MoveInRequest) Date() (time.Time, error) {
	return time.Parse("2006-01-02", r.MoveInDate)
}

/* ===================== Response ===================== */

type RoomResponse struct {
	RoomID       uuid.UUID       `json:"room_id"`
	PropertyID   uuid.UUID       `json:"property_id"`
	Name         string          `json:"name"`
	TenantID     *uuid.UUID      `json:"tenant_id"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	Status       string          `json:"status"`
	TrashService bool            `json:"trash_service"`
	MoveInDate   *string         `json:"move_in_date"`
	Occupants    int             `json:"occupants"`
	Notes        *string         `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func FromModel(m *model.RoomModel) RoomResponse {
	out := RoomResponse{
		RoomID:       m.RoomID,
		PropertyID:   m.RoomPropertyID,
		Name:         m.RoomName,
		TenantID:     m.RoomTenantID,
		MonthlyPrice: m.RoomMonthlyPrice,
		Status:       m.RoomStatus,
		TrashService: m.RoomTrashService,
		Occupants:    m.RoomOccupants,
		Notes:        m.RoomNotes,
		CreatedAt:    m.RoomCreatedAt,
		UpdatedAt:    m.RoomUpdatedAt,
	}
	if m.RoomMoveInDate != nil {
		d := m.RoomMoveInDate.Format("2006-01-02")
		out.MoveInDate = &d
	}
	return out
}

func FromModels(rows []model.RoomModel) []RoomResponse {
	out := make([]RoomResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// MoveInResponse: first_bill / first_bill_error hanya terisi bila diminta.
type MoveInResponse struct {
	Room           RoomResponse          `json:"room"`
	FirstBill      *billDTO.BillResponse `json:"first_bill,omitempty"`
	FirstBillError *string               `json:"first_bill_error,omitempty"`
}
