// file: internals/features/properties/dto/property_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "kostku_backend/internals/features/properties/model"
	helper "kostku_backend/internals/helpers"
)

// MaxRateScale sama dengan kolom numeric(18,4).
const MaxRateScale = 4

/* ===================== Create ===================== */

type CreatePropertyRequest struct {
	OwnerID *string `json:"owner_id" validate:"omitempty,uuid"` // hanya admin
	Name    string  `json:"name" validate:"required,max=150"`
	Address *string `json:"address"`
	City    *string `json:"city" validate:"omitempty,max=100"`

	CostPerKwh decimal.Decimal `json:"cost_per_kwh" validate:"gt=0"`
	WaterFee   decimal.Decimal `json:"water_fee" validate:"gte=0"`
	TrashFee   decimal.Decimal `json:"trash_fee" validate:"gte=0"`
}

func (r *CreatePropertyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = trimPtr(r.Address)
	r.City = trimPtr(r.City)
}

// Check: aturan yang tidak bisa diekspresikan lewat tag.
func (r CreatePropertyRequest) Check() map[string][]string {
	errs := map[string][]string{}
	if !r.CostPerKwh.Equal(r.CostPerKwh.Truncate(MaxRateScale)) {
		errs["cost_per_kwh"] = append(errs["cost_per_kwh"], "max_scale")
	}
	return errs
}

func (r CreatePropertyRequest) ToModel(ownerID uuid.UUID) *model.PropertyModel {
	return &model.PropertyModel{
		PropertyOwnerID:    ownerID,
		PropertyName:       r.Name,
		PropertyAddress:    r.Address,
		PropertyCity:       r.City,
		PropertyCostPerKwh: r.CostPerKwh,
		PropertyWaterFee:   r.WaterFee,
		PropertyTrashFee:   r.TrashFee,
	}
}

/* ===================== Patch ===================== */

type PatchPropertyRequest struct {
	Name       helper.PatchField[string]          `json:"name"`
	Address    helper.PatchField[string]          `json:"address"`
	City       helper.PatchField[string]          `json:"city"`
	CostPerKwh helper.PatchField[decimal.Decimal] `json:"cost_per_kwh"`
	WaterFee   helper.PatchField[decimal.Decimal] `json:"water_fee"`
	TrashFee   helper.PatchField[decimal.Decimal] `json:"trash_fee"`
}

// ApplyTo memvalidasi lalu menerapkan perubahan. Field wajib tidak boleh null.
func (r PatchPropertyRequest) ApplyTo(p *model.PropertyModel) map[string][]string {
	errs := map[string][]string{}
	add := func(f, rule string) { errs[f] = append(errs[f], rule) }

	if r.Name.Set {
		if !r.Name.Has() || strings.TrimSpace(*r.Name.Value) == "" {
			add("name", "required")
		} else if len(strings.TrimSpace(*r.Name.Value)) > 150 {
			add("name", "max")
		} else {
			p.PropertyName = strings.TrimSpace(*r.Name.Value)
		}
	}
	if r.Address.Set {
		p.PropertyAddress = trimPtr(r.Address.Value)
	}
	if r.City.Set {
		p.PropertyCity = trimPtr(r.City.Value)
	}
	if r.CostPerKwh.Set {
		switch {
		case !r.CostPerKwh.Has() || !r.CostPerKwh.Value.IsPositive():
			add("cost_per_kwh", "gt")
		case !r.CostPerKwh.Value.Equal(r.CostPerKwh.Value.Truncate(MaxRateScale)):
			add("cost_per_kwh", "max_scale")
		default:
			p.PropertyCostPerKwh = *r.CostPerKwh.Value
		}
	}
	if r.WaterFee.Set {
		if !r.WaterFee.Has() || r.WaterFee.Value.IsNegative() {
			add("water_fee", "gte")
		} else {
			p.PropertyWaterFee = *r.WaterFee.Value
		}
	}
	if r.TrashFee.Set {
		if !r.TrashFee.Has() || r.TrashFee.Value.IsNegative() {
			add("trash_fee", "gte")
		} else {
			p.PropertyTrashFee = *r.TrashFee.Value
		}
	}
	return errs
}

/* ===================== Response ===================== */

type PropertyResponse struct {
	PropertyID uuid.UUID       `json:"property_id"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	Name       string          `json:"name"`
	Address    *string         `json:"address"`
	City       *string         `json:"city"`
	CostPerKwh decimal.Decimal `json:"cost_per_kwh"`
	WaterFee   decimal.Decimal `json:"water_fee"`
	TrashFee   decimal.Decimal `json:"trash_fee"`
	RoomCount  *int64          `json:"room_count,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func FromModel(p *model.PropertyModel) PropertyResponse {
	return PropertyResponse{
		PropertyID: p.PropertyID,
		OwnerID:    p.PropertyOwnerID,
		Name:       p.PropertyName,
		Address:    p.PropertyAddress,
		City:       p.PropertyCity,
		CostPerKwh: p.PropertyCostPerKwh,
		WaterFee:   p.PropertyWaterFee,
		TrashFee:   p.PropertyTrashFee,
		CreatedAt:  p.PropertyCreatedAt,
		UpdatedAt:  p.PropertyUpdatedAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
