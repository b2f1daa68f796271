package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kostku_backend/internals/features/billing/engine"
)

type PropertyModel struct {
	PropertyID      uuid.UUID `json:"property_id" gorm:"type:uuid;primaryKey;column:property_id"`
	PropertyOwnerID uuid.UUID `json:"property_owner_id" gorm:"type:uuid;not null;index;column:property_owner_id"`
	PropertyName    string    `json:"property_name" gorm:"size:150;not null;column:property_name"`
	PropertyAddress *string   `json:"property_address" gorm:"type:text;column:property_address"`
	PropertyCity    *string   `json:"property_city" gorm:"size:100;column:property_city"`

	// Tarif default properti. Hanya dipakai saat tagihan pertama (move-in);
	// generate biasa selalu membawa tarif eksplisit di request.
	PropertyCostPerKwh decimal.Decimal `json:"property_cost_per_kwh" gorm:"type:numeric(18,4);not null;column:property_cost_per_kwh"`
	PropertyWaterFee   decimal.Decimal `json:"property_water_fee" gorm:"type:numeric(18,4);not null;column:property_water_fee"`
	PropertyTrashFee   decimal.Decimal `json:"property_trash_fee" gorm:"type:numeric(18,4);not null;column:property_trash_fee"`

	PropertyCreatedAt time.Time      `json:"property_created_at" gorm:"autoCreateTime;column:property_created_at"`
	PropertyUpdatedAt time.Time      `json:"property_updated_at" gorm:"autoUpdateTime;column:property_updated_at"`
	PropertyDeletedAt gorm.DeletedAt `json:"-" gorm:"index;column:property_deleted_at"`
}

func (PropertyModel) TableName() string { return "properties" }

func (p *PropertyModel) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == uuid.Nil {
		p.PropertyID = uuid.New()
	}
	return nil
}

// FeeSchedule = parameter tarif eksplisit untuk engine.
func (p *PropertyModel) FeeSchedule() engine.FeeSchedule {
	return engine.FeeSchedule{
		CostPerKwh: p.PropertyCostPerKwh,
		WaterFee:   p.PropertyWaterFee,
		TrashFee:   p.PropertyTrashFee,
	}
}
