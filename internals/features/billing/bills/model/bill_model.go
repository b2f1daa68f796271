// file: internals/features/billing/bills/model/bill_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kostku_backend/internals/features/billing/engine"
)

// BillModel = satu siklus tagihan untuk pasangan kamar/penghuni.
// Setelah dibuat, hanya status lunas (is_paid/paid_at) yang boleh berubah.
type BillModel struct {
	BillID       uuid.UUID `json:"bill_id" gorm:"type:uuid;primaryKey;column:bill_id"`
	BillRoomID   uuid.UUID `json:"bill_room_id" gorm:"type:uuid;not null;index:idx_bills_room_period;column:bill_room_id"`
	BillTenantID uuid.UUID `json:"bill_tenant_id" gorm:"type:uuid;not null;uniqueIndex:uq_bills_paid_tenant_period,where:bill_is_paid = true;column:bill_tenant_id"`

	// Periode
	BillPeriod        string  `json:"bill_period" gorm:"size:7;not null;uniqueIndex:uq_bills_paid_tenant_period,where:bill_is_paid = true;index:idx_bills_room_period;column:bill_period"`
	BillPeriodEnd     *string `json:"bill_period_end" gorm:"size:7;column:bill_period_end"`
	BillMonthsCovered int     `json:"bill_months_covered" gorm:"not null;column:bill_months_covered"`
	BillIsProrated    bool    `json:"bill_is_prorated" gorm:"not null;column:bill_is_prorated"`
	BillDaysOccupied  int     `json:"bill_days_occupied" gorm:"not null;column:bill_days_occupied"`
	BillDaysInMonth   int     `json:"bill_days_in_month" gorm:"not null;column:bill_days_in_month"`

	// Meteran listrik
	BillMeterStart     int64           `json:"bill_meter_start" gorm:"not null;column:bill_meter_start"`
	BillMeterEnd       int64           `json:"bill_meter_end" gorm:"not null;column:bill_meter_end"`
	BillConsumptionKwh int64           `json:"bill_consumption_kwh" gorm:"not null;column:bill_consumption_kwh"`
	BillCostPerKwh     decimal.Decimal `json:"bill_cost_per_kwh" gorm:"type:numeric(18,4);not null;column:bill_cost_per_kwh"`

	// Rincian (disimpan semua supaya total bisa diaudit tanpa hitung ulang)
	BillRoomPrice      decimal.Decimal `json:"bill_room_price" gorm:"type:numeric(18,4);not null;column:bill_room_price"`
	BillUsageCost      decimal.Decimal `json:"bill_usage_cost" gorm:"type:numeric(18,4);not null;column:bill_usage_cost"`
	BillWaterFee       decimal.Decimal `json:"bill_water_fee" gorm:"type:numeric(18,4);not null;column:bill_water_fee"`
	BillTrashFee       decimal.Decimal `json:"bill_trash_fee" gorm:"type:numeric(18,4);not null;column:bill_trash_fee"`
	BillAdditionalCost decimal.Decimal `json:"bill_additional_cost" gorm:"type:numeric(18,4);not null;column:bill_additional_cost"`
	BillTotalAmount    decimal.Decimal `json:"bill_total_amount" gorm:"type:numeric(18,4);not null;column:bill_total_amount"`

	// Status
	BillIsPaid    bool       `json:"bill_is_paid" gorm:"not null;index;column:bill_is_paid"`
	BillPaidAt    *time.Time `json:"bill_paid_at" gorm:"column:bill_paid_at"`
	BillCreatedBy *uuid.UUID `json:"bill_created_by" gorm:"type:uuid;column:bill_created_by"`

	BillCreatedAt time.Time `json:"bill_created_at" gorm:"autoCreateTime;column:bill_created_at"`
	BillUpdatedAt time.Time `json:"bill_updated_at" gorm:"autoUpdateTime;column:bill_updated_at"`
}

func (BillModel) TableName() string { return "bills" }

func (b *BillModel) BeforeCreate(tx *gorm.DB) error {
	if b.BillID == uuid.Nil {
		b.BillID = uuid.New()
	}
	if b.BillMonthsCovered < 1 {
		b.BillMonthsCovered = 1
	}
	return nil
}

// Breakdown mengembalikan rincian yang tersimpan.
func (b *BillModel) Breakdown() engine.Breakdown {
	return engine.Breakdown{
		RoomPrice:      b.BillRoomPrice,
		UsageCost:      b.BillUsageCost,
		WaterFee:       b.BillWaterFee,
		TrashFee:       b.BillTrashFee,
		AdditionalCost: b.BillAdditionalCost,
		TotalAmount:    b.BillTotalAmount,
	}
}

// ShortID dipakai untuk nomor tagihan & order id Midtrans.
func (b *BillModel) ShortID() string {
	s := b.BillID.String()
	return s[:8]
}
