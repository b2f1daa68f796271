package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusExpired = "expired"
	PaymentStatusCancel  = "canceled"
	PaymentStatusDenied  = "denied"
)

// BillPaymentModel = satu transaksi Snap untuk satu tagihan.
type BillPaymentModel struct {
	PaymentID          uuid.UUID       `json:"payment_id" gorm:"type:uuid;primaryKey;column:payment_id"`
	PaymentBillID      uuid.UUID       `json:"payment_bill_id" gorm:"type:uuid;not null;index;column:payment_bill_id"`
	PaymentOrderID     string          `json:"payment_order_id" gorm:"size:64;not null;uniqueIndex;column:payment_order_id"`
	PaymentGrossAmount decimal.Decimal `json:"payment_gross_amount" gorm:"type:numeric(18,4);not null;column:payment_gross_amount"`
	PaymentStatus      string          `json:"payment_status" gorm:"size:20;not null;column:payment_status"`

	PaymentSnapToken     *string        `json:"payment_snap_token" gorm:"type:text;column:payment_snap_token"`
	PaymentRedirectURL   *string        `json:"payment_redirect_url" gorm:"type:text;column:payment_redirect_url"`
	PaymentTransactionID *string        `json:"payment_transaction_id" gorm:"size:100;column:payment_transaction_id"`
	PaymentPayload       datatypes.JSON `json:"payment_payload,omitempty" gorm:"column:payment_payload"`
	PaymentPaidAt        *time.Time     `json:"payment_paid_at" gorm:"column:payment_paid_at"`

	PaymentCreatedAt time.Time `json:"payment_created_at" gorm:"autoCreateTime;column:payment_created_at"`
	PaymentUpdatedAt time.Time `json:"payment_updated_at" gorm:"autoUpdateTime;column:payment_updated_at"`
}

func (BillPaymentModel) TableName() string { return "bill_payments" }

func (p *BillPaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentStatusPending
	}
	return nil
}
