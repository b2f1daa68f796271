package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kostku_backend/internals/features/payments/midtrans/model"
)

// NotificationPayload = field notifikasi Midtrans yang dipakai. Payload utuh tetap disimpan mentah.
type NotificationPayload struct {
	OrderID           string `json:"order_id" form:"order_id"`
	StatusCode        string `json:"status_code" form:"status_code"`
	GrossAmount       string `json:"gross_amount" form:"gross_amount"`
	SignatureKey      string `json:"signature_key" form:"signature_key"`
	TransactionStatus string `json:"transaction_status" form:"transaction_status"`
	FraudStatus       string `json:"fraud_status" form:"fraud_status"`
	TransactionID     string `json:"transaction_id" form:"transaction_id"`
	PaymentType       string `json:"payment_type" form:"payment_type"`
	TransactionTime   string `json:"transaction_time" form:"transaction_time"`
	SettlementTime    string `json:"settlement_time" form:"settlement_time"`
}

type PaymentResponse struct {
	PaymentID     uuid.UUID       `json:"payment_id"`
	BillID        uuid.UUID       `json:"bill_id"`
	OrderID       string          `json:"order_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	Status        string          `json:"status"`
	SnapToken     *string         `json:"snap_token,omitempty"`
	RedirectURL   *string         `json:"redirect_url,omitempty"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func FromModel(p *model.BillPaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		BillID:        p.PaymentBillID,
		OrderID:       p.PaymentOrderID,
		GrossAmount:   p.PaymentGrossAmount,
		Status:        p.PaymentStatus,
		SnapToken:     p.PaymentSnapToken,
		RedirectURL:   p.PaymentRedirectURL,
		TransactionID: p.PaymentTransactionID,
		PaidAt:        p.PaymentPaidAt,
		CreatedAt:     p.PaymentCreatedAt,
	}
}

func FromModels(rows []model.BillPaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
