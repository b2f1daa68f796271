package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"kostku_backend/internals/features/payments/midtrans/dto"
	"kostku_backend/internals/features/payments/midtrans/model"
)

// SnapCreator = bagian snap.Client yang dipakai; di test diganti fake.
type SnapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// NewSnapClient: sandbox kecuali useProd.
func NewSnapClient(serverKey string, useProd bool) *snap.Client {
	env := midtrans.Sandbox
	if useProd {
		env = midtrans.Production
	}
	var c snap.Client
	c.New(serverKey, env)
	return &c
}

// Signature = sha512(order_id + status_code + gross_amount + server_key), hex.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(p dto.NotificationPayload, serverKey string) bool {
	if p.SignatureKey == "" || serverKey == "" {
		return false
	}
	want := Signature(p.OrderID, p.StatusCode, p.GrossAmount, serverKey)
	return strings.EqualFold(want, strings.TrimSpace(p.SignatureKey))
}

// MapStatus: status Midtrans -> status pembayaran internal. "" = tidak diproses.
func MapStatus(txStatus, fraudStatus string) string {
	switch strings.ToLower(txStatus) {
	case "capture", "settlement":
		if strings.EqualFold(txStatus, "capture") && strings.EqualFold(fraudStatus, "challenge") {
			return model.PaymentStatusPending
		}
		return model.PaymentStatusPaid
	case "pending":
		return model.PaymentStatusPending
	case "expire":
		return model.PaymentStatusExpired
	case "cancel":
		return model.PaymentStatusCancel
	case "deny":
		return model.PaymentStatusDenied
	default:
		return ""
	}
}
