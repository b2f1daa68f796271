// file: internals/features/payments/midtrans/service/payment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/exports"
	"kostku_backend/internals/features/payments/midtrans/dto"
	"kostku_backend/internals/features/payments/midtrans/model"
)

var (
	ErrBillAlreadyPaid    = errors.New("tagihan sudah lunas")
	ErrPaymentNotFound    = errors.New("transaksi pembayaran tidak ditemukan")
	ErrInvalidSignature   = errors.New("signature notifikasi tidak valid")
	ErrGatewayUnavailable = errors.New("payment gateway tidak tersedia")
)

type PaymentService struct {
	db        *gorm.DB
	bills     *billService.Service
	snap      SnapCreator
	serverKey string
	now       func() time.Time
}

func NewPaymentService(db *gorm.DB, bills *billService.Service, snapClient SnapCreator, serverKey string) *PaymentService {
	return &PaymentService{
		db:        db,
		bills:     bills,
		snap:      snapClient,
		serverKey: serverKey,
		now:       time.Now,
	}
}

// Enabled: false bila server key belum diset.
func (s *PaymentService) Enabled() bool {
	return s.snap != nil && s.serverKey != ""
}

// OrderID: KOST-<8 char pertama bill id>-<unix>.
func OrderID(billID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("KOST-%s-%d", strings.ToUpper(billID.String()[:8]), at.Unix())
}

// GrossAmount: Midtrans menerima rupiah bulat; pecahan sen dibulatkan ke atas.
func GrossAmount(total decimal.Decimal) decimal.Decimal {
	return total.Ceil()
}

// CreatePayment membuat transaksi Snap untuk tagihan yang belum lunas.
// Penghuni hanya bisa membayar tagihannya sendiri; owner boleh membuatkan untuk penghuninya.
func (s *PaymentService) CreatePayment(ctx context.Context, actor billService.Actor, billID uuid.UUID) (*model.BillPaymentModel, error) {
	if !s.Enabled() {
		return nil, ErrGatewayUnavailable
	}

	bill, err := s.bills.Get(ctx, actor, billID)
	if err != nil {
		return nil, err
	}
	if bill.BillIsPaid {
		return nil, ErrBillAlreadyPaid
	}

	st, err := exports.LoadStatement(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	gross := GrossAmount(bill.BillTotalAmount)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  OrderID(billID, now),
			GrossAmt: gross.IntPart(),
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    bill.BillID.String()[:8],
			Name:  truncate("Sewa "+st.RoomName+" "+st.PeriodLabel(), 50),
			Price: gross.IntPart(),
			Qty:   1,
		}},
	}
	if st.TenantName != "" || st.TenantEmail != "" {
		req.CustomerDetail = &midtrans.CustomerDetails{
			FName: st.TenantName,
			Email: st.TenantEmail,
			Phone: st.TenantPhone,
		}
	}

	resp, merr := s.snap.CreateTransaction(req)
	if merr != nil {
		log.Error().Str("bill_id", billID.String()).Str("error", merr.Message).Int("status", merr.StatusCode).Msg("midtrans create transaction gagal")
		return nil, ErrGatewayUnavailable
	}

	p := &model.BillPaymentModel{
		PaymentBillID:      billID,
		PaymentOrderID:     req.TransactionDetails.OrderID,
		PaymentGrossAmount: gross,
		PaymentStatus:      model.PaymentStatusPending,
		PaymentSnapToken:   nonEmpty(resp.Token),
		PaymentRedirectURL: nonEmpty(resp.RedirectURL),
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}

	log.Info().
		Str("bill_id", billID.String()).
		Str("order_id", p.PaymentOrderID).
		Str("gross", gross.String()).
		Msg("transaksi midtrans dibuat")
	return p, nil
}

// ListPayments: riwayat transaksi satu tagihan (akses mengikuti akses tagihan).
func (s *PaymentService) ListPayments(ctx context.Context, actor billService.Actor, billID uuid.UUID) ([]model.BillPaymentModel, error) {
	if _, err := s.bills.Get(ctx, actor, billID); err != nil {
		return nil, err
	}
	var rows []model.BillPaymentModel
	err := s.db.WithContext(ctx).
		Where("payment_bill_id = ?", billID).
		Order("payment_created_at DESC").
		Find(&rows).Error
	return rows, err
}

// HandleNotification memproses notifikasi Midtrans. Idempoten: notifikasi ulang untuk
// transaksi yang sudah lunas tidak mengubah transaksi, tapi tagihan yang belum
// ikut lunas (percobaan sebelumnya gagal) ditandai lagi.
func (s *PaymentService) HandleNotification(ctx context.Context, p dto.NotificationPayload, raw []byte) (*model.BillPaymentModel, error) {
	if !VerifySignature(p, s.serverKey) {
		return nil, ErrInvalidSignature
	}

	status := MapStatus(p.TransactionStatus, p.FraudStatus)

	var (
		out     *model.BillPaymentModel
		newPaid bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pay model.BillPaymentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("payment_order_id = ?", p.OrderID).
			Take(&pay).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		updates := map[string]any{"payment_payload": datatypes.JSON(raw)}
		if p.TransactionID != "" {
			updates["payment_transaction_id"] = p.TransactionID
		}

		switch {
		case pay.PaymentStatus == model.PaymentStatusPaid:
			// sudah final; hanya payload terbaru yang disimpan
		case status == "":
			log.Info().Str("order_id", p.OrderID).Str("status", p.TransactionStatus).Msg("status midtrans tidak diproses")
		default:
			updates["payment_status"] = status
			pay.PaymentStatus = status
			if status == model.PaymentStatusPaid {
				at := paidAt(p, s.now())
				updates["payment_paid_at"] = at
				pay.PaymentPaidAt = &at
				newPaid = true
			}
		}

		if err := tx.Model(&model.BillPaymentModel{}).
			Where("payment_id = ?", pay.PaymentID).
			Updates(updates).Error; err != nil {
			return err
		}
		out = &pay
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newPaid && !GrossAmount(out.PaymentGrossAmount).Equal(parseAmount(p.GrossAmount)) {
		log.Warn().Str("order_id", p.OrderID).Str("gross", p.GrossAmount).Msg("gross_amount notifikasi berbeda dari transaksi")
	}
	if out.PaymentStatus == model.PaymentStatusPaid {
		// MarkPaid idempoten, jadi retry Midtrans bisa menyusulkan tagihan yang tertinggal
		if _, err := s.bills.MarkPaid(ctx, billService.SystemActor, out.PaymentBillID, "midtrans"); err != nil {
			return out, err
		}
	}
	return out, nil
}

func paidAt(p dto.NotificationPayload, fallback time.Time) time.Time {
	const layout = "2006-01-02 15:04:05"
	// waktu Midtrans dalam WIB
	wib := time.FixedZone("WIB", 7*3600)
	for _, s := range []string{p.SettlementTime, p.TransactionTime} {
		if s == "" {
			continue
		}
		if t, err := time.ParseInLocation(layout, s, wib); err == nil {
			return t.UTC()
		}
	}
	return fallback.UTC()
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
