package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kostku_backend/internals/constants"
	"kostku_backend/internals/databases/dbtest"
	billModel "kostku_backend/internals/features/billing/bills/model"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/payments/midtrans/dto"
	"kostku_backend/internals/features/payments/midtrans/model"
)

const serverKey = "SB-Mid-server-test"

type fakeSnap struct {
	reqs []*snap.Request
	fail bool
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.reqs = append(f.reqs, req)
	if f.fail {
		return nil, &midtrans.Error{Message: "gateway down", StatusCode: 503}
	}
	return &snap.Response{Token: "snap-token-1", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token-1"}, nil
}

type payFixture struct {
	db     *gorm.DB
	svc    *PaymentService
	snap   *fakeSnap
	bill   *billModel.BillModel
	tenant billService.Actor
	owner  billService.Actor
	other  billService.Actor
}

func newPayFixture(t *testing.T) *payFixture {
	t.Helper()
	db := dbtest.Open(t)
	owner := dbtest.CreateUser(t, db, constants.RoleOwner)
	other := dbtest.CreateUser(t, db, constants.RoleTenant)
	tu := dbtest.CreateUser(t, db, constants.RoleTenant)
	prop := dbtest.CreateProperty(t, db, owner.UserID)
	tenant := dbtest.CreateTenant(t, db, owner.UserID, &tu.UserID)
	room := dbtest.CreateRoom(t, db, prop.PropertyID, dbtest.RoomOpts{Name: "B-07", TenantID: &tenant.TenantID})
	bill := dbtest.CreateBill(t, db, room.RoomID, tenant.TenantID, "2026-02", false)

	clock := func() time.Time { return time.Date(2026, 2, 3, 1, 0, 0, 0, time.UTC) }
	bills := billService.NewService(billService.NewGormStore(db), billService.WithClock(clock))
	fs := &fakeSnap{}
	svc := NewPaymentService(db, bills, fs, serverKey)
	// tiap transaksi dapat detik berbeda supaya order id unik
	tick := 0
	svc.now = func() time.Time {
		tick++
		return clock().Add(time.Duration(tick) * time.Second)
	}

	return &payFixture{
		db:     db,
		svc:    svc,
		snap:   fs,
		bill:   bill,
		tenant: billService.Actor{UserID: tu.UserID, Role: constants.RoleTenant},
		owner:  billService.Actor{UserID: owner.UserID, Role: constants.RoleOwner},
		other:  billService.Actor{UserID: other.UserID, Role: constants.RoleTenant},
	}
}

func notification(orderID, status, gross string) dto.NotificationPayload {
	p := dto.NotificationPayload{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		TransactionStatus: status,
		TransactionID:     "trx-" + orderID,
		SettlementTime:    "2026-02-03 09:15:00",
	}
	p.SignatureKey = Signature(p.OrderID, p.StatusCode, p.GrossAmount, serverKey)
	return p
}

func TestCreatePayment(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	p, err := f.svc.CreatePayment(ctx, f.tenant, f.bill.BillID)
	require.NoError(t, err)
	assert.Equal(t, OrderID(f.bill.BillID, time.Date(2026, 2, 3, 1, 0, 1, 0, time.UTC)), p.PaymentOrderID)
	assert.Regexp(t, `^KOST-[0-9A-F]{8}-\d+$`, p.PaymentOrderID)
	assert.True(t, decimal.NewFromInt(3_050_000).Equal(p.PaymentGrossAmount))
	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
	require.NotNil(t, p.PaymentSnapToken)
	assert.Equal(t, "snap-token-1", *p.PaymentSnapToken)

	require.Len(t, f.snap.reqs, 1)
	req := f.snap.reqs[0]
	assert.Equal(t, int64(3_050_000), req.TransactionDetails.GrossAmt)
	require.NotNil(t, req.CustomerDetail)
	assert.Equal(t, "Budi Santoso", req.CustomerDetail.FName)

	// owner boleh membuatkan transaksi
	_, err = f.svc.CreatePayment(ctx, f.owner, f.bill.BillID)
	require.NoError(t, err)

	// penghuni lain tidak
	_, err = f.svc.CreatePayment(ctx, f.other, f.bill.BillID)
	assert.ErrorIs(t, err, billService.ErrForbidden)

	rows, err := f.svc.ListPayments(ctx, f.tenant, f.bill.BillID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCreatePaymentRejections(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	f.snap.fail = true
	_, err := f.svc.CreatePayment(ctx, f.tenant, f.bill.BillID)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	var n int64
	require.NoError(t, f.db.Model(&model.BillPaymentModel{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = f.svc.CreatePayment(ctx, f.tenant, uuid.New())
	assert.ErrorIs(t, err, billService.ErrBillNotFound)

	require.NoError(t, f.db.Model(&billModel.BillModel{}).Where("bill_id = ?", f.bill.BillID).Update("bill_is_paid", true).Error)
	f.snap.fail = false
	_, err = f.svc.CreatePayment(ctx, f.tenant, f.bill.BillID)
	assert.ErrorIs(t, err, ErrBillAlreadyPaid)

	disabled := NewPaymentService(f.db, nil, nil, "")
	_, err = disabled.CreatePayment(ctx, f.tenant, f.bill.BillID)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestHandleNotificationSettlement(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()
	p, err := f.svc.CreatePayment(ctx, f.tenant, f.bill.BillID)
	require.NoError(t, err)

	n := notification(p.PaymentOrderID, "settlement", "3050000.00")
	got, err := f.svc.HandleNotification(ctx, n, []byte(`{"order_id":"`+p.PaymentOrderID+`"}`))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	require.NotNil(t, got.PaymentPaidAt)
	assert.Equal(t, time.Date(2026, 2, 3, 2, 15, 0, 0, time.UTC), *got.PaymentPaidAt)

	var bill billModel.BillModel
	require.NoError(t, f.db.Where("bill_id = ?", f.bill.BillID).Take(&bill).Error)
	assert.True(t, bill.BillIsPaid)

	var stored model.BillPaymentModel
	require.NoError(t, f.db.Where("payment_order_id = ?", p.PaymentOrderID).Take(&stored).Error)
	require.NotNil(t, stored.PaymentTransactionID)
	assert.Equal(t, "trx-"+p.PaymentOrderID, *stored.PaymentTransactionID)
	assert.JSONEq(t, `{"order_id":"`+p.PaymentOrderID+`"}`, string(stored.PaymentPayload))

	// notifikasi ulang (bahkan status lain) tidak mengubah transaksi lunas
	again, err := f.svc.HandleNotification(ctx, notification(p.PaymentOrderID, "expire", "3050000.00"), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, again.PaymentStatus)
}

func TestHandleNotificationRetryMarksBillPaid(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()
	p, err := f.svc.CreatePayment(ctx, f.tenant, f.bill.BillID)
	require.NoError(t, err)

	// tagihan lunas lain di periode yang sama bikin MarkPaid gagal sekali
	blocker := dbtest.CreateBill(t, f.db, f.bill.BillRoomID, f.bill.BillTenantID, f.bill.BillPeriod, true)

	n := notification(p.PaymentOrderID, "settlement", "3050000.00")
	got, err := f.svc.HandleNotification(ctx, n, []byte(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, billService.ErrPaidBillConflict)
	require.NotNil(t, got)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)

	var bill billModel.BillModel
	require.NoError(t, f.db.Where("bill_id = ?", f.bill.BillID).Take(&bill).Error)
	assert.False(t, bill.BillIsPaid)

	require.NoError(t, f.db.Where("bill_id = ?", blocker.BillID).Delete(&billModel.BillModel{}).Error)

	got, err = f.svc.HandleNotification(ctx, n, []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)

	require.NoError(t, f.db.Where("bill_id = ?", f.bill.BillID).Take(&bill).Error)
	assert.True(t, bill.BillIsPaid)
	require.NotNil(t, bill.BillPaidAt)
}

func TestHandleNotificationNonPaidStatuses(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	cases := map[string]string{
		"expire":  model.PaymentStatusExpired,
		"cancel":  model.PaymentStatusCancel,
		"deny":    model.PaymentStatusDenied,
		"pending": model.PaymentStatusPending,
	}
	for status, want := range cases {
		p, err := f.svc.CreatePayment(ctx, f.tenant, f.bill.BillID)
		require.NoError(t, err)

		got, err := f.svc.HandleNotification(ctx, notification(p.PaymentOrderID, status, "3050000.00"), []byte(`{}`))
		require.NoError(t, err, status)
		assert.Equal(t, want, got.PaymentStatus, status)
	}

	var bill billModel.BillModel
	require.NoError(t, f.db.Where("bill_id = ?", f.bill.BillID).Take(&bill).Error)
	assert.False(t, bill.BillIsPaid)
}

func TestHandleNotificationRejects(t *testing.T) {
	f := newPayFixture(t)
	ctx := context.Background()

	bad := notification("KOST-ABC-1", "settlement", "100.00")
	bad.SignatureKey = "deadbeef"
	_, err := f.svc.HandleNotification(ctx, bad, nil)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = f.svc.HandleNotification(ctx, notification("KOST-TIDAK-ADA", "settlement", "100.00"), nil)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestMapStatusAndSignature(t *testing.T) {
	assert.Equal(t, model.PaymentStatusPaid, MapStatus("capture", "accept"))
	assert.Equal(t, model.PaymentStatusPending, MapStatus("capture", "challenge"))
	assert.Equal(t, model.PaymentStatusPaid, MapStatus("SETTLEMENT", ""))
	assert.Equal(t, "", MapStatus("refund", ""))

	sig := Signature("ORDER-1", "200", "10000.00", "key")
	assert.Len(t, sig, 128)
	assert.True(t, VerifySignature(dto.NotificationPayload{
		OrderID: "ORDER-1", StatusCode: "200", GrossAmount: "10000.00", SignatureKey: sig,
	}, "key"))
	assert.False(t, VerifySignature(dto.NotificationPayload{
		OrderID: "ORDER-1", StatusCode: "200", GrossAmount: "10000.01", SignatureKey: sig,
	}, "key"))

	assert.True(t, decimal.NewFromInt(1_645_162).Equal(GrossAmount(decimal.RequireFromString("1645161.29"))))
}
