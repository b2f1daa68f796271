package reminders

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kostku_backend/internals/constants"
	"kostku_backend/internals/databases/dbtest"
	billModel "kostku_backend/internals/features/billing/bills/model"
	"kostku_backend/internals/features/billing/exports"
)

func statement() *exports.Statement {
	return &exports.Statement{
		Bill: billModel.BillModel{
			BillPeriod:         "2026-01",
			BillMonthsCovered:  1,
			BillIsProrated:     true,
			BillDaysOccupied:   17,
			BillDaysInMonth:    31,
			BillConsumptionKwh: 50,
			BillRoomPrice:      decimal.RequireFromString("1645161.29"),
			BillUsageCost:      decimal.NewFromInt(75000),
			BillWaterFee:       decimal.RequireFromString("27419.35"),
			BillTrashFee:       decimal.Zero,
			BillAdditionalCost: decimal.Zero,
			BillTotalAmount:    decimal.RequireFromString("1747580.64"),
		},
		RoomName:     "A-01",
		PropertyName: "Kost Melati",
		TenantName:   "Budi",
		TenantPhone:  "0812-3456-7890",
	}
}

func TestRenderDefaultTemplates(t *testing.T) {
	tpl, err := LoadTemplates("")
	require.NoError(t, err)

	m, err := tpl.Render(statement())
	require.NoError(t, err)

	assert.Contains(t, m.WhatsApp, "Halo Budi,")
	assert.Contains(t, m.WhatsApp, "Sewa kamar: Rp 1.645.161,29 (prorata 17/31 hari)")
	assert.Contains(t, m.WhatsApp, "Listrik (50 kWh): Rp 75.000")
	assert.Contains(t, m.WhatsApp, "Total: *Rp 1.747.580,64*")
	assert.NotContains(t, m.WhatsApp, "Sampah", "tanpa layanan sampah")
	assert.NotContains(t, m.WhatsApp, "Biaya tambahan")
	assert.Contains(t, m.WhatsApp, "Mohon segera")

	assert.Contains(t, m.Telegram, "<b>Tagihan Kost Melati / A-01</b>")
	assert.Equal(t, "Tagihan kost Kost Melati periode 2026-01", m.EmailSubject)
	assert.Contains(t, m.EmailBody, "belum dibayar")
}

func TestRenderPaidWithFees(t *testing.T) {
	tpl, err := LoadTemplates("")
	require.NoError(t, err)

	st := statement()
	st.TenantName = ""
	st.Bill.BillIsPaid = true
	st.Bill.BillTrashFee = decimal.RequireFromString("13709.68")
	st.Bill.BillAdditionalCost = decimal.NewFromInt(20000)

	m, err := tpl.Render(st)
	require.NoError(t, err)
	assert.Contains(t, m.WhatsApp, "Halo Penghuni,")
	assert.Contains(t, m.WhatsApp, "- Sampah: Rp 13.709,68")
	assert.Contains(t, m.WhatsApp, "- Biaya tambahan: Rp 20.000")
	assert.Contains(t, m.WhatsApp, "Status: LUNAS")
	assert.Contains(t, m.Telegram, "Status: LUNAS")
}

func TestRenderEscapesHTMLChannels(t *testing.T) {
	tpl, err := LoadTemplates("")
	require.NoError(t, err)

	st := statement()
	st.PropertyName = "Kost A&B <Lt 2>"
	st.TenantName = "<script>x</script>"

	m, err := tpl.Render(st)
	require.NoError(t, err)

	assert.Contains(t, m.Telegram, "<b>Tagihan Kost A&amp;B &lt;Lt 2&gt; / A-01</b>")
	assert.Contains(t, m.EmailBody, "<p>Halo &lt;script&gt;x&lt;/script&gt;,</p>")
	assert.NotContains(t, m.EmailBody, "<script>")

	// WhatsApp dan subject teks biasa, tidak di-escape
	assert.Contains(t, m.WhatsApp, "Halo <script>x</script>,")
	assert.Equal(t, "Tagihan kost Kost A&B <Lt 2> periode 2026-01", m.EmailSubject)
}

func TestLoadTemplatesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("email_subject: \"[{{.RoomName}}] {{.Total}}\"\n"), 0o600))

	tpl, err := LoadTemplates(path)
	require.NoError(t, err)
	m, err := tpl.Render(statement())
	require.NoError(t, err)
	assert.Equal(t, "[A-01] Rp 1.747.580,64", m.EmailSubject)
	assert.Contains(t, m.WhatsApp, "Halo Budi,", "field lain tetap bawaan")

	_, err = LoadTemplates(filepath.Join(t.TempDir(), "tidak-ada.yaml"))
	assert.Error(t, err)

	_, err = Compile(TemplateSet{WhatsApp: "{{.Rusak"})
	assert.Error(t, err)
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"081234567890":     "6281234567890",
		"+62 812-3456-789": "628123456789",
		"8123":             "628123",
		"6281":             "6281",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/6281234567890?text=Halo%20Budi%0ATotal%3A%20Rp%201.000",
		WhatsAppLink("081234567890", "Halo Budi\nTotal: Rp 1.000"))
	assert.Equal(t, "https://wa.me/?text=hai", WhatsAppLink("", "hai"))
}

type fakeSender struct {
	channel string
	can     func(*exports.Statement) bool
	err     error
	sent    []Message
}

func (f *fakeSender) Channel() string                   { return f.channel }
func (f *fakeSender) CanSend(s *exports.Statement) bool { return f.can(s) }
func (f *fakeSender) Send(_ context.Context, _ *exports.Statement, m Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func TestJobRunOnce(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.CreateUser(t, db, constants.RoleOwner)
	prop := dbtest.CreateProperty(t, db, owner.UserID)
	tenant := dbtest.CreateTenant(t, db, owner.UserID, nil)
	room := dbtest.CreateRoom(t, db, prop.PropertyID, dbtest.RoomOpts{Name: "A-01", TenantID: &tenant.TenantID})
	vacant := dbtest.CreateRoom(t, db, prop.PropertyID, dbtest.RoomOpts{Name: "A-02"})

	dbtest.CreateBill(t, db, room.RoomID, tenant.TenantID, "2026-01", false)
	dbtest.CreateBill(t, db, room.RoomID, tenant.TenantID, "2025-12", true)
	dbtest.CreateBill(t, db, vacant.RoomID, vacant.RoomID, "2026-01", false)
	dbtest.CreateBill(t, db, room.RoomID, tenant.TenantID, "2026-03", false)

	tpl, err := LoadTemplates("")
	require.NoError(t, err)

	withPhone := &fakeSender{channel: "wa", can: func(s *exports.Statement) bool { return s.TenantPhone != "" }}
	broken := &fakeSender{channel: "email", can: func(*exports.Statement) bool { return true }, err: errors.New("smtp down")}

	job := NewJob(db, tpl, withPhone, broken)
	job.now = func() time.Time { return time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC) }

	stats, err := job.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Bills, "hanya tagihan belum lunas sampai 2026-01")
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 1, stats.Fallback, "kamar kosong tanpa kontak jatuh ke log")
	require.Len(t, withPhone.sent, 1)
	assert.Contains(t, withPhone.sent[0].WhatsApp, "Halo Budi Santoso,")
}

func TestJobRunOncePagesThroughAllBills(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.CreateUser(t, db, constants.RoleOwner)
	prop := dbtest.CreateProperty(t, db, owner.UserID)
	a := dbtest.CreateRoom(t, db, prop.PropertyID, dbtest.RoomOpts{Name: "A-01"})
	b := dbtest.CreateRoom(t, db, prop.PropertyID, dbtest.RoomOpts{Name: "B-01"})
	dbtest.CreateBill(t, db, a.RoomID, a.RoomID, "2026-01", false)
	dbtest.CreateBill(t, db, b.RoomID, b.RoomID, "2026-01", false)
	dbtest.CreateBill(t, db, b.RoomID, b.RoomID, "2025-12", false)

	tpl, err := LoadTemplates("")
	require.NoError(t, err)

	perRoom := map[string]int{}
	all := &fakeSender{channel: "wa", can: func(s *exports.Statement) bool {
		perRoom[s.RoomName]++
		return true
	}}

	job := NewJob(db, tpl, all)
	job.batch = 1
	job.now = func() time.Time { return time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC) }

	for i := 0; i < 2; i++ {
		stats, err := job.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Bills)
		assert.Equal(t, 3, stats.Sent)
	}
	assert.Equal(t, map[string]int{"A-01": 2, "B-01": 4}, perRoom)
	assert.Len(t, all.sent, 6)
}

func TestJobStartRejectsBadSchedule(t *testing.T) {
	tpl, err := LoadTemplates("")
	require.NoError(t, err)
	_, err = NewJob(nil, tpl).Start("bukan cron")
	assert.Error(t, err)
}
