// Package exports merender tagihan ke PDF/XLSX dan menyiapkan data statement
// (tagihan + nama kamar, properti, penghuni) untuk dokumen dan pengingat.
package exports

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	billModel "kostku_backend/internals/features/billing/bills/model"
)

type Statement struct {
	Bill billModel.BillModel

	RoomName        string
	PropertyName    string
	PropertyAddress string

	TenantName           string
	TenantPhone          string
	TenantEmail          string
	TenantTelegramChatID *int64
}

// PeriodLabel: "2026-01" atau "2026-11 s/d 2027-01".
func (s *Statement) PeriodLabel() string {
	if s.Bill.BillPeriodEnd != nil && *s.Bill.BillPeriodEnd != "" {
		return s.Bill.BillPeriod + " s/d " + *s.Bill.BillPeriodEnd
	}
	return s.Bill.BillPeriod
}

func (s *Statement) ProrationNote() string {
	if !s.Bill.BillIsProrated {
		return ""
	}
	return "prorata " + strconv.Itoa(s.Bill.BillDaysOccupied) + "/" + strconv.Itoa(s.Bill.BillDaysInMonth) + " hari"
}

type statementRow struct {
	billModel.BillModel

	RoomName             string  `gorm:"column:room_name"`
	PropertyName         string  `gorm:"column:property_name"`
	PropertyAddress      *string `gorm:"column:property_address"`
	TenantFullName       *string `gorm:"column:tenant_full_name"`
	TenantPhone          *string `gorm:"column:tenant_phone"`
	TenantEmail          *string `gorm:"column:tenant_email"`
	TenantTelegramChatID *int64  `gorm:"column:tenant_telegram_chat_id"`
}

func (r statementRow) toStatement() Statement {
	return Statement{
		Bill:                 r.BillModel,
		RoomName:             r.RoomName,
		PropertyName:         r.PropertyName,
		PropertyAddress:      deref(r.PropertyAddress),
		TenantName:           deref(r.TenantFullName),
		TenantPhone:          deref(r.TenantPhone),
		TenantEmail:          deref(r.TenantEmail),
		TenantTelegramChatID: r.TenantTelegramChatID,
	}
}

type StatementQuery struct {
	BillID     *uuid.UUID
	OwnerID    *uuid.UUID
	Period     string
	UpToPeriod string
	UnpaidOnly bool
	Limit      int
	Offset     int
}

const statementSelect = `bills.*, rooms.room_name, properties.property_name, properties.property_address,
	tenants.tenant_full_name, tenants.tenant_phone, tenants.tenant_email, tenants.tenant_telegram_chat_id`

// QueryStatements: tenant di-LEFT JOIN karena kamar kosong memakai id kamar sebagai tenant id.
func QueryStatements(ctx context.Context, db *gorm.DB, q StatementQuery) ([]Statement, error) {
	tx := db.WithContext(ctx).
		Table("bills").
		Select(statementSelect).
		Joins("JOIN rooms ON rooms.room_id = bills.bill_room_id").
		Joins("JOIN properties ON properties.property_id = rooms.room_property_id").
		Joins("LEFT JOIN tenants ON tenants.tenant_id = bills.bill_tenant_id")

	if q.BillID != nil {
		tx = tx.Where("bills.bill_id = ?", *q.BillID)
	}
	if q.OwnerID != nil {
		tx = tx.Where("properties.property_owner_id = ?", *q.OwnerID)
	}
	if q.Period != "" {
		tx = tx.Where("bills.bill_period = ?", q.Period)
	}
	if q.UpToPeriod != "" {
		tx = tx.Where("bills.bill_period <= ?", q.UpToPeriod)
	}
	if q.UnpaidOnly {
		tx = tx.Where("bills.bill_is_paid = ?", false)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var rows []statementRow
	if err := tx.Order("properties.property_name ASC, rooms.room_name ASC, bills.bill_period ASC, bills.bill_id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Statement, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toStatement())
	}
	return out, nil
}

var ErrStatementNotFound = errors.New("statement tagihan tidak ditemukan")

func LoadStatement(ctx context.Context, db *gorm.DB, billID uuid.UUID) (*Statement, error) {
	rows, err := QueryStatements(ctx, db, StatementQuery{BillID: &billID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrStatementNotFound
	}
	return &rows[0], nil
}

/* ===================== formatting ===================== */

// FormatRupiah: 1645161.29 -> "Rp 1.645.161,29", 3000000 -> "Rp 3.000.000".
func FormatRupiah(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	out := "Rp " + b.String()
	if frac != "" && frac != "00" {
		out += "," + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
