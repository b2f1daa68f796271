package exports

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	billModel "kostku_backend/internals/features/billing/bills/model"
)

func sampleStatement() Statement {
	end := "2026-03"
	return Statement{
		Bill: billModel.BillModel{
			BillID:             uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001"),
			BillPeriod:         "2026-01",
			BillPeriodEnd:      &end,
			BillMonthsCovered:  3,
			BillIsProrated:     true,
			BillDaysOccupied:   17,
			BillDaysInMonth:    31,
			BillMeterStart:     100,
			BillMeterEnd:       150,
			BillConsumptionKwh: 50,
			BillCostPerKwh:     decimal.RequireFromString("1500"),
			BillRoomPrice:      decimal.RequireFromString("7645161.29"),
			BillUsageCost:      decimal.RequireFromString("75000"),
			BillWaterFee:       decimal.RequireFromString("127419.35"),
			BillTrashFee:       decimal.RequireFromString("63709.68"),
			BillAdditionalCost: decimal.Zero,
			BillTotalAmount:    decimal.RequireFromString("7911290.32"),
			BillCreatedAt:      time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
		},
		RoomName:     "A-01",
		PropertyName: "Kost Melati",
		TenantName:   "Budi",
		TenantPhone:  "081234567890",
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := map[string]string{
		"1645161.29": "Rp 1.645.161,29",
		"3000000":    "Rp 3.000.000",
		"75000":      "Rp 75.000",
		"999":        "Rp 999",
		"0":          "Rp 0",
		"1000.5":     "Rp 1.000,50",
		"-2500":      "-Rp 2.500",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatRupiah(decimal.RequireFromString(in)), in)
	}
}

func TestStatementLabels(t *testing.T) {
	s := sampleStatement()
	assert.Equal(t, "2026-01 s/d 2026-03", s.PeriodLabel())
	assert.Equal(t, "prorata 17/31 hari", s.ProrationNote())

	s.Bill.BillPeriodEnd = nil
	s.Bill.BillIsProrated = false
	assert.Equal(t, "2026-01", s.PeriodLabel())
	assert.Empty(t, s.ProrationNote())
}

func TestRenderPDF(t *testing.T) {
	s := sampleStatement()
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, &s))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderXLSX(t *testing.T) {
	s := sampleStatement()
	var buf bytes.Buffer
	require.NoError(t, RenderXLSX(&buf, "2026-01", []Statement{s}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Tagihan 2026-01"
	v, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "No", v)

	v, _ = f.GetCellValue(sheet, "C2")
	assert.Equal(t, "A-01", v)
	v, _ = f.GetCellValue(sheet, "O2")
	assert.Equal(t, "BELUM LUNAS", v)
	v, _ = f.GetCellValue(sheet, "M3")
	assert.Equal(t, "TOTAL", v)
}
