package exports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type pdfLine struct {
	label  string
	note   string
	amount decimal.Decimal
}

func statementLines(s *Statement) []pdfLine {
	b := s.Bill
	lines := []pdfLine{
		{label: "Sewa kamar", note: s.ProrationNote(), amount: b.BillRoomPrice},
		{
			label:  "Listrik",
			note:   fmt.Sprintf("%d kWh x %s (%d -> %d)", b.BillConsumptionKwh, FormatRupiah(b.BillCostPerKwh), b.BillMeterStart, b.BillMeterEnd),
			amount: b.BillUsageCost,
		},
		{label: "Air", amount: b.BillWaterFee},
	}
	if !b.BillTrashFee.IsZero() {
		lines = append(lines, pdfLine{label: "Sampah", amount: b.BillTrashFee})
	}
	if !b.BillAdditionalCost.IsZero() {
		lines = append(lines, pdfLine{label: "Biaya tambahan", amount: b.BillAdditionalCost})
	}
	if b.BillMonthsCovered > 1 {
		lines[0].note = joinNote(lines[0].note, fmt.Sprintf("%d bulan", b.BillMonthsCovered))
	}
	return lines
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + ", " + b
}

// RenderPDF menulis invoice satu tagihan.
func RenderPDF(w io.Writer, s *Statement) error {
	b := s.Bill

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tagihan "+b.ShortID(), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "TAGIHAN KOST")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	header := [][2]string{
		{"No. Tagihan", "INV-" + b.ShortID()},
		{"Properti", s.PropertyName},
		{"Alamat", s.PropertyAddress},
		{"Kamar", s.RoomName},
		{"Penghuni", s.TenantName},
		{"Periode", s.PeriodLabel()},
		{"Dibuat", b.BillCreatedAt.Format("02-01-2006")},
	}
	for _, h := range header {
		if h[1] == "" {
			continue
		}
		pdf.CellFormat(35, 6, h[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, ": "+h[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(50, 7, "Komponen", "1", 0, "L", true, 0, "")
	pdf.CellFormat(85, 7, "Keterangan", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, "Jumlah", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, l := range statementLines(s) {
		pdf.CellFormat(50, 7, l.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(85, 7, l.note, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, FormatRupiah(l.amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(135, 8, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, FormatRupiah(b.BillTotalAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	status := "BELUM LUNAS"
	if b.BillIsPaid {
		status = "LUNAS"
		if b.BillPaidAt != nil {
			status += " (" + b.BillPaidAt.In(time.Local).Format("02-01-2006 15:04") + ")"
		}
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Status: "+status)

	return pdf.Output(w)
}
