package exports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var xlsxHeader = []string{
	"No", "Properti", "Kamar", "Penghuni", "Periode", "Bulan", "Prorata",
	"kWh", "Sewa", "Listrik", "Air", "Sampah", "Tambahan", "Total", "Status",
}

// RenderXLSX menulis rekap tagihan satu periode (satu baris per tagihan).
func RenderXLSX(w io.Writer, period string, rows []Statement) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Tagihan " + period
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, h := range xlsxHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(xlsxHeader), 1)
	_ = f.SetCellStyle(sheet, "A1", last, bold)

	for i, s := range rows {
		b := s.Bill
		status := "BELUM LUNAS"
		if b.BillIsPaid {
			status = "LUNAS"
		}
		values := []any{
			i + 1,
			s.PropertyName,
			s.RoomName,
			s.TenantName,
			s.PeriodLabel(),
			b.BillMonthsCovered,
			s.ProrationNote(),
			b.BillConsumptionKwh,
			b.BillRoomPrice.InexactFloat64(),
			b.BillUsageCost.InexactFloat64(),
			b.BillWaterFee.InexactFloat64(),
			b.BillTrashFee.InexactFloat64(),
			b.BillAdditionalCost.InexactFloat64(),
			b.BillTotalAmount.InexactFloat64(),
			status,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}

	if n := len(rows); n > 0 {
		totalRow := n + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("M%d", totalRow), "TOTAL")
		_ = f.SetCellFormula(sheet, fmt.Sprintf("N%d", totalRow), fmt.Sprintf("SUM(N2:N%d)", n+1))
		_ = f.SetCellStyle(sheet, fmt.Sprintf("M%d", totalRow), fmt.Sprintf("N%d", totalRow), bold)
	}
	_ = f.SetColWidth(sheet, "B", "D", 20)

	_, err = f.WriteTo(w)
	return err
}
