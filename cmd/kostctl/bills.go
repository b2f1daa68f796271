package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	billDTO "kostku_backend/internals/features/billing/bills/dto"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/exports"
)

type generateFlags struct {
	room       string
	period     string
	periodEnd  string
	months     int
	meterStart int64
	meterEnd   int64
	costPerKwh string
	waterFee   string
	trashFee   string
	additional string
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s tidak valid: %w", name, err)
	}
	return d, nil
}

func (f generateFlags) input() (billService.GenerateInput, error) {
	var in billService.GenerateInput
	roomID, err := uuid.Parse(f.room)
	if err != nil {
		return in, fmt.Errorf("--room bukan UUID: %w", err)
	}
	in = billService.GenerateInput{
		RoomID:     roomID,
		Period:     f.period,
		MeterStart: f.meterStart,
		MeterEnd:   f.meterEnd,
	}
	if f.periodEnd != "" {
		end := f.periodEnd
		in.PeriodEnd = &end
	}
	if f.months > 0 {
		m := f.months
		in.MonthsCovered = &m
	}
	if in.CostPerKwh, err = parseAmount("cost-per-kwh", f.costPerKwh); err != nil {
		return in, err
	}
	if in.WaterFee, err = parseAmount("water-fee", f.waterFee); err != nil {
		return in, err
	}
	if in.TrashFee, err = parseAmount("trash-fee", f.trashFee); err != nil {
		return in, err
	}
	if in.AdditionalCost, err = parseAmount("additional", f.additional); err != nil {
		return in, err
	}
	return in, nil
}

func newBillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "Generate dan export tagihan",
	}
	cmd.AddCommand(newBillsGenerateCmd(), newBillsExportCmd())
	return cmd
}

func newBillsGenerateCmd() *cobra.Command {
	var f generateFlags
	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate tagihan satu kamar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			res, err := newBillService(openDB()).Generate(cmd.Context(), billService.SystemActor, in)
			if err != nil {
				if ve, ok := billService.AsValidationError(err); ok {
					return fmt.Errorf("validasi gagal: %v", ve.Fields)
				}
				return err
			}
			return printJSON(cmd, billDTO.FromModel(res.Bill))
		},
	}
	fl := c.Flags()
	fl.StringVar(&f.room, "room", "", "id kamar")
	fl.StringVar(&f.period, "period", "", "periode YYYY-MM")
	fl.StringVar(&f.periodEnd, "period-end", "", "periode akhir YYYY-MM (tagihan multi-bulan)")
	fl.IntVar(&f.months, "months", 0, "jumlah bulan yang ditagih")
	fl.Int64Var(&f.meterStart, "meter-start", 0, "angka meter awal (kWh)")
	fl.Int64Var(&f.meterEnd, "meter-end", 0, "angka meter akhir (kWh)")
	fl.StringVar(&f.costPerKwh, "cost-per-kwh", "", "tarif listrik per kWh")
	fl.StringVar(&f.waterFee, "water-fee", "0", "biaya air per bulan")
	fl.StringVar(&f.trashFee, "trash-fee", "0", "biaya sampah per bulan")
	fl.StringVar(&f.additional, "additional", "0", "biaya tambahan sekali tagih")
	for _, name := range []string{"room", "period", "cost-per-kwh"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func newBillsExportCmd() *cobra.Command {
	var (
		period string
		output string
	)
	c := &cobra.Command{
		Use:   "export",
		Short: "Export tagihan satu periode ke XLSX",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = "tagihan-" + period + ".xlsx"
			}
			rows, err := exports.QueryStatements(cmd.Context(), openDB(), exports.StatementQuery{Period: period})
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := exports.RenderXLSX(f, period, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			cmd.Printf("%d tagihan ditulis ke %s\n", len(rows), output)
			return nil
		},
	}
	c.Flags().StringVar(&period, "period", "", "periode YYYY-MM")
	c.Flags().StringVarP(&output, "output", "o", "", "file tujuan")
	_ = c.MarkFlagRequired("period")
	return c
}
