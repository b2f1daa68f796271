// file: internals/features/billing/bills/service/bill_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	billModel "kostku_backend/internals/features/billing/bills/model"
	"kostku_backend/internals/features/billing/engine"
	"kostku_backend/internals/observability/metrics"
)

// Publisher menerima event setelah transaksi commit.
type Publisher interface {
	BillGenerated(ctx context.Context, b *billModel.BillModel) error
	BillPaid(ctx context.Context, b *billModel.BillModel) error
}

type noopPublisher struct{}

func (noopPublisher) BillGenerated(context.Context, *billModel.BillModel) error { return nil }
func (noopPublisher) BillPaid(context.Context, *billModel.BillModel) error      { return nil }

type Service struct {
	store     Store
	mode      engine.ProrationMode
	publisher Publisher
	now       func() time.Time
}

type Option func(*Service)

func WithProrationMode(m engine.ProrationMode) Option {
	return func(s *Service) { s.mode = m }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		mode:      engine.ProrateFirstMonth,
		publisher: noopPublisher{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Result = tagihan yang tersusun + detail perhitungannya.
type Result struct {
	Bill        *billModel.BillModel
	Calculation engine.Calculation
}

func authorizeRoom(actor Actor, room *RoomSnapshot) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTenant() || room.OwnerID != actor.UserID {
		return ErrForbidden
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrDuplicatePaidBill):
		return "duplicate_paid"
	default:
		if _, ok := AsValidationError(err); ok {
			return "validation"
		}
		return "error"
	}
}

func calculate(v validatedInput, room *RoomSnapshot, mode engine.ProrationMode) (engine.Calculation, error) {
	calc, err := engine.Calculate(engine.Input{
		Room:           room.Room.Rates(),
		MoveInDate:     room.Room.RoomMoveInDate,
		Fees:           v.fees,
		Coverage:       v.coverage,
		Meter:          v.meter,
		AdditionalCost: v.extra,
		Mode:           mode,
	})
	if err != nil {
		ve := &ValidationError{}
		ve.Add("_", err.Error())
		return engine.Calculation{}, ve
	}
	return calc, nil
}

func buildBill(room *RoomSnapshot, v validatedInput, calc engine.Calculation, actor Actor) *billModel.BillModel {
	b := &billModel.BillModel{
		BillRoomID:         room.Room.RoomID,
		BillTenantID:       room.TenantID(),
		BillPeriod:         calc.Coverage.Start.String(),
		BillMonthsCovered:  calc.Coverage.MonthsCovered,
		BillIsProrated:     calc.Proration.Prorated,
		BillDaysOccupied:   int(calc.Proration.Numerator()),
		BillDaysInMonth:    int(calc.Proration.Denominator()),
		BillMeterStart:     v.meter.Start,
		BillMeterEnd:       v.meter.End,
		BillConsumptionKwh: calc.Usage.ConsumptionKwh,
		BillCostPerKwh:     calc.Rates.CostPerKwh,
		BillRoomPrice:      calc.Breakdown.RoomPrice,
		BillUsageCost:      calc.Breakdown.UsageCost,
		BillWaterFee:       calc.Breakdown.WaterFee,
		BillTrashFee:       calc.Breakdown.TrashFee,
		BillAdditionalCost: calc.Breakdown.AdditionalCost,
		BillTotalAmount:    calc.Breakdown.TotalAmount,
	}
	if calc.Coverage.End != nil {
		end := calc.Coverage.End.String()
		b.BillPeriodEnd = &end
	}
	if actor.UserID != uuid.Nil {
		id := actor.UserID
		b.BillCreatedBy = &id
	}
	return b
}

// Generate: validasi -> lookup kamar (row lock) -> cek akses -> guard lunas -> hitung -> simpan.
// Semua dalam satu transaksi; tidak ada yang tersimpan bila salah satu tahap gagal.
func (s *Service) Generate(ctx context.Context, actor Actor, in GenerateInput) (*Result, error) {
	v, err := in.validate()
	if err != nil {
		metrics.ObserveBillRejected(rejectReason(err))
		return nil, err
	}

	var res *Result
	err = s.store.WithinTx(ctx, func(tx Store) error {
		room, err := tx.RoomForBilling(ctx, in.RoomID, true)
		if err != nil {
			return err
		}
		if err := authorizeRoom(actor, room); err != nil {
			return err
		}

		paid, err := tx.HasPaidBill(ctx, room.TenantID(), v.coverage.Start.String())
		if err != nil {
			return err
		}
		if paid {
			return ErrDuplicatePaidBill
		}

		calc, err := calculate(v, room, s.mode)
		if err != nil {
			return err
		}

		bill := buildBill(room, v, calc, actor)
		if err := tx.CreateBill(ctx, bill); err != nil {
			return err
		}
		res = &Result{Bill: bill, Calculation: calc}
		return nil
	})
	if err != nil {
		metrics.ObserveBillRejected(rejectReason(err))
		return nil, err
	}

	metrics.ObserveBillGenerated(res.Calculation.Proration.Prorated)
	if err := s.publisher.BillGenerated(ctx, res.Bill); err != nil {
		log.Warn().Err(err).Str("bill_id", res.Bill.BillID.String()).Msg("publish bill.generated gagal")
	}
	log.Info().
		Str("bill_id", res.Bill.BillID.String()).
		Str("room_id", res.Bill.BillRoomID.String()).
		Str("period", res.Bill.BillPeriod).
		Str("total", res.Bill.BillTotalAmount.String()).
		Bool("prorated", res.Bill.BillIsProrated).
		Msg("tagihan dibuat")
	return res, nil
}

// Preview menghitung tagihan tanpa guard dan tanpa menyimpan.
func (s *Service) Preview(ctx context.Context, actor Actor, in GenerateInput) (*Result, error) {
	v, err := in.validate()
	if err != nil {
		return nil, err
	}
	room, err := s.store.RoomForBilling(ctx, in.RoomID, false)
	if err != nil {
		return nil, err
	}
	if err := authorizeRoom(actor, room); err != nil {
		return nil, err
	}
	calc, err := calculate(v, room, s.mode)
	if err != nil {
		return nil, err
	}
	return &Result{Bill: buildBill(room, v, calc, actor), Calculation: calc}, nil
}

func (s *Service) authorizeBill(ctx context.Context, store Store, actor Actor, b *billModel.BillModel) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTenant() {
		ok, err := store.TenantBelongsToUser(ctx, b.BillTenantID, actor.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}
		return nil
	}
	room, err := store.RoomForBilling(ctx, b.BillRoomID, false)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return ErrForbidden
		}
		return err
	}
	return authorizeRoom(actor, room)
}

func (s *Service) Get(ctx context.Context, actor Actor, billID uuid.UUID) (*billModel.BillModel, error) {
	b, err := s.store.FindBill(ctx, billID, false)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeBill(ctx, s.store, actor, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List discoping otomatis sesuai role: owner -> properti miliknya, tenant -> tagihannya sendiri.
func (s *Service) List(ctx context.Context, actor Actor, f BillFilter) ([]billModel.BillModel, int64, error) {
	f.OwnerID, f.TenantUserID = nil, nil
	switch {
	case actor.IsAdmin():
	case actor.IsTenant():
		id := actor.UserID
		f.TenantUserID = &id
	default:
		id := actor.UserID
		f.OwnerID = &id
	}
	return s.store.ListBills(ctx, f)
}

// MarkPaid idempoten: tagihan yang sudah lunas dikembalikan apa adanya.
func (s *Service) MarkPaid(ctx context.Context, actor Actor, billID uuid.UUID, source string) (*billModel.BillModel, error) {
	return s.setPaid(ctx, actor, billID, true, source)
}

func (s *Service) MarkUnpaid(ctx context.Context, actor Actor, billID uuid.UUID) (*billModel.BillModel, error) {
	return s.setPaid(ctx, actor, billID, false, "")
}

func (s *Service) setPaid(ctx context.Context, actor Actor, billID uuid.UUID, paid bool, source string) (*billModel.BillModel, error) {
	if actor.IsTenant() {
		return nil, ErrForbidden
	}

	var (
		out     *billModel.BillModel
		changed bool
	)
	err := s.store.WithinTx(ctx, func(tx Store) error {
		b, err := tx.FindBill(ctx, billID, true)
		if err != nil {
			return err
		}
		if err := s.authorizeBill(ctx, tx, actor, b); err != nil {
			return err
		}
		if b.BillIsPaid == paid {
			out = b
			return nil
		}

		var at *time.Time
		if paid {
			now := s.now().UTC()
			at = &now
		}
		if err := tx.SetPaid(ctx, billID, paid, at); err != nil {
			return err
		}
		b.BillIsPaid = paid
		b.BillPaidAt = at
		out, changed = b, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed && paid {
		if source == "" {
			source = "manual"
		}
		metrics.ObserveBillPaid(source)
		if err := s.publisher.BillPaid(ctx, out); err != nil {
			log.Warn().Err(err).Str("bill_id", out.BillID.String()).Msg("publish bill.paid gagal")
		}
	}
	return out, nil
}
