// Package events mengirim event siklus tagihan ke NATS.
package events

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	billModel "kostku_backend/internals/features/billing/bills/model"
)

const (
	SubjectBillGenerated = "kost.bill.generated"
	SubjectBillPaid      = "kost.bill.paid"
)

type BillEvent struct {
	Type          string          `json:"type"`
	BillID        uuid.UUID       `json:"bill_id"`
	RoomID        uuid.UUID       `json:"room_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Period        string          `json:"period"`
	PeriodEnd     *string         `json:"period_end,omitempty"`
	MonthsCovered int             `json:"months_covered"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	IsProrated    bool            `json:"is_prorated"`
	IsPaid        bool            `json:"is_paid"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func newBillEvent(kind string, b *billModel.BillModel, now time.Time) BillEvent {
	return BillEvent{
		Type:          kind,
		BillID:        b.BillID,
		RoomID:        b.BillRoomID,
		TenantID:      b.BillTenantID,
		Period:        b.BillPeriod,
		PeriodEnd:     b.BillPeriodEnd,
		MonthsCovered: b.BillMonthsCovered,
		TotalAmount:   b.BillTotalAmount,
		IsProrated:    b.BillIsProrated,
		IsPaid:        b.BillIsPaid,
		PaidAt:        b.BillPaidAt,
		OccurredAt:    now.UTC(),
	}
}

type publisher interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher memenuhi bills/service.Publisher.
type NATSPublisher struct {
	conn publisher
	now  func() time.Time
}

func NewNATSPublisher(conn publisher) *NATSPublisher {
	return &NATSPublisher{conn: conn, now: time.Now}
}

// Connect membuka koneksi NATS. URL kosong = tidak ada publisher (nil, nil).
func Connect(url string) (*NATSPublisher, *nats.Conn, error) {
	if url == "" {
		return nil, nil, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("kostku-backend"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("[NATS] terputus")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("[NATS] tersambung kembali")
		}),
	)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("url", nc.ConnectedUrl()).Msg("[NATS] connected")
	return NewNATSPublisher(nc), nc, nil
}

func (p *NATSPublisher) publish(subject string, ev BillEvent) error {
	data, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

func (p *NATSPublisher) BillGenerated(_ context.Context, b *billModel.BillModel) error {
	return p.publish(SubjectBillGenerated, newBillEvent("bill.generated", b, p.now()))
}

func (p *NATSPublisher) BillPaid(_ context.Context, b *billModel.BillModel) error {
	return p.publish(SubjectBillPaid, newBillEvent("bill.paid", b, p.now()))
}
