package reminders

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"kostku_backend/internals/features/billing/engine"
	"kostku_backend/internals/features/billing/exports"
	"kostku_backend/internals/observability/metrics"
)

const (
	jobName      = "bill_reminder"
	defaultBatch = 500
)

// Job mengirim pengingat untuk semua tagihan belum lunas sampai periode berjalan.
type Job struct {
	db       *gorm.DB
	tpl      *Templates
	senders  []Sender
	fallback Sender
	now      func() time.Time
	batch    int
}

func NewJob(db *gorm.DB, tpl *Templates, senders ...Sender) *Job {
	return &Job{
		db:       db,
		tpl:      tpl,
		senders:  senders,
		fallback: LogSender{},
		now:      time.Now,
		batch:    defaultBatch,
	}
}

type RunStats struct {
	Bills    int
	Sent     int
	Failed   int
	Fallback int
}

func (j *Job) RunOnce(ctx context.Context) (RunStats, error) {
	var stats RunStats
	current := engine.PeriodOf(j.now()).String()

	batch := j.batch
	if batch <= 0 {
		batch = defaultBatch
	}

	// halaman demi halaman sampai habis
	for offset := 0; ; offset += batch {
		rows, err := exports.QueryStatements(ctx, j.db, exports.StatementQuery{
			UpToPeriod: current,
			UnpaidOnly: true,
			Limit:      batch,
			Offset:     offset,
		})
		if err != nil {
			metrics.UpdateJobMetrics(jobName, err)
			return stats, err
		}
		stats.Bills += len(rows)

		for i := range rows {
			j.remind(ctx, &rows[i], &stats)
		}
		if len(rows) < batch {
			break
		}
	}

	metrics.UpdateJobMetrics(jobName, nil)
	log.Info().Int("bills", stats.Bills).Int("sent", stats.Sent).Int("failed", stats.Failed).Msg("[REMINDER] selesai")
	return stats, nil
}

func (j *Job) remind(ctx context.Context, st *exports.Statement, stats *RunStats) {
	msg, err := j.tpl.Render(st)
	if err != nil {
		stats.Failed++
		log.Error().Err(err).Str("bill_id", st.Bill.BillID.String()).Msg("render pengingat gagal")
		return
	}

	delivered := false
	for _, s := range j.senders {
		if !s.CanSend(st) {
			continue
		}
		if err := s.Send(ctx, st, msg); err != nil {
			stats.Failed++
			log.Warn().Err(err).Str("channel", s.Channel()).Str("bill_id", st.Bill.BillID.String()).Msg("kirim pengingat gagal")
			continue
		}
		stats.Sent++
		delivered = true
	}
	if !delivered {
		stats.Fallback++
		_ = j.fallback.Send(ctx, st, msg)
	}
}

// Start menjadwalkan RunOnce sesuai spec cron (mis. "0 9 * * *").
func (j *Job) Start(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("[REMINDER] job gagal")
		}
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("schedule", spec).Int("senders", len(j.senders)).Msg("[REMINDER] started")
	c.Start()
	return c, nil
}
