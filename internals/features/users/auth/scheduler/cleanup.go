package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	authRepo "kostku_backend/internals/features/users/auth/repository"
	"kostku_backend/internals/observability/metrics"
)

const jobName = "token_blacklist_cleanup"

// RunBlacklistCleanup menghapus token yang sudah expired lebih dari ttlDays hari.
func RunBlacklistCleanup(db *gorm.DB, now time.Time, ttlDays int) (int64, error) {
	if ttlDays < 0 {
		ttlDays = 0
	}
	deleteBefore := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)

	n, err := authRepo.CleanupExpiredBlacklist(db, deleteBefore)
	metrics.UpdateJobMetrics(jobName, err)
	if err != nil {
		log.Error().Err(err).Msg("[CLEANUP] gagal hapus token kadaluarsa")
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("[CLEANUP] token kadaluarsa dihapus")
	} else {
		log.Debug().Msg("[CLEANUP] tidak ada token yang memenuhi syarat dihapus")
	}
	return n, nil
}

// StartBlacklistCleanupScheduler mendaftarkan pembersihan harian (00:30) ke cron.
func StartBlacklistCleanupScheduler(c *cron.Cron, db *gorm.DB, ttlDays int) error {
	_, err := c.AddFunc("30 0 * * *", func() {
		_, _ = RunBlacklistCleanup(db, time.Now().UTC(), ttlDays)
	})
	return err
}
