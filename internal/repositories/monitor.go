package repositories

import (
	"fmt"

	"gigpay/internal/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartPoolMonitor schedules a periodic log line with the connection pool
// statistics. The caller owns the returned scheduler and must Stop it.
func StartPoolMonitor(db *gorm.DB, log *logger.Logger, spec string) (*cron.Cron, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		stats := sqlDB.Stats()
		log.Info("db pool stats",
			"open", stats.OpenConnections,
			"idle", stats.Idle,
			"in_use", stats.InUse,
			"wait_count", stats.WaitCount,
			"wait_duration", stats.WaitDuration.String(),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid pool stats schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
