package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DriftReporter surfaces how many pending reservations have silently gone
// stale. Expiry itself stays lazy on the read path; this job only makes
// the drift visible.
type DriftReporter interface {
	ReportPendingDrift(ctx context.Context) (int, error)
}

var driftReporter DriftReporter

// SetDriftReporter installs the DriftReporter implementation.
func SetDriftReporter(reporter DriftReporter) {
	driftReporter = reporter
}

// InitCronJobs registers and starts the background jobs.
func InitCronJobs(c *cron.Cron) error {
	// Hourly drift report
	_, err := c.AddFunc("0 * * * *", func() {
		if driftReporter == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		count, err := driftReporter.ReportPendingDrift(ctx)
		if err != nil {
			log.Printf("Failed to report pending drift: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Drift report: %d pending reservations past their slot time", count)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
