// Package jobs runs the scheduled background work of the lead funnel
package jobs

import (
	"context"
	"fmt"
	"lead_funnel_go/config"
	"lead_funnel_go/models"
	"lead_funnel_go/services"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StatsReader is the part of services.StatsCache the digest needs
type StatsReader interface {
	Stats(ctx context.Context) (*models.LeadStats, error)
}

// StartScheduler schedules the daily digest in Korea time and starts the
// scheduler. Callers stop the returned cron on shutdown.
func StartScheduler(cfg *config.Config, stats StatsReader, mailer services.Mailer) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(models.SeoulLocation))

	_, err := c.AddFunc(cfg.DailyDigestSchedule, func() {
		log.Println("[CRON] Sending daily lead digest...")
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeoutOrDefault(cfg.OutboundTimeout))
		defer cancel()
		if err := SendDailyDigest(ctx, cfg, stats, mailer, time.Now()); err != nil {
			log.Printf("[CRON] Daily digest failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_DIGEST_SCHEDULE %q: %w", cfg.DailyDigestSchedule, err)
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (digest: %s Asia/Seoul)", cfg.DailyDigestSchedule)
	return c, nil
}

// SendDailyDigest reads the current counts and emails them to the operator
func SendDailyDigest(ctx context.Context, cfg *config.Config, stats StatsReader, mailer services.Mailer, now time.Time) error {
	if mailer == nil {
		return services.ErrMailerNotConfigured
	}

	current, err := stats.Stats(ctx)
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	email, err := services.BuildDailyDigestEmail(cfg, current, now)
	if err != nil {
		return err
	}
	if err := mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("send digest via %s: %w", mailer.Name(), err)
	}

	log.Printf("[CRON] Daily digest sent: total=%d last30=%d", current.TotalCount, current.Last30DaysCount)
	return nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Second
	}
	return d
}
