// Package jobs schedules the monthly freight-cost batch.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"FreightRecon/internal/config"
	"FreightRecon/internal/freight"
	"FreightRecon/internal/logger"
	"FreightRecon/internal/serviceiface"
)

// CronService triggers a run for the previous calendar month on the
// configured schedule.
type CronService struct {
	config map[string]interface{}
	runner *freight.Runner
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, runner *freight.Runner) serviceiface.Service {
	return &CronService{config: cfg, runner: runner}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	schedule := config.DefaultRunSchedule
	timezone := config.DefaultTimeZone
	if s.config != nil {
		if v, ok := s.config["schedule"].(string); ok && v != "" {
			schedule = v
		}
		if v, ok := s.config["timezone"].(string); ok && v != "" {
			timezone = v
		}
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q for cron service: %w", timezone, err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(schedule, func() {
		period := freight.PreviousPeriod(time.Now().In(loc))
		logger.Audit(fmt.Sprintf("scheduled freight run triggered for period %s", period))
		if _, err := s.runner.RunPeriod(context.Background(), period); err != nil {
			logger.Audit(fmt.Sprintf("scheduled freight run for %s failed: %v", period, err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule freight run (%q): %w", schedule, err)
	}
	c.Start()
	s.cron = c

	log.Printf("[cron] monthly freight run scheduled (%s, %s)", schedule, timezone)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	log.Println("[cron] stopped")
	return nil
}
