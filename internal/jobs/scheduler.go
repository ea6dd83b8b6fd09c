package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"RiverCampDash/api/reports"
	"RiverCampDash/internal/booking"
	"RiverCampDash/internal/config"
	"RiverCampDash/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// ReprocessConfig controls the scheduled reprocess of the stored raw row
// set. The job keeps dashboards current after rule-file changes without a
// manual reprocess request.
type ReprocessConfig struct {
	Schedule string
	TimeZone string
	Rules    booking.Rules
}

// CronService schedules background jobs for the reporting stack.
type CronService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, pool *pgxpool.Pool) *CronService {
	return &CronService{config: cfg, pool: pool}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	cfg := ReprocessConfig{
		Schedule: config.DefaultReprocessSchedule,
		TimeZone: config.DefaultTimeZone,
	}
	if s.config != nil {
		if v, ok := s.config["reprocess_schedule"].(string); ok && v != "" {
			cfg.Schedule = v
		}
		if v, ok := s.config["timezone"].(string); ok && v != "" {
			cfg.TimeZone = v
		}
	}
	rulesFile, _ := s.config["rules_file"].(string)
	rules, err := booking.LoadRules(rulesFile)
	if err != nil {
		return fmt.Errorf("cron service: %w", err)
	}
	cfg.Rules = rules

	c, err := RunReprocessScheduler(cfg, s.pool)
	if err != nil {
		return err
	}
	s.cron = c
	logger.Audit("Cron service started with reprocess schedule " + cfg.Schedule)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

// RunReprocessScheduler registers and starts the nightly reprocess job.
func RunReprocessScheduler(cfg ReprocessConfig, pool *pgxpool.Pool) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
		logger.Audit(fmt.Sprintf("Invalid timezone %s, falling back to UTC: %v", cfg.TimeZone, err))
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := ReprocessStoredData(cfg.Rules, pool); err != nil {
			log.Printf("ERROR: scheduled reprocess failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("unable to schedule reprocess job: %v", err)
	}

	c.Start()
	log.Printf("Reprocess scheduler started: %s (%s)", cfg.Schedule, cfg.TimeZone)
	return c, nil
}

// ReprocessStoredData reruns the pipeline over the active raw batch and
// refreshes the snapshot. No stored data is a quiet skip, not a failure.
func ReprocessStoredData(rules booking.Rules, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	unlock := reports.LockWrites()
	defer unlock()

	records, batchID, err := reports.LoadActiveRecords(ctx, pool)
	if errors.Is(err, booking.ErrNoRawData) {
		logger.Audit("Scheduled reprocess skipped: no raw data uploaded yet")
		return nil
	}
	if err != nil {
		return err
	}

	snap := booking.NewPipeline(rules).Run(records)
	if err := reports.SaveSnapshot(ctx, pool, snap); err != nil {
		return err
	}
	logger.Audit(fmt.Sprintf("Scheduled reprocess of batch %s complete: %d bookings",
		batchID, snap.Summary.TotalBookings))
	return nil
}
