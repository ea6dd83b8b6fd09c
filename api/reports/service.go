package reports

import (
	"database/sql"
	"fmt"
	"os"

	"RiverCampDash/internal/booking"
	"RiverCampDash/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportsService hosts the booking analytics endpoints on its own port,
// fronted by the gateway.
type ReportsService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	db     *sql.DB
}

func NewReportsService(cfg map[string]interface{}, pool *pgxpool.Pool, db *sql.DB) serviceiface.Service {
	return &ReportsService{config: cfg, pool: pool, db: db}
}

func (s *ReportsService) Name() string {
	return "reports"
}

func (s *ReportsService) Start() error {
	rulesFile := os.Getenv("RULES_FILE")
	if rulesFile == "" {
		if v, ok := s.config["rules_file"].(string); ok {
			rulesFile = v
		}
	}
	rules, err := booking.LoadRules(rulesFile)
	if err != nil {
		return fmt.Errorf("reports service: %w", err)
	}

	port := 4143
	if v, ok := s.config["port"].(int); ok && v > 0 {
		port = v
	}

	go StartReportsService(port, rules, s.pool, s.db)
	return nil
}

func (s *ReportsService) Stop() error {
	return nil
}
