package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"RiverCampDash/api/constants"
	"RiverCampDash/internal/booking"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

func respondWithError(w http.ResponseWriter, status int, errMsg string) {
	log.Println("[ERROR]", errMsg)
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   errMsg,
	})
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// StartReportsService runs the booking analytics HTTP service. Request-level
// write serialization (one upload or reprocess at a time against the shared
// snapshot) lives in this layer, not the engine: the upload and reprocess
// handlers and the scheduled reprocess all hold LockWrites across their
// read-compute-write span.
func StartReportsService(port int, rules booking.Rules, pool *pgxpool.Pool, db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := EnsureSchema(ctx, pool); err != nil {
		cancel()
		log.Fatalf("Reports Service schema init failed: %v", err)
	}
	cancel()

	r := mux.NewRouter()
	r.HandleFunc("/reports/hello", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("Hello from Reports Service"))
	}).Methods("GET")

	r.HandleFunc("/reports/upload", UploadReport(pool, rules)).Methods("POST")
	r.HandleFunc("/reports/process", ReprocessData(pool, rules)).Methods("POST")
	r.HandleFunc("/reports/data", GetDashboardData(pool)).Methods("GET")
	r.HandleFunc("/reports/summary", GetUploadSummary(pool)).Methods("GET")
	r.HandleFunc("/reports/health", HealthCheck(db)).Methods("GET")

	addr := fmt.Sprintf(":%d", port)
	log.Println("Reports Service started on", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Reports Service failed: %v", err)
	}
}

// HealthCheck reports service and database health.
func HealthCheck(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		dbStatus := "ok"
		if db == nil {
			dbStatus = "not configured"
		} else if err := db.PingContext(r.Context()); err != nil {
			status = "degraded"
			dbStatus = err.Error()
		}
		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":   status,
			"database": dbStatus,
		})
	}
}
