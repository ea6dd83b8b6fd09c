package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"RiverCampDash/internal/booking"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage keeps one active raw row set (the latest upload batch) and a
// single dashboard snapshot document.

var writeMu sync.Mutex

// LockWrites serializes the upload and reprocess write paths. A reprocess
// reads the active batch and writes the snapshot in separate round-trips, so
// without the lock an upload committing in between would leave the snapshot
// computed from a retired batch. Callers hold the lock across the full
// read-compute-write span and release via the returned func.
func LockWrites() func() {
	writeMu.Lock()
	return writeMu.Unlock
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS report_uploads (
	upload_batch_id uuid PRIMARY KEY,
	filename        text NOT NULL,
	total_rows      integer NOT NULL,
	uploaded_at     timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS raw_bookings (
	upload_batch_id uuid NOT NULL REFERENCES report_uploads(upload_batch_id) ON DELETE CASCADE,
	row_index       integer NOT NULL,
	record          jsonb NOT NULL,
	PRIMARY KEY (upload_batch_id, row_index)
);
CREATE TABLE IF NOT EXISTS dashboard_snapshots (
	id           integer PRIMARY KEY,
	payload      jsonb NOT NULL,
	last_updated timestamptz NOT NULL,
	processed_ts bigint NOT NULL
);
`

// EnsureSchema creates the reporting tables if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaDDL)
	return err
}

// SaveUpload stores a new raw row set and retires every previous batch's raw
// rows: an upload wholly replaces the active data. The report_uploads
// metadata rows are kept as upload history for the summary endpoint.
func SaveUpload(ctx context.Context, pool *pgxpool.Pool, batchID, filename string, records []booking.RawRecord) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO report_uploads (upload_batch_id, filename, total_rows) VALUES ($1, $2, $3)`,
		batchID, filename, len(records)); err != nil {
		return fmt.Errorf("register upload: %w", err)
	}

	copyRows := make([][]interface{}, len(records))
	for i, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		copyRows[i] = []interface{}{batchID, i, payload}
	}
	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"raw_bookings"},
		[]string{"upload_batch_id", "row_index", "record"},
		pgx.CopyFromRows(copyRows),
	); err != nil {
		return fmt.Errorf("stage raw rows: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM raw_bookings WHERE upload_batch_id <> $1`, batchID); err != nil {
		return fmt.Errorf("retire old batches: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadActiveRecords returns the raw rows of the active (latest) batch in
// upload order. booking.ErrNoRawData when nothing has been uploaded.
func LoadActiveRecords(ctx context.Context, pool *pgxpool.Pool) ([]booking.RawRecord, string, error) {
	var batchID string
	err := pool.QueryRow(ctx,
		`SELECT upload_batch_id FROM report_uploads ORDER BY uploaded_at DESC LIMIT 1`,
	).Scan(&batchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", booking.ErrNoRawData
	}
	if err != nil {
		return nil, "", fmt.Errorf("load active batch: %w", err)
	}

	rows, err := pool.Query(ctx,
		`SELECT record FROM raw_bookings WHERE upload_batch_id = $1 ORDER BY row_index`, batchID)
	if err != nil {
		return nil, "", fmt.Errorf("load raw rows: %w", err)
	}
	defer rows.Close()

	var records []booking.RawRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, "", fmt.Errorf("scan raw row: %w", err)
		}
		var rec booking.RawRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, "", fmt.Errorf("decode raw row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", booking.ErrNoRawData
	}
	return records, batchID, nil
}

// SaveSnapshot upserts the single dashboard snapshot document.
func SaveSnapshot(ctx context.Context, pool *pgxpool.Pool, snap *booking.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	lastUpdated, err := time.Parse(time.RFC3339, snap.LastUpdated)
	if err != nil {
		lastUpdated = time.Now().UTC()
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO dashboard_snapshots (id, payload, last_updated, processed_ts)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    last_updated = EXCLUDED.last_updated,
		    processed_ts = EXCLUDED.processed_ts
	`, payload, lastUpdated, snap.ProcessedTimestamp)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored snapshot JSON verbatim, or
// booking.ErrNoRawData when no snapshot has been computed yet.
func LoadSnapshot(ctx context.Context, pool *pgxpool.Pool) (json.RawMessage, error) {
	var payload []byte
	err := pool.QueryRow(ctx,
		`SELECT payload FROM dashboard_snapshots WHERE id = 1`,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrNoRawData
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return payload, nil
}

// UploadStats describes the active batch for the summary endpoint, plus the
// number of uploads recorded in the history.
type UploadStats struct {
	BatchID     string    `json:"batch_id"`
	Filename    string    `json:"filename"`
	TotalRows   int       `json:"total_rows"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploadCount int       `json:"upload_count"`
}

// LoadUploadStats returns metadata for the active (latest) batch.
func LoadUploadStats(ctx context.Context, pool *pgxpool.Pool) (*UploadStats, error) {
	var stats UploadStats
	err := pool.QueryRow(ctx, `
		SELECT upload_batch_id, filename, total_rows, uploaded_at,
		       (SELECT count(*) FROM report_uploads)
		FROM report_uploads ORDER BY uploaded_at DESC LIMIT 1
	`).Scan(&stats.BatchID, &stats.Filename, &stats.TotalRows, &stats.UploadedAt, &stats.UploadCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, booking.ErrNoRawData
	}
	if err != nil {
		return nil, fmt.Errorf("load upload stats: %w", err)
	}
	return &stats, nil
}
