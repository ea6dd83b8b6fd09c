package reports

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"RiverCampDash/api/constants"
	"RiverCampDash/internal/booking"
	"RiverCampDash/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReprocessData reruns the pipeline over the stored raw row set and
// replaces the dashboard snapshot. Uploading again is not required: this is
// how rule changes get applied to existing data.
func ReprocessData(pool *pgxpool.Pool, rules booking.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		unlock := LockWrites()
		defer unlock()

		records, batchID, err := LoadActiveRecords(ctx, pool)
		if errors.Is(err, booking.ErrNoRawData) {
			respondWithError(w, http.StatusNotFound, constants.ErrNoRawData)
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to load stored data: "+err.Error())
			return
		}

		snap := booking.NewPipeline(rules).Run(records)
		if err := SaveSnapshot(ctx, pool, snap); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to store snapshot: "+err.Error())
			return
		}

		logger.Audit(fmt.Sprintf("Reprocessed batch %s: %d rows in, %d bookings out",
			batchID, len(records), snap.Summary.TotalBookings))
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":   "Data reprocessed successfully",
			"details":   fmt.Sprintf("Processed %d bookings", snap.Summary.TotalBookings),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
