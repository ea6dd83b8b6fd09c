package reports

import (
	"errors"
	"net/http"

	"RiverCampDash/api/constants"
	"RiverCampDash/internal/booking"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetDashboardData serves the persisted snapshot verbatim.
func GetDashboardData(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := LoadSnapshot(r.Context(), pool)
		if errors.Is(err, booking.ErrNoRawData) {
			respondWithError(w, http.StatusNotFound, constants.ErrNoDashboardData)
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard data: "+err.Error())
			return
		}
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	}
}

// GetUploadSummary reports the active batch metadata.
func GetUploadSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := LoadUploadStats(r.Context(), pool)
		if errors.Is(err, booking.ErrNoRawData) {
			respondWithError(w, http.StatusNotFound, constants.ErrNoRawData)
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to load upload summary: "+err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, stats)
	}
}
