package reports

import (
	"encoding/csv"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"RiverCampDash/api/constants"
	"RiverCampDash/internal/booking"
	"RiverCampDash/internal/config"
	"RiverCampDash/internal/logger"

	"github.com/extrame/xls"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

func getFileExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// parseUploadFile reads an uploaded booking report into raw cell rows.
func parseUploadFile(file multipart.File, ext string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(file)
		r.FieldsPerRecord = -1
		return r.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	case ".xls":
		wb, err := xls.OpenReader(file, "utf-8")
		if err != nil {
			return nil, err
		}
		rows := wb.ReadAllCells(1 << 16)
		if len(rows) == 0 {
			return nil, errors.New("empty xls workbook")
		}
		return rows, nil
	}
	return nil, errors.New("unsupported file type")
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == booking.ColReservationNumber {
			return true
		}
	}
	return false
}

// buildRecords turns raw cell rows into string-keyed records. Booking system
// exports carry metadata preamble rows before the header, and split the
// header across two rows: the fixed schema on one, the revenue-line column
// names on a continuation row whose leading cells are blank. Plain
// single-header files (already fixed up) pass through unchanged.
func buildRecords(rows [][]string) ([]booking.RawRecord, error) {
	headerIdx := -1
	for i, row := range rows {
		if isHeaderRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, errors.New("no header row found (missing 'Reservation #' column)")
	}

	header := make([]string, len(rows[headerIdx]))
	copy(header, rows[headerIdx])
	dataStart := headerIdx + 1

	// Continuation header row: revenue-line names with a blank first cell.
	if dataStart < len(rows) && cellAt(rows[dataStart], 0) == "" {
		cont := rows[dataStart]
		for i := range cont {
			val := strings.Trim(strings.TrimSpace(cont[i]), `"`)
			if val == "" || strings.Contains(val, "Unnamed") {
				continue
			}
			if i < len(header) {
				header[i] = val
			} else {
				for len(header) < i {
					header = append(header, "")
				}
				header = append(header, val)
			}
		}
		dataStart++
	}

	records := make([]booking.RawRecord, 0, len(rows)-dataStart)
	for _, row := range rows[dataStart:] {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		rec := booking.RawRecord{}
		for i, name := range header {
			name = strings.TrimSpace(name)
			if name == "" || strings.Contains(name, "Unnamed") {
				continue
			}
			rec[name] = cellAt(row, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// UploadReport ingests a booking report file: parse, run the pipeline, and
// replace the stored raw row set and dashboard snapshot.
func UploadReport(pool *pgxpool.Pool, rules booking.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseMultipartForm(config.UploadMaxBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "Failed to parse multipart form")
			return
		}
		file, fileHeader, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, constants.ErrNoFileUploaded)
			return
		}
		defer file.Close()

		ext := getFileExt(fileHeader.Filename)
		if ext != ".csv" && ext != ".xlsx" && ext != ".xls" {
			respondWithError(w, http.StatusBadRequest, constants.ErrOnlyTabularFiles)
			return
		}

		rows, err := parseUploadFile(file, ext)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Failed to parse the uploaded file. Please check the file format.")
			return
		}
		records, err := buildRecords(rows)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		snap := booking.NewPipeline(rules).Run(records)

		unlock := LockWrites()
		defer unlock()

		batchID := uuid.New().String()
		if err := SaveUpload(ctx, pool, batchID, fileHeader.Filename, records); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to store raw data: "+err.Error())
			return
		}
		if err := SaveSnapshot(ctx, pool, snap); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to store snapshot: "+err.Error())
			return
		}

		logger.Audit("Report uploaded: " + fileHeader.Filename + " batch=" + batchID)
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":        "File uploaded and processed successfully",
			"batch_id":       batchID,
			"rows_received":  len(records),
			"rows_processed": snap.Summary.TotalBookings,
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
