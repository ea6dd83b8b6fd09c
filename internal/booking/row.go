package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Dashboard clients consume the snapshot as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// RawRecord is one parsed report row: column header -> cell value, exactly as
// exported by the booking system. Columns beyond the fixed schema are
// open-ended revenue-line items.
type RawRecord map[string]string

// BookingClass is the derived income categorization of a reservation.
type BookingClass string

const (
	IncomeGenerating    BookingClass = "Income Generating"
	NonIncomeGenerating BookingClass = "Non-Income Generating"
)

// Fixed schema headers in the booking report export.
const (
	ColProperty          = "Property"
	ColReservationNumber = "Reservation #"
	ColReservationName   = "Reservation name"
	ColStatus            = "Status"
	ColAgent             = "Agent"
	ColSource            = "Source"
	ColArrivalDate       = "Arrival date"
	ColDepartureDate     = "Departure date"
	ColPax               = "PAX"
	ColBedNights         = "Bed nights"
	ColAccommodation     = "Accommodation"
	ColRevenueTotal      = "Revenue Total"
	ColOutstanding       = "Total amount outstanding"
)

// Row is a normalized booking record. The fixed schema is typed; every
// original column (revenue-line items included) stays raw in Extra so that
// derived figures are always recomputed from source values.
type Row struct {
	Property          string
	ReservationNumber string
	ReservationName   string
	Status            string
	Agent             string
	Source            string
	ArrivalDate       *time.Time
	DepartureDate     *time.Time
	Pax               int
	BedNights         int
	Accommodation     decimal.Decimal
	RevenueTotal      decimal.Decimal
	Outstanding       decimal.Decimal

	// Extra holds the full raw record, keyed by column header.
	Extra RawRecord

	// Derived by the pipeline, never present in raw input.
	Class         BookingClass
	Income        decimal.Decimal
	Disbursements decimal.Decimal
}

// Date layouts seen in booking report exports. The native export format is
// "2 Jan 2006"; the rest cover re-saved and hand-edited files.
var dateLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
}

// ParseDate parses a report date cell. Returns nil on empty or unparseable
// input: such rows stay in the non-time aggregates but drop out of every
// time-bucketed view.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseDecimal parses a money cell, tolerating thousands separators and
// surrounding whitespace. Malformed or absent values are zero, never an
// error: financial columns are routinely sparse in the source data.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseInt parses a count cell. Exports sometimes carry counts as decimals
// ("2.0"); those truncate. Malformed values are zero.
func ParseInt(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return int(d.IntPart())
	}
	return 0
}

// Normalize coerces one raw record into a typed Row. It never fails:
// malformed numerics degrade to zero and malformed dates to nil.
func Normalize(rec RawRecord) Row {
	return Row{
		Property:          strings.TrimSpace(rec[ColProperty]),
		ReservationNumber: strings.TrimSpace(rec[ColReservationNumber]),
		ReservationName:   strings.TrimSpace(rec[ColReservationName]),
		Status:            strings.TrimSpace(rec[ColStatus]),
		Agent:             strings.TrimSpace(rec[ColAgent]),
		Source:            strings.TrimSpace(rec[ColSource]),
		ArrivalDate:       ParseDate(rec[ColArrivalDate]),
		DepartureDate:     ParseDate(rec[ColDepartureDate]),
		Pax:               ParseInt(rec[ColPax]),
		BedNights:         ParseInt(rec[ColBedNights]),
		Accommodation:     ParseDecimal(rec[ColAccommodation]),
		RevenueTotal:      ParseDecimal(rec[ColRevenueTotal]),
		Outstanding:       ParseDecimal(rec[ColOutstanding]),
		Extra:             rec,
	}
}

// NormalizeAll maps records to rows, preserving input order.
func NormalizeAll(records []RawRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Normalize(rec))
	}
	return rows
}
