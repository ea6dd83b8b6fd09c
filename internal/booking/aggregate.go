package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const unknownKey = "Unknown"

// Summary holds the scalar totals over the whole processed row set.
type Summary struct {
	TotalBookings      int             `json:"total_bookings"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
	TotalBedNights     int             `json:"total_bed_nights"`
	TotalPax           int             `json:"total_pax"`
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalDisbursements decimal.Decimal `json:"total_disbursements"`
	IncomeGenerating   int             `json:"income_generating"`
	NonIncomeGen       int             `json:"non_income_generating"`
}

// Bucket is the summed-metric record behind the per-dimension views
// (status, booking class, source, agent).
type Bucket struct {
	Count         int             `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
	BedNights     int             `json:"bed_nights"`
	Pax           int             `json:"pax"`
	Accommodation decimal.Decimal `json:"accommodation"`
	Income        decimal.Decimal `json:"income"`
	Disbursements decimal.Decimal `json:"disbursements"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// TrendBucket backs the "YYYY-MM" revenue trend view.
type TrendBucket struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Bookings  int             `json:"bookings"`
	BedNights int             `json:"bed_nights"`
}

// PeriodBucket is the fuller metric set carried by the yearly and monthly
// breakdowns, where the innermost key (status or class) makes count implicit.
type PeriodBucket struct {
	BedNights     int             `json:"bed_nights"`
	Accommodation decimal.Decimal `json:"accommodation"`
	Income        decimal.Decimal `json:"income"`
	Disbursements decimal.Decimal `json:"disbursements"`
	RevenueTotal  decimal.Decimal `json:"revenue_total"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// CombinedBucket backs the class+status joint breakdowns. It exists so a
// consumer filtering on both dimensions reads one pre-joined table instead
// of intersecting two independently-keyed ones.
type CombinedBucket struct {
	Count         int             `json:"count"`
	Pax           int             `json:"pax"`
	BedNights     int             `json:"bed_nights"`
	Accommodation decimal.Decimal `json:"accommodation"`
	Income        decimal.Decimal `json:"income"`
	Disbursements decimal.Decimal `json:"disbursements"`
	RevenueTotal  decimal.Decimal `json:"revenue_total"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// BookingDetail is the lightweight row projection listed per month for
// drill-down display.
type BookingDetail struct {
	ReservationNumber string          `json:"reservation_number"`
	Name              string          `json:"name"`
	Status            string          `json:"status"`
	BookingClass      string          `json:"booking_class"`
	ArrivalDate       string          `json:"arrival_date"`
	DepartureDate     string          `json:"departure_date"`
	BedNights         int             `json:"bed_nights"`
	Pax               int             `json:"pax"`
	Accommodation     decimal.Decimal `json:"accommodation"`
	Income            decimal.Decimal `json:"income"`
	Disbursements     decimal.Decimal `json:"disbursements"`
	RevenueTotal      decimal.Decimal `json:"revenue_total"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	Agent             string          `json:"agent"`
	Source            string          `json:"source"`
}

// Snapshot is the full aggregate output of one pipeline run. The storage
// layer persists it verbatim and the dashboard consumes it verbatim.
type Snapshot struct {
	Summary        Summary            `json:"summary"`
	ByStatus       map[string]*Bucket `json:"by_status"`
	ByBookingClass map[string]*Bucket `json:"by_booking_class"`
	BySource       map[string]*Bucket `json:"by_source"`
	ByAgent        map[string]*Bucket `json:"by_agent"`

	RevenueTrends map[string]*TrendBucket `json:"revenue_trends"`

	YearlyBreakdown         map[string]map[string]*PeriodBucket            `json:"yearly_breakdown"`
	MonthlyBreakdown        map[string]map[string]map[string]*PeriodBucket `json:"monthly_breakdown"`
	YearlyBreakdownByClass  map[string]map[string]*PeriodBucket            `json:"yearly_breakdown_by_class"`
	MonthlyBreakdownByClass map[string]map[string]map[string]*PeriodBucket `json:"monthly_breakdown_by_class"`

	YearlyBreakdownCombined  map[string]map[string]map[string]*CombinedBucket            `json:"yearly_breakdown_combined"`
	MonthlyBreakdownCombined map[string]map[string]map[string]map[string]*CombinedBucket `json:"monthly_breakdown_combined"`

	MonthlyBookings map[string]map[string][]BookingDetail `json:"monthly_bookings"`

	LastUpdated        string `json:"lastUpdated"`
	ProcessedTimestamp int64  `json:"processedTimestamp"`
}

// NewSnapshot returns an empty, well-formed snapshot: all maps allocated so
// an empty input still serializes as empty objects, not nulls.
func NewSnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		ByStatus:                 map[string]*Bucket{},
		ByBookingClass:           map[string]*Bucket{},
		BySource:                 map[string]*Bucket{},
		ByAgent:                  map[string]*Bucket{},
		RevenueTrends:            map[string]*TrendBucket{},
		YearlyBreakdown:          map[string]map[string]*PeriodBucket{},
		MonthlyBreakdown:         map[string]map[string]map[string]*PeriodBucket{},
		YearlyBreakdownByClass:   map[string]map[string]*PeriodBucket{},
		MonthlyBreakdownByClass:  map[string]map[string]map[string]*PeriodBucket{},
		YearlyBreakdownCombined:  map[string]map[string]map[string]*CombinedBucket{},
		MonthlyBreakdownCombined: map[string]map[string]map[string]map[string]*CombinedBucket{},
		MonthlyBookings:          map[string]map[string][]BookingDetail{},
		LastUpdated:              at.UTC().Format(time.RFC3339),
		ProcessedTimestamp:       at.UnixMilli(),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownKey
	}
	return s
}

func (b *Bucket) add(row Row) {
	b.Count++
	b.Revenue = b.Revenue.Add(row.RevenueTotal)
	b.BedNights += row.BedNights
	b.Pax += row.Pax
	b.Accommodation = b.Accommodation.Add(row.Accommodation)
	b.Income = b.Income.Add(row.Income)
	b.Disbursements = b.Disbursements.Add(row.Disbursements)
	b.Outstanding = b.Outstanding.Add(row.Outstanding)
}

func (b *PeriodBucket) add(row Row) {
	b.BedNights += row.BedNights
	b.Accommodation = b.Accommodation.Add(row.Accommodation)
	b.Income = b.Income.Add(row.Income)
	b.Disbursements = b.Disbursements.Add(row.Disbursements)
	b.RevenueTotal = b.RevenueTotal.Add(row.RevenueTotal)
	b.Outstanding = b.Outstanding.Add(row.Outstanding)
}

func (b *CombinedBucket) add(row Row) {
	b.Count++
	b.Pax += row.Pax
	b.BedNights += row.BedNights
	b.Accommodation = b.Accommodation.Add(row.Accommodation)
	b.Income = b.Income.Add(row.Income)
	b.Disbursements = b.Disbursements.Add(row.Disbursements)
	b.RevenueTotal = b.RevenueTotal.Add(row.RevenueTotal)
	b.Outstanding = b.Outstanding.Add(row.Outstanding)
}

func bucketFor(m map[string]*Bucket, key string) *Bucket {
	b, ok := m[key]
	if !ok {
		b = &Bucket{}
		m[key] = b
	}
	return b
}

func periodBucketFor(m map[string]map[string]*PeriodBucket, year, key string) *PeriodBucket {
	inner, ok := m[year]
	if !ok {
		inner = map[string]*PeriodBucket{}
		m[year] = inner
	}
	b, ok := inner[key]
	if !ok {
		b = &PeriodBucket{}
		inner[key] = b
	}
	return b
}

func monthPeriodBucketFor(m map[string]map[string]map[string]*PeriodBucket, year, month, key string) *PeriodBucket {
	byMonth, ok := m[year]
	if !ok {
		byMonth = map[string]map[string]*PeriodBucket{}
		m[year] = byMonth
	}
	inner, ok := byMonth[month]
	if !ok {
		inner = map[string]*PeriodBucket{}
		byMonth[month] = inner
	}
	b, ok := inner[key]
	if !ok {
		b = &PeriodBucket{}
		inner[key] = b
	}
	return b
}

func combinedBucketFor(m map[string]map[string]map[string]*CombinedBucket, year, class, status string) *CombinedBucket {
	byClass, ok := m[year]
	if !ok {
		byClass = map[string]map[string]*CombinedBucket{}
		m[year] = byClass
	}
	byStatus, ok := byClass[class]
	if !ok {
		byStatus = map[string]*CombinedBucket{}
		byClass[class] = byStatus
	}
	b, ok := byStatus[status]
	if !ok {
		b = &CombinedBucket{}
		byStatus[status] = b
	}
	return b
}

func monthCombinedBucketFor(m map[string]map[string]map[string]map[string]*CombinedBucket, year, month, class, status string) *CombinedBucket {
	byMonth, ok := m[year]
	if !ok {
		byMonth = map[string]map[string]map[string]*CombinedBucket{}
		m[year] = byMonth
	}
	byClass, ok := byMonth[month]
	if !ok {
		byClass = map[string]map[string]*CombinedBucket{}
		byMonth[month] = byClass
	}
	byStatus, ok := byClass[class]
	if !ok {
		byStatus = map[string]*CombinedBucket{}
		byClass[class] = byStatus
	}
	b, ok := byStatus[status]
	if !ok {
		b = &CombinedBucket{}
		byStatus[status] = b
	}
	return b
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func (row Row) detail() BookingDetail {
	return BookingDetail{
		ReservationNumber: row.ReservationNumber,
		Name:              row.ReservationName,
		Status:            row.Status,
		BookingClass:      string(row.Class),
		ArrivalDate:       formatDate(row.ArrivalDate),
		DepartureDate:     formatDate(row.DepartureDate),
		BedNights:         row.BedNights,
		Pax:               row.Pax,
		Accommodation:     row.Accommodation,
		Income:            row.Income,
		Disbursements:     row.Disbursements,
		RevenueTotal:      row.RevenueTotal,
		Outstanding:       row.Outstanding,
		Agent:             row.Agent,
		Source:            row.Source,
	}
}

// Aggregate folds the processed row set into every view in one pass over the
// input, in input order. Building all views from the same fold keeps them
// consistent with each other: summary totals equal the sums of each
// dimension's buckets for rows that carry that dimension. Rows without a
// parseable arrival date contribute to the non-time views only.
func Aggregate(rows []Row, at time.Time) *Snapshot {
	snap := NewSnapshot(at)

	for _, row := range rows {
		snap.Summary.TotalBookings++
		snap.Summary.TotalRevenue = snap.Summary.TotalRevenue.Add(row.RevenueTotal)
		snap.Summary.TotalOutstanding = snap.Summary.TotalOutstanding.Add(row.Outstanding)
		snap.Summary.TotalBedNights += row.BedNights
		snap.Summary.TotalPax += row.Pax
		snap.Summary.TotalIncome = snap.Summary.TotalIncome.Add(row.Income)
		snap.Summary.TotalDisbursements = snap.Summary.TotalDisbursements.Add(row.Disbursements)
		switch row.Class {
		case IncomeGenerating:
			snap.Summary.IncomeGenerating++
		case NonIncomeGenerating:
			snap.Summary.NonIncomeGen++
		}

		status := orUnknown(row.Status)
		class := orUnknown(string(row.Class))
		bucketFor(snap.ByStatus, status).add(row)
		bucketFor(snap.ByBookingClass, class).add(row)
		bucketFor(snap.BySource, orUnknown(row.Source)).add(row)
		bucketFor(snap.ByAgent, orUnknown(row.Agent)).add(row)

		if row.ArrivalDate == nil {
			continue
		}
		year := fmt.Sprintf("%04d", row.ArrivalDate.Year())
		month := fmt.Sprintf("%02d", int(row.ArrivalDate.Month()))

		trendKey := year + "-" + month
		trend, ok := snap.RevenueTrends[trendKey]
		if !ok {
			trend = &TrendBucket{}
			snap.RevenueTrends[trendKey] = trend
		}
		trend.Revenue = trend.Revenue.Add(row.RevenueTotal)
		trend.Bookings++
		trend.BedNights += row.BedNights

		periodBucketFor(snap.YearlyBreakdown, year, status).add(row)
		periodBucketFor(snap.YearlyBreakdownByClass, year, class).add(row)
		monthPeriodBucketFor(snap.MonthlyBreakdown, year, month, status).add(row)
		monthPeriodBucketFor(snap.MonthlyBreakdownByClass, year, month, class).add(row)
		combinedBucketFor(snap.YearlyBreakdownCombined, year, class, status).add(row)
		monthCombinedBucketFor(snap.MonthlyBreakdownCombined, year, month, class, status).add(row)

		byMonth, ok := snap.MonthlyBookings[year]
		if !ok {
			byMonth = map[string][]BookingDetail{}
			snap.MonthlyBookings[year] = byMonth
		}
		byMonth[month] = append(byMonth[month], row.detail())
	}

	return snap
}
