package booking

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "120.50", "120.5"},
		{"negative", "-33.10", "-33.1"},
		{"thousands separator", "1,234.56", "1234.56"},
		{"whitespace", "  42 ", "42"},
		{"empty", "", "0"},
		{"garbage", "n/a", "0"},
		{"letters after number", "12abc", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.input)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseDecimal(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"plain", "4", 4},
		{"decimal export", "2.0", 2},
		{"thousands separator", "1,200", 1200},
		{"empty", "", 0},
		{"garbage", "two", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseInt(tt.input); got != tt.want {
				t.Errorf("ParseInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string // "" means nil expected
	}{
		{"export format", "15 Mar 2024", "2024-03-15"},
		{"export format padded", "02 Jan 2023", "2023-01-02"},
		{"iso", "2024-03-15", "2024-03-15"},
		{"empty", "", ""},
		{"garbage", "sometime soon", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDate(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if got == nil || got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeMalformedFieldsDegradeSilently(t *testing.T) {
	// Sparse and malformed cells are policy, not errors: numerics become
	// zero and dates become nil.
	row := Normalize(RawRecord{
		ColProperty:          " Baines ",
		ColReservationNumber: "WB1001",
		ColPax:               "not-a-number",
		ColBedNights:         "",
		ColAccommodation:     "oops",
		ColRevenueTotal:      "1,250.00",
		ColArrivalDate:       "never",
	})

	if row.Property != "Baines" {
		t.Errorf("Property = %q, want trimmed %q", row.Property, "Baines")
	}
	if row.Pax != 0 || row.BedNights != 0 {
		t.Errorf("malformed counts should be zero, got pax=%d bedNights=%d", row.Pax, row.BedNights)
	}
	if !row.Accommodation.IsZero() {
		t.Errorf("malformed accommodation should be zero, got %s", row.Accommodation)
	}
	if !row.RevenueTotal.Equal(decimal.NewFromFloat(1250)) {
		t.Errorf("revenue total = %s, want 1250", row.RevenueTotal)
	}
	if row.ArrivalDate != nil {
		t.Errorf("malformed arrival date should be nil, got %v", row.ArrivalDate)
	}
	if row.Extra[ColReservationNumber] != "WB1001" {
		t.Errorf("raw record should be preserved on the row")
	}
}
