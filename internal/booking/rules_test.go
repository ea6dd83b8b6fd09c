package booking

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testRow(mutate func(*Row)) Row {
	row := Row{
		Property:          "Baines",
		ReservationNumber: "WB1001",
		ReservationName:   "Jane Doe",
		Status:            "Confirmed",
		Source:            "Direct",
		Accommodation:     decimal.NewFromInt(100),
	}
	if mutate != nil {
		mutate(&row)
	}
	return row
}

func TestFilterBannedProperty(t *testing.T) {
	cfg := DefaultRules()
	tests := []struct {
		name     string
		property string
		kept     bool
	}{
		{"exact vessel name", "MV - Matusadona", false},
		{"substring variant", "MV - Matusadona Camp", false},
		{"case-insensitive", "mv - MATUSADONA", false},
		{"other property", "Baines", true},
		{"empty property", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Filter([]Row{testRow(func(r *Row) { r.Property = tt.property })}, cfg)
			if kept := len(rows) == 1; kept != tt.kept {
				t.Errorf("property %q kept = %v, want %v", tt.property, kept, tt.kept)
			}
		})
	}
}

func TestFilterBannedNamesWithExceptions(t *testing.T) {
	cfg := DefaultRules()
	tests := []struct {
		name    string
		resName string
		resNum  string
		source  string
		kept    bool
	}{
		{"clean guest", "Jane Doe", "WB1001", "Direct", true},
		{"staff fragment", "John Scott", "WB1002", "Direct", false},
		{"fragment case-insensitive", "p. FEATHERBY", "WB1003", "Direct", false},
		{"fragment mid-name", "Scottsdale Group", "WB1004", "Direct", false},
		{"reservation number exception", "John Scott", "WB3703", "Direct", true},
		{"return guests source", "John Scott", "WB1005", "Return Guests - repeat", true},
		{"return guests any case", "John Scott", "WB1006", "RETURN GUESTS", true},
		{"exception list is exact match", "John Scott", "WB37030", "Direct", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Filter([]Row{testRow(func(r *Row) {
				r.ReservationName = tt.resName
				r.ReservationNumber = tt.resNum
				r.Source = tt.source
			})}, cfg)
			if kept := len(rows) == 1; kept != tt.kept {
				t.Errorf("row %q/%q/%q kept = %v, want %v", tt.resName, tt.resNum, tt.source, kept, tt.kept)
			}
		})
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	cfg := DefaultRules()
	input := []Row{
		testRow(func(r *Row) { r.ReservationNumber = "WB1" }),
		testRow(func(r *Row) { r.ReservationNumber = "WB2"; r.Property = "MV - Matusadona" }),
		testRow(func(r *Row) { r.ReservationNumber = "WB3" }),
		testRow(func(r *Row) { r.ReservationNumber = "WB4"; r.ReservationName = "Staff booking" }),
		testRow(func(r *Row) { r.ReservationNumber = "WB5" }),
	}
	got := Filter(input, cfg)
	want := []string{"WB1", "WB3", "WB5"}
	if len(got) != len(want) {
		t.Fatalf("kept %d rows, want %d", len(got), len(want))
	}
	for i, num := range want {
		if got[i].ReservationNumber != num {
			t.Errorf("kept[%d] = %s, want %s", i, got[i].ReservationNumber, num)
		}
	}
}

func TestClassifyBoundary(t *testing.T) {
	cfg := DefaultRules()
	tests := []struct {
		name          string
		accommodation string
		resNum        string
		want          BookingClass
	}{
		{"zero not excepted", "0.00", "WB1001", NonIncomeGenerating},
		{"one cent", "0.01", "WB1001", IncomeGenerating},
		{"negative", "-10", "WB1001", IncomeGenerating},
		{"zero but excepted", "0", "WB3964", IncomeGenerating},
		{"nonzero excepted", "50", "WB3964", IncomeGenerating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testRow(func(r *Row) {
				r.Accommodation = ParseDecimal(tt.accommodation)
				r.ReservationNumber = tt.resNum
			})
			if got := Classify(row, cfg); got != tt.want {
				t.Errorf("Classify(accommodation=%s, res=%s) = %s, want %s", tt.accommodation, tt.resNum, got, tt.want)
			}
		})
	}
}
