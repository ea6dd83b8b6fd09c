package booking

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IncomeColumn is one revenue-line column in the income catalog. Sign is +1
// to add or -1 to subtract the column's value (discounts subtract).
type IncomeColumn struct {
	Name string `yaml:"name" json:"name"`
	Sign int    `yaml:"sign" json:"sign"`
}

// Rules is the full business-rule configuration for a pipeline run. The
// lists are operational data, not logic: they ship in rules.yaml and change
// without code changes.
type Rules struct {
	// Rule A: drop rows whose Property contains any of these, case-insensitively.
	BannedProperties []string `yaml:"banned_properties" json:"bannedProperties"`

	// Rule B: drop rows whose Reservation name contains any of these...
	BannedNameFragments []string `yaml:"banned_name_fragments" json:"bannedNameFragments"`
	// ...unless the Reservation # is listed here...
	NameExceptionReservationNumbers []string `yaml:"name_exception_reservation_numbers" json:"nameExceptionReservationNumbers"`
	// ...or the Source contains one of these phrases.
	SourceAllowPhrases []string `yaml:"source_allow_phrases" json:"sourceAllowPhrases"`

	// Reservation #s classified Income Generating even with zero accommodation.
	ZeroAccommodationExceptions []string `yaml:"zero_accommodation_exceptions" json:"zeroAccommodationExceptions"`

	// The income catalog: which columns make up Income, and with what sign.
	IncomeColumns []IncomeColumn `yaml:"income_columns" json:"incomeColumns"`
}

// DefaultRules returns the canonical Baines River Camp rule set. rules.yaml
// at the repo root carries the same data for operational overrides; this is
// the single in-code source of truth.
func DefaultRules() Rules {
	return Rules{
		BannedProperties: []string{"Matusadona"},
		BannedNameFragments: []string{
			"Scott", "Brown", "Craig", "Featherby", "TWF", "Staff",
		},
		NameExceptionReservationNumbers: []string{
			"WB3703", "WB4118", "WB2748", "WB4001", "WB3556", "WB4121",
		},
		SourceAllowPhrases: []string{"Return Guests"},
		ZeroAccommodationExceptions: []string{
			"WB3964", "WB3762", "WB4193", "WB4242",
		},
		IncomeColumns: defaultIncomeCatalog(),
	}
}

func defaultIncomeCatalog() []IncomeColumn {
	add := []string{
		"WOMEN JEWELRY", "Shop Purchases", "Service Fee", "Private guide and vehicle",
		"Private guide and boat", "POS Misc", "Operational", "Miscellaneous", "MEN JEWELRY",
		"Luxury Family Suite", "Luxury Double Suite", "Lunch ", "Gratuity", "Generator Fees",
		"Game Drive National Park", "Game Drive GMA", "Fuel", "Fishing National Park full-day 26",
		"Fishing National Park", "Fishing GMA", "F & B", "F&B", "Extra Activity in the GMA",
		"Early Check-In / Late Check-Out", "Dual Property Booking - Baines' and Matusadona - T",
		"Drinks Tab", "Curio: VR Prints", "Curio: Short Sleeve", "Curio: Luggage",
		"Curio: Long Sleeve", "Curio: Jacket", "Curio: Head & Waist Wear", "Curio: Golfers",
		"Curio: Dress", "Curio Shop", "CURIO", "COVID TEST - BRC", "Booking Fee",
		"Boat Cruises GMA", "Barter Agreement", "Bar: White Wine", "Bar: White House",
		"Bar: Whisky", "Bar: Vodka", "Bar: Soft Drinks", "Bar: Single Malt", "Bar: Rum",
		"Bar: Rose House", "Bar: Red Wine", "Bar: Red House", "Bar: Liqueurs", "Bar: Gin",
		"Bar: Cordials", "Bar: Comp/Kitchen", "Bar: Cider", "Bar: Champagne / Sparkling",
		"Bar: Brandy", "Bar: Beer", "Bar: Aperitif", "Baines' River Camp",
		"BAR: ISLAND SUNDOWNERS", "BAR: CORKAGE", "Accommodation at Baine's",
		"Accommodation", "Levies",
	}
	catalog := make([]IncomeColumn, 0, len(add)+1)
	for _, name := range add {
		catalog = append(catalog, IncomeColumn{Name: name, Sign: 1})
	}
	catalog = append(catalog, IncomeColumn{Name: "10% Discount", Sign: -1})
	return catalog
}

// LoadRules reads a YAML rule file. An empty path falls back to
// DefaultRules; a missing or unreadable file is an error so a broken deploy
// does not silently report with the wrong lists.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	for i, col := range r.IncomeColumns {
		if col.Sign == 0 {
			r.IncomeColumns[i].Sign = 1
		}
	}
	return r, nil
}
