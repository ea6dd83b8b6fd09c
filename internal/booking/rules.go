package booking

import "strings"

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func inList(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// bannedProperty reports whether Rule A drops the row: the Property field
// contains a banned substring. Substring match, not equality: the exports
// spell the excluded vessel several ways ("MV - Matusadona", "MV -
// Matusadona Camp").
func bannedProperty(row Row, cfg Rules) bool {
	for _, banned := range cfg.BannedProperties {
		if containsFold(row.Property, banned) {
			return true
		}
	}
	return false
}

// bannedName reports whether Rule B drops the row: the Reservation name
// carries a banned fragment (staff, management, test bookings) and neither
// allow condition holds. The reservation-number allow-list and the source
// allow-phrase are OR'd and override the ban.
func bannedName(row Row, cfg Rules) bool {
	matched := false
	for _, frag := range cfg.BannedNameFragments {
		if containsFold(row.ReservationName, frag) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if inList(cfg.NameExceptionReservationNumbers, row.ReservationNumber) {
		return false
	}
	for _, phrase := range cfg.SourceAllowPhrases {
		if containsFold(row.Source, phrase) {
			return false
		}
	}
	return true
}

// Filter drops rows that must never appear in any report. Pure and
// order-preserving. Rule A (banned property) runs before Rule B (banned
// names with exceptions).
func Filter(rows []Row, cfg Rules) []Row {
	kept := make([]Row, 0, len(rows))
	for _, row := range rows {
		if bannedProperty(row, cfg) {
			continue
		}
		if bannedName(row, cfg) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// Classify assigns the booking class. Exact-zero test on the parsed
// accommodation amount: the threshold gates a business-visible
// categorization, so no epsilon.
func Classify(row Row, cfg Rules) BookingClass {
	if row.Accommodation.IsZero() && !inList(cfg.ZeroAccommodationExceptions, row.ReservationNumber) {
		return NonIncomeGenerating
	}
	return IncomeGenerating
}
