// Package parser contains the pure text parsers used by every extraction
// strategy. All functions are deterministic and total: malformed input
// yields ok=false, never a panic.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Plausible monthly rent band. Extracted amounts outside this range are
// noise (ads, deposits, application fees) and are discarded by strategies.
const (
	MinPlausibleRent = 1000
	MaxPlausibleRent = 20000
)

var (
	// $1,234 or $1234 — symbol plus digit groups with optional thousands
	// separators.
	priceRe = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+|\d+)`)

	// Unit 350-227, Apt #204, Apartment 12B — marker keyword followed by an
	// identifier token.
	unitRe = regexp.MustCompile(`(?i)\b(?:unit|apt|apartment)\s*#?\s*([0-9]+(?:-[0-9A-Za-z]+)*[A-Za-z]?)`)

	digitsRe = regexp.MustCompile(`^[0-9]+$`)
)

// ParsePrice scans text for the first currency amount and returns it as a
// whole currency-unit integer. No plausibility filtering happens here; that
// is the caller's concern (PlausibleRent).
func ParsePrice(text string) (int, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	price, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return price, true
}

// ParseAllPrices returns every currency amount found in text, in order of
// appearance, duplicates included.
func ParseAllPrices(text string) []int {
	var prices []int
	for _, m := range priceRe.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		price, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		prices = append(prices, price)
	}
	return prices
}

// PlausibleRent reports whether price lies in the monthly-rent sanity band.
func PlausibleRent(price int) bool {
	return price >= MinPlausibleRent && price <= MaxPlausibleRent
}

// UnitIdentity is the identity portion of a unit record.
type UnitIdentity struct {
	UnitID string
	Floor  string
}

// ParseUnitIdentity recognizes an identifier token following a unit-marker
// keyword ("Unit 204", "Apt #1204"). The floor is derived from the leading
// digit(s) when the identifier is a floor-coded number (unit 204 is on floor
// 2, unit 1204 on floor 12); identifiers that do not follow that convention
// get an empty floor.
func ParseUnitIdentity(text string) (UnitIdentity, bool) {
	m := unitRe.FindStringSubmatch(text)
	if m == nil {
		return UnitIdentity{}, false
	}
	id := m[1]
	return UnitIdentity{UnitID: id, Floor: FloorFromUnitID(id)}, true
}

// FloorFromUnitID derives the building floor from a floor-coded numeric
// identifier: everything before the trailing two room digits. Returns ""
// for identifiers that are not plain numbers of at least three digits.
func FloorFromUnitID(id string) string {
	if !digitsRe.MatchString(id) || len(id) < 3 {
		return ""
	}
	return id[:len(id)-2]
}
