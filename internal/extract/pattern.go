package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/parser"
)

// maxGap bounds the distance between an identifier and its price in the
// collapsed page text, tolerating intervening markup flattened to text.
const maxGap = 500

// unit-marker, identifier, bounded gap, currency amount, monthly-rent
// suffix. Runs once over the whole page text.
var unitPriceRe = regexp.MustCompile(
	`(?i)\b(?:unit|apt|apartment)\s*#?\s*([0-9]+(?:-[0-9A-Za-z]+)*[A-Za-z]?)` +
		`.{0,` + strconv.Itoa(maxGap) + `}?` +
		`\$\s?(\d{1,3}(?:,\d{3})+|\d+)\s*/\s*mo`)

// PatternStrategy is the generic text-pattern fallback: a single scan over
// the page's collapsed text for "<marker> <id> ... $<amount> /mo" shapes.
type PatternStrategy struct{}

// NewPatternStrategy creates a new pattern-scan strategy
func NewPatternStrategy() *PatternStrategy {
	return &PatternStrategy{}
}

// Name returns the strategy name
func (s *PatternStrategy) Name() string {
	return "pattern"
}

// Extract scans the collapsed page text. Duplicate identifiers keep their
// first occurrence; implausible amounts are discarded.
func (s *PatternStrategy) Extract(page *Page) []domain.UnitRecord {
	var units []domain.UnitRecord
	seen := make(map[string]struct{})

	for _, m := range unitPriceRe.FindAllStringSubmatch(page.Text(), -1) {
		unitID := m[1]
		if _, dup := seen[unitID]; dup {
			continue
		}

		price, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
		if err != nil || !parser.PlausibleRent(price) {
			continue
		}

		seen[unitID] = struct{}{}
		units = append(units, domain.UnitRecord{
			UnitID:       unitID,
			Floor:        parser.FloorFromUnitID(unitID),
			Price:        price,
			Availability: domain.AvailabilityUnknown,
		})
	}

	return units
}
