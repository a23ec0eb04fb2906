package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/parser"
)

// Selectors recognized by the structured strategy. Sites that expose unit
// data as cards tend to use one of these shapes.
const (
	unitElementSelector  = "[data-unit], [data-unit-id], .unit-card, .unit-item, .unit-row"
	priceSelector        = "[data-price], .unit-price, .price, .rent"
	availabilitySelector = "[data-available], .unit-availability, .availability, .available-date"
)

// StructuredStrategy extracts units from elements carrying a unit-identity
// attribute or a well-known structural class. Highest fidelity, first in
// the chain.
type StructuredStrategy struct{}

// NewStructuredStrategy creates a new structured-element strategy
func NewStructuredStrategy() *StructuredStrategy {
	return &StructuredStrategy{}
}

// Name returns the strategy name
func (s *StructuredStrategy) Name() string {
	return "structured"
}

// Extract scans unit elements and reads identity, price and availability
// from their labeled sub-elements. Records outside the plausible rent band
// are discarded as noise.
func (s *StructuredStrategy) Extract(page *Page) []domain.UnitRecord {
	var units []domain.UnitRecord

	page.Doc().Find(unitElementSelector).Each(func(_ int, sel *goquery.Selection) {
		unitID := extractUnitID(sel)
		if unitID == "" {
			return
		}

		price, ok := extractPrice(sel)
		if !ok || !parser.PlausibleRent(price) {
			return
		}

		units = append(units, domain.UnitRecord{
			UnitID:       unitID,
			Floor:        parser.FloorFromUnitID(unitID),
			Price:        price,
			Availability: extractAvailability(sel),
		})
	})

	return units
}

// extractUnitID reads the identity attribute, falling back to a unit-marker
// label in the element's text.
func extractUnitID(sel *goquery.Selection) string {
	for _, attr := range []string{"data-unit", "data-unit-id"} {
		if v, exists := sel.Attr(attr); exists && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if identity, ok := parser.ParseUnitIdentity(CollapseText(sel.Text())); ok {
		return identity.UnitID
	}
	return ""
}

// extractPrice reads the labeled price sub-element, falling back to the
// element's own text.
func extractPrice(sel *goquery.Selection) (int, bool) {
	priceSel := sel.Find(priceSelector).First()
	if priceSel.Length() > 0 {
		if v, exists := priceSel.Attr("data-price"); exists {
			if price, ok := parser.ParsePrice("$" + v); ok {
				return price, true
			}
		}
		if price, ok := parser.ParsePrice(priceSel.Text()); ok {
			return price, true
		}
	}
	return parser.ParsePrice(CollapseText(sel.Text()))
}

// extractAvailability checks the explicit "now" marker before falling back
// to the soonest-available date attribute, formatted month-abbreviation +
// day. Free-form dates are preserved verbatim.
func extractAvailability(sel *goquery.Selection) string {
	availSel := sel.Find(availabilitySelector).First()
	if availSel.Length() == 0 {
		if strings.Contains(strings.ToLower(sel.Text()), "available now") {
			return domain.AvailableNow
		}
		return domain.AvailabilityUnknown
	}

	text := CollapseText(availSel.Text())
	if strings.Contains(strings.ToLower(text), "now") {
		return domain.AvailableNow
	}

	if v, exists := availSel.Attr("data-available"); exists && v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t.Format("Jan 2")
		}
		return v
	}

	if text != "" {
		return text
	}
	return domain.AvailabilityUnknown
}
