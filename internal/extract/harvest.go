package extract

import (
	"sort"
	"strconv"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/parser"
)

// HarvestStrategy is the last resort: collect every plausible currency
// amount anywhere on the page and synthesize one placeholder unit per
// distinct price. Per-unit identity fidelity is intentionally lost; this
// exists only so a plan is never reported as having zero data when prices
// are visibly present.
type HarvestStrategy struct{}

// NewHarvestStrategy creates a new price-harvest strategy
func NewHarvestStrategy() *HarvestStrategy {
	return &HarvestStrategy{}
}

// Name returns the strategy name
func (s *HarvestStrategy) Name() string {
	return "harvest"
}

// Extract collects distinct plausible amounts, sorted ascending, and labels
// them with opaque sequential identifiers.
func (s *HarvestStrategy) Extract(page *Page) []domain.UnitRecord {
	seen := make(map[int]struct{})
	var prices []int
	for _, price := range parser.ParseAllPrices(page.Text()) {
		if !parser.PlausibleRent(price) {
			continue
		}
		if _, dup := seen[price]; dup {
			continue
		}
		seen[price] = struct{}{}
		prices = append(prices, price)
	}
	sort.Ints(prices)

	units := make([]domain.UnitRecord, 0, len(prices))
	for i, price := range prices {
		units = append(units, domain.UnitRecord{
			UnitID:       "price-" + strconv.Itoa(i+1),
			Price:        price,
			Availability: domain.CallForDetails,
		})
	}
	return units
}
