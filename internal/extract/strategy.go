// Package extract turns one rendered page into unit records, tolerating
// unknown markup through an ordered chain of fallback strategies.
package extract

import (
	"github.com/quantmind-br/rentwatch-go/internal/domain"
	"github.com/quantmind-br/rentwatch-go/internal/utils"
)

// Strategy is one extraction approach over a rendered page. Strategies are
// pure with respect to shared state and independently testable against
// canned page fixtures.
type Strategy interface {
	// Name returns the strategy name
	Name() string
	// Extract produces unit records from the page, empty when nothing matched
	Extract(page *Page) []domain.UnitRecord
}

// Chain runs strategies in order and returns the first non-empty result.
// Later strategies are skipped after a success: results are never merged.
type Chain struct {
	strategies []Strategy
	logger     *utils.Logger
}

// NewChain creates a chain over the given strategies, in priority order.
func NewChain(logger *utils.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, logger: logger}
}

// DefaultChain returns the production strategy order: structured-element
// scan, then generic text-pattern scan, then page-wide price harvest.
func DefaultChain(logger *utils.Logger) *Chain {
	return NewChain(logger,
		NewStructuredStrategy(),
		NewPatternStrategy(),
		NewHarvestStrategy(),
	)
}

// Extract runs the chain over one page. A nil result means no strategy
// matched anything; that is not an error (see scraper).
func (c *Chain) Extract(page *Page) []domain.UnitRecord {
	for _, s := range c.strategies {
		units := dedupeByIdentity(s.Extract(page))
		if len(units) == 0 {
			c.logger.Debug().
				Str("strategy", s.Name()).
				Str("url", page.URL).
				Msg("Strategy yielded nothing, falling through")
			continue
		}
		c.logger.Info().
			Str("strategy", s.Name()).
			Str("url", page.URL).
			Int("units", len(units)).
			Msg("Extraction succeeded")
		return units
	}
	return nil
}

// dedupeByIdentity drops records whose identity key was already seen,
// keeping the first occurrence and preserving order.
func dedupeByIdentity(units []domain.UnitRecord) []domain.UnitRecord {
	if len(units) < 2 {
		return units
	}
	seen := make(map[string]struct{}, len(units))
	out := units[:0]
	for _, u := range units {
		key := u.IdentityKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}
