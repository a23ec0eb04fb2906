// Package report renders ReportSnapshot for humans. Every renderer works
// from the report shape alone; nothing here reaches back into scraping or
// reconciliation state.
package report

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// statusLabel maps a change status to its console tag.
func statusLabel(status domain.ChangeStatus) string {
	switch status {
	case domain.StatusNew:
		return "NEW"
	case domain.StatusIncreased:
		return "UP"
	case domain.StatusDecreased:
		return "DOWN"
	case domain.StatusRemoved:
		return "GONE"
	default:
		return "SAME"
	}
}

func formatPrice(p *int) string {
	if p == nil {
		return "n/a"
	}
	return formatMoney(*p)
}

func formatMoney(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + "$" + s
}

// ConsoleSummary renders the per-plan change summary printed at the end of
// a run.
func ConsoleSummary(report *domain.ReportSnapshot) string {
	var b strings.Builder

	s := report.Summary
	fmt.Fprintf(&b, "Report for %s: %d new, %d increased, %d decreased, %d removed, %d unchanged\n",
		report.Date, s.New, s.Increased, s.Decreased, s.Removed, s.Unchanged)

	for _, plan := range report.Plans {
		fmt.Fprintf(&b, "\n%s (%d units", plan.PlanName, plan.TotalUnits)
		if plan.PriceRange != nil {
			fmt.Fprintf(&b, ", %s to %s",
				formatMoney(plan.PriceRange.Min), formatMoney(plan.PriceRange.Max))
		}
		b.WriteString(")\n")

		if len(plan.Units) == 0 {
			b.WriteString("  no unit data\n")
			continue
		}
		for _, rec := range plan.Units {
			fmt.Fprintf(&b, "  [%-4s] %-16s %s", statusLabel(rec.Status), rec.IdentityKey,
				formatPrice(rec.CurrentPrice))
			if rec.Status == domain.StatusIncreased || rec.Status == domain.StatusDecreased {
				fmt.Fprintf(&b, " (was %s, %+d)", formatPrice(rec.PreviousPrice), rec.Difference)
			}
			if rec.Availability != "" {
				fmt.Fprintf(&b, "  %s", rec.Availability)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
