// Package reconcile is the stateful diff engine: it matches a run's units
// against the last recorded snapshot by composite identity and classifies
// each unit's change.
package reconcile

import (
	"fmt"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// Reconcile compares the current observation against the previous one and
// produces the change report. previous may be nil (empty history), in which
// case every unit is new. Plans are matched by name; a plan present only in
// previous is not represented (plan-level removal is not modeled).
func Reconcile(current *domain.ObservationSnapshot, previous *domain.ObservationSnapshot) *domain.ReportSnapshot {
	report := &domain.ReportSnapshot{
		Date:      current.Date,
		Timestamp: current.Timestamp,
		Plans:     make([]domain.PlanReport, 0, len(current.Plans)),
	}

	for _, plan := range current.Plans {
		prevPlan := findPlan(previous, plan.PlanName)
		planReport := reconcilePlan(plan, prevPlan)
		for _, rec := range planReport.Units {
			report.Summary.Add(rec.Status)
		}
		report.Plans = append(report.Plans, planReport)
	}

	return report
}

// findPlan locates the previous counterpart of a plan, nil when the plan is
// new or history is empty.
func findPlan(snapshot *domain.ObservationSnapshot, name string) *domain.PlanSnapshot {
	if snapshot == nil {
		return nil
	}
	for i := range snapshot.Plans {
		if snapshot.Plans[i].PlanName == name {
			return &snapshot.Plans[i]
		}
	}
	return nil
}

func reconcilePlan(current domain.PlanSnapshot, previous *domain.PlanSnapshot) domain.PlanReport {
	planReport := domain.PlanReport{
		PlanName:   current.PlanName,
		URL:        current.URL,
		TotalUnits: current.TotalUnits,
		PriceRange: current.PriceRange,
	}

	// A failed scrape carries no evidence about the plan's units; do not
	// synthesize removals from missing data.
	if !current.Success {
		return planReport
	}

	var prevUnits []domain.UnitRecord
	if previous != nil {
		prevUnits = previous.Units
	}

	prevByKey := make(map[string]domain.UnitRecord, len(prevUnits))
	for _, u := range prevUnits {
		prevByKey[u.IdentityKey()] = u
	}

	matched := make(map[string]struct{}, len(current.Units))
	records := make([]domain.ChangeRecord, 0, len(current.Units))

	// Current units first, in extraction order.
	for _, u := range current.Units {
		key := u.IdentityKey()
		rec := domain.ChangeRecord{
			IdentityKey:  key,
			CurrentPrice: domain.IntPtr(u.Price),
			Availability: u.Availability,
		}

		prev, exists := prevByKey[key]
		if !exists {
			rec.Status = domain.StatusNew
		} else {
			matched[key] = struct{}{}
			rec.PreviousPrice = domain.IntPtr(prev.Price)
			rec.Difference = u.Price - prev.Price
			switch {
			case rec.Difference < 0:
				rec.Status = domain.StatusDecreased
			case rec.Difference > 0:
				rec.Status = domain.StatusIncreased
			default:
				rec.Status = domain.StatusUnchanged
			}
		}
		records = append(records, rec)
	}

	// Then removed units, in their original previous order.
	for _, u := range prevUnits {
		key := u.IdentityKey()
		if _, ok := matched[key]; ok {
			continue
		}
		records = append(records, domain.ChangeRecord{
			IdentityKey:   key,
			PreviousPrice: domain.IntPtr(u.Price),
			Difference:    0,
			Status:        domain.StatusRemoved,
			Availability:  domain.NoLongerAvailable,
		})
	}

	planReport.Units = records
	return planReport
}

// HasUpdates reports whether any record across all plans carries a status
// other than unchanged. Gates the conditional notification policy.
func HasUpdates(report *domain.ReportSnapshot) bool {
	s := report.Summary
	return s.New > 0 || s.Increased > 0 || s.Decreased > 0 || s.Removed > 0
}

// Subject picks the notification subject line from the summary counts, with
// a fixed priority when statuses co-occur: removed, then new, then price
// changes, then unchanged.
func Subject(report *domain.ReportSnapshot) string {
	s := report.Summary
	switch {
	case s.Removed > 0:
		return fmt.Sprintf("Rent watch %s: %d %s no longer available",
			report.Date, s.Removed, pluralUnits(s.Removed))
	case s.New > 0:
		return fmt.Sprintf("Rent watch %s: %d new %s listed",
			report.Date, s.New, pluralUnits(s.New))
	case s.Increased > 0 || s.Decreased > 0:
		n := s.Increased + s.Decreased
		return fmt.Sprintf("Rent watch %s: %d price %s",
			report.Date, n, plural(n, "change", "changes"))
	default:
		return fmt.Sprintf("Rent watch %s: no changes", report.Date)
	}
}

func pluralUnits(n int) string {
	return plural(n, "unit", "units")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
