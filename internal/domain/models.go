package domain

import "time"

// Availability tags. Anything else stored in UnitRecord.Availability is a
// free-form date string copied verbatim from the page.
const (
	AvailableNow        = "Available Now"
	CallForDetails      = "Call for details"
	AvailabilityUnknown = "Unknown"
	NoLongerAvailable   = "No longer available"
)

// UnitRecord is one rentable unit extracted from a plan page.
type UnitRecord struct {
	UnitID       string `json:"unit_id"`
	Floor        string `json:"floor,omitempty"` // empty when the identifier is not floor-coded
	Price        int    `json:"price"`
	Availability string `json:"availability"`
}

// IdentityKey returns the composite key used to match units across runs.
// Price is never part of identity.
func (u UnitRecord) IdentityKey() string {
	floor := u.Floor
	if floor == "" {
		floor = "unknown"
	}
	return u.UnitID + "-" + floor
}

// PriceRange is the min/max unit price within a plan snapshot.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PlanSnapshot is the result of scraping one tracked plan page.
type PlanSnapshot struct {
	PlanName   string       `json:"plan_name"`
	URL        string       `json:"url"`
	Units      []UnitRecord `json:"units"`
	TotalUnits int          `json:"total_units"`
	PriceRange *PriceRange  `json:"price_range,omitempty"` // nil when Units is empty
	ScrapedAt  time.Time    `json:"scraped_at"`
	Success    bool         `json:"success"`
	Error      string       `json:"error,omitempty"`
}

// Finalize recomputes TotalUnits and PriceRange from Units.
func (p *PlanSnapshot) Finalize() {
	p.TotalUnits = len(p.Units)
	if len(p.Units) == 0 {
		p.PriceRange = nil
		return
	}
	pr := &PriceRange{Min: p.Units[0].Price, Max: p.Units[0].Price}
	for _, u := range p.Units[1:] {
		if u.Price < pr.Min {
			pr.Min = u.Price
		}
		if u.Price > pr.Max {
			pr.Max = u.Price
		}
	}
	p.PriceRange = pr
}

// ObservationSnapshot is the full set of plan data captured by one run.
// Immutable once produced; appended to history, never rewritten.
type ObservationSnapshot struct {
	Date      string         `json:"date"` // local calendar date, YYYY-MM-DD
	Timestamp time.Time      `json:"timestamp"`
	Plans     []PlanSnapshot `json:"plans"`
}

// NewObservationSnapshot stamps a snapshot with the given instant.
func NewObservationSnapshot(now time.Time, plans []PlanSnapshot) *ObservationSnapshot {
	return &ObservationSnapshot{
		Date:      now.Format("2006-01-02"),
		Timestamp: now,
		Plans:     plans,
	}
}

// ChangeStatus classifies one unit's delta between two runs. Closed set,
// mutually exclusive, always computed by the reconciler and never stored as
// scraper output.
type ChangeStatus string

const (
	StatusNew       ChangeStatus = "new"
	StatusIncreased ChangeStatus = "increased"
	StatusDecreased ChangeStatus = "decreased"
	StatusUnchanged ChangeStatus = "unchanged"
	StatusRemoved   ChangeStatus = "removed"
)

// ChangeRecord is the per-unit output of reconciliation.
type ChangeRecord struct {
	IdentityKey   string       `json:"identity_key"`
	CurrentPrice  *int         `json:"current_price,omitempty"`
	PreviousPrice *int         `json:"previous_price,omitempty"`
	Difference    int          `json:"difference"`
	Status        ChangeStatus `json:"status"`
	Availability  string       `json:"availability"`
}

// Summary holds per-status record counts across a report.
type Summary struct {
	New       int `json:"new"`
	Increased int `json:"increased"`
	Decreased int `json:"decreased"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// Add counts one record into the summary.
func (s *Summary) Add(status ChangeStatus) {
	switch status {
	case StatusNew:
		s.New++
	case StatusIncreased:
		s.Increased++
	case StatusDecreased:
		s.Decreased++
	case StatusUnchanged:
		s.Unchanged++
	case StatusRemoved:
		s.Removed++
	}
}

// Total returns the number of counted records.
func (s Summary) Total() int {
	return s.New + s.Increased + s.Decreased + s.Unchanged + s.Removed
}

// PlanReport is the reconciled view of one plan.
type PlanReport struct {
	PlanName   string         `json:"plan_name"`
	URL        string         `json:"url"`
	TotalUnits int            `json:"total_units"`
	PriceRange *PriceRange    `json:"price_range,omitempty"`
	Units      []ChangeRecord `json:"units"`
}

// ReportSnapshot is the stable contract between the reconciler and every
// consumer (formatter, notifier). Consumers render from this shape alone.
type ReportSnapshot struct {
	Date      string       `json:"date"`
	Timestamp time.Time    `json:"timestamp"`
	Plans     []PlanReport `json:"plans"`
	Summary   Summary      `json:"summary"`
}

// IntPtr is a convenience for building optional price fields.
func IntPtr(v int) *int {
	return &v
}
