package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

func snapshot(t *testing.T, plans ...domain.PlanSnapshot) *domain.ObservationSnapshot {
	t.Helper()
	for i := range plans {
		plans[i].Finalize()
	}
	return domain.NewObservationSnapshot(
		time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC), plans)
}

func plan(name string, units ...domain.UnitRecord) domain.PlanSnapshot {
	return domain.PlanSnapshot{
		PlanName: name,
		URL:      "https://example.com/" + name,
		Units:    units,
		Success:  true,
	}
}

func unit(id, floor string, price int) domain.UnitRecord {
	return domain.UnitRecord{
		UnitID:       id,
		Floor:        floor,
		Price:        price,
		Availability: domain.AvailableNow,
	}
}

// TestReconcile_PriceDecrease covers a matched unit whose price dropped
func TestReconcile_PriceDecrease(t *testing.T) {
	previous := snapshot(t, plan("plan-a", unit("201", "3", 5000)))
	current := snapshot(t, plan("plan-a", unit("201", "3", 4900)))

	report := Reconcile(current, previous)

	require.Len(t, report.Plans, 1)
	require.Len(t, report.Plans[0].Units, 1)

	rec := report.Plans[0].Units[0]
	assert.Equal(t, "201-3", rec.IdentityKey)
	assert.Equal(t, domain.StatusDecreased, rec.Status)
	assert.Equal(t, -100, rec.Difference)
	assert.Equal(t, 4900, *rec.CurrentPrice)
	assert.Equal(t, 5000, *rec.PreviousPrice)
}

// TestReconcile_EmptyHistory covers the first ever run: everything is new
func TestReconcile_EmptyHistory(t *testing.T) {
	current := snapshot(t, plan("plan-a", unit("227", "3", 5411)))

	report := Reconcile(current, nil)

	require.Len(t, report.Plans[0].Units, 1)
	rec := report.Plans[0].Units[0]
	assert.Equal(t, domain.StatusNew, rec.Status)
	assert.Equal(t, "227-3", rec.IdentityKey)
	assert.Nil(t, rec.PreviousPrice)
	assert.Equal(t, 0, rec.Difference)
}

// TestReconcile_RemovedUnit covers the synthetic removed record
func TestReconcile_RemovedUnit(t *testing.T) {
	previous := snapshot(t, plan("plan-a", unit("109", "4", 5114)))
	current := snapshot(t, plan("plan-a"))

	report := Reconcile(current, previous)

	require.Len(t, report.Plans[0].Units, 1)
	rec := report.Plans[0].Units[0]
	assert.Equal(t, "109-4", rec.IdentityKey)
	assert.Equal(t, domain.StatusRemoved, rec.Status)
	assert.Nil(t, rec.CurrentPrice)
	assert.Equal(t, 5114, *rec.PreviousPrice)
	assert.Equal(t, domain.NoLongerAvailable, rec.Availability)
}

// TestReconcile_PriceChangeIsNotRemoveAdd verifies matching is by identity
// key only: a pure price change stays one modified record
func TestReconcile_PriceChangeIsNotRemoveAdd(t *testing.T) {
	previous := snapshot(t, plan("plan-a", unit("204", "2", 2100)))
	current := snapshot(t, plan("plan-a", unit("204", "2", 2350)))

	report := Reconcile(current, previous)

	require.Len(t, report.Plans[0].Units, 1)
	rec := report.Plans[0].Units[0]
	assert.Equal(t, domain.StatusIncreased, rec.Status)
	assert.Equal(t, 250, rec.Difference)
	assert.Equal(t, 0, report.Summary.New)
	assert.Equal(t, 0, report.Summary.Removed)
}

// TestReconcile_Idempotence verifies reconciling a snapshot against itself
// yields all-unchanged records with zero difference
func TestReconcile_Idempotence(t *testing.T) {
	snap := snapshot(t,
		plan("plan-a", unit("201", "3", 5000), unit("204", "2", 2100)),
		plan("plan-b", unit("1204", "12", 3400)),
	)

	report := Reconcile(snap, snap)

	assert.Equal(t, 3, report.Summary.Unchanged)
	assert.Equal(t, 3, report.Summary.Total())
	for _, p := range report.Plans {
		for _, rec := range p.Units {
			assert.Equal(t, domain.StatusUnchanged, rec.Status)
			assert.Equal(t, 0, rec.Difference)
		}
	}
}

// TestReconcile_Conservation verifies every previous unit is accounted for
// as matched or removed, and every current unit as matched or new
func TestReconcile_Conservation(t *testing.T) {
	previous := snapshot(t, plan("plan-a",
		unit("201", "3", 5000),
		unit("109", "4", 5114),
		unit("204", "2", 2100),
	))
	current := snapshot(t, plan("plan-a",
		unit("201", "3", 4900), // matched
		unit("517", "5", 2480), // new
		unit("204", "2", 2100), // matched
	))

	report := Reconcile(current, previous)
	s := report.Summary

	matched := s.Increased + s.Decreased + s.Unchanged
	assert.Equal(t, len(previous.Plans[0].Units), matched+s.Removed)
	assert.Equal(t, len(current.Plans[0].Units), matched+s.New)
	assert.Equal(t, len(report.Plans[0].Units), s.Total())
}

// TestReconcile_ClassificationPartition verifies exactly one status holds
// per record and the difference sign matches it
func TestReconcile_ClassificationPartition(t *testing.T) {
	previous := snapshot(t, plan("plan-a",
		unit("101", "1", 2000),
		unit("102", "1", 2000),
		unit("103", "1", 2000),
		unit("104", "1", 2000),
	))
	current := snapshot(t, plan("plan-a",
		unit("101", "1", 2100), // increased
		unit("102", "1", 1900), // decreased
		unit("103", "1", 2000), // unchanged
		unit("105", "1", 2500), // new
		// 104 removed
	))

	report := Reconcile(current, previous)

	require.Equal(t, 5, report.Summary.Total())
	for _, rec := range report.Plans[0].Units {
		switch rec.Status {
		case domain.StatusIncreased:
			assert.Positive(t, rec.Difference)
		case domain.StatusDecreased:
			assert.Negative(t, rec.Difference)
		case domain.StatusUnchanged:
			assert.Zero(t, rec.Difference)
		case domain.StatusNew:
			assert.Nil(t, rec.PreviousPrice)
			assert.Zero(t, rec.Difference)
		case domain.StatusRemoved:
			assert.Nil(t, rec.CurrentPrice)
			assert.Zero(t, rec.Difference)
		default:
			t.Fatalf("unexpected status %q", rec.Status)
		}
	}
	assert.Equal(t, domain.Summary{
		New: 1, Increased: 1, Decreased: 1, Unchanged: 1, Removed: 1,
	}, report.Summary)
}

// TestReconcile_Ordering verifies current units keep extraction order,
// followed by removed units in their previous order
func TestReconcile_Ordering(t *testing.T) {
	previous := snapshot(t, plan("plan-a",
		unit("901", "9", 3000),
		unit("301", "3", 3000),
		unit("101", "1", 3000),
	))
	current := snapshot(t, plan("plan-a",
		unit("510", "5", 3100),
		unit("101", "1", 3000),
	))

	report := Reconcile(current, previous)

	keys := make([]string, 0, 4)
	for _, rec := range report.Plans[0].Units {
		keys = append(keys, rec.IdentityKey)
	}
	assert.Equal(t, []string{"510-5", "101-1", "901-9", "301-3"}, keys)
}

// TestReconcile_UnknownFloorFallback covers the composite key's literal
// "unknown" segment for units without a floor
func TestReconcile_UnknownFloorFallback(t *testing.T) {
	previous := snapshot(t, plan("plan-a", unit("350-227", "", 5411)))
	current := snapshot(t, plan("plan-a", unit("350-227", "", 5411)))

	report := Reconcile(current, previous)
	require.Len(t, report.Plans[0].Units, 1)
	assert.Equal(t, "350-227-unknown", report.Plans[0].Units[0].IdentityKey)
	assert.Equal(t, domain.StatusUnchanged, report.Plans[0].Units[0].Status)
}

// TestReconcile_FailedScrape verifies a failed plan snapshot synthesizes no
// removals: missing data is not evidence of removal
func TestReconcile_FailedScrape(t *testing.T) {
	previous := snapshot(t, plan("plan-a", unit("201", "3", 5000)))

	failed := plan("plan-a")
	failed.Success = false
	failed.Error = "navigation timeout"
	current := snapshot(t, failed)

	report := Reconcile(current, previous)

	assert.Empty(t, report.Plans[0].Units)
	assert.Equal(t, 0, report.Summary.Removed)
	assert.False(t, HasUpdates(report))
}

// TestReconcile_PlanOnlyInCurrent verifies a brand new plan diffs against
// an empty mapping
func TestReconcile_PlanOnlyInCurrent(t *testing.T) {
	previous := snapshot(t, plan("plan-a", unit("201", "3", 5000)))
	current := snapshot(t,
		plan("plan-a", unit("201", "3", 5000)),
		plan("plan-b", unit("707", "7", 4200)),
	)

	report := Reconcile(current, previous)

	require.Len(t, report.Plans, 2)
	assert.Equal(t, domain.StatusNew, report.Plans[1].Units[0].Status)
}

// TestHasUpdates gates the conditional notification policy
func TestHasUpdates(t *testing.T) {
	tests := []struct {
		name    string
		summary domain.Summary
		want    bool
	}{
		{"all unchanged", domain.Summary{Unchanged: 12}, false},
		{"empty report", domain.Summary{}, false},
		{"one new", domain.Summary{Unchanged: 3, New: 1}, true},
		{"one removed", domain.Summary{Removed: 1}, true},
		{"price moves", domain.Summary{Increased: 2, Decreased: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &domain.ReportSnapshot{Summary: tt.summary}
			assert.Equal(t, tt.want, HasUpdates(report))
		})
	}
}

// TestSubject verifies the fixed priority order when statuses co-occur
func TestSubject(t *testing.T) {
	tests := []struct {
		name    string
		summary domain.Summary
		want    string
	}{
		{
			name:    "removed beats everything",
			summary: domain.Summary{Removed: 2, New: 5, Increased: 1},
			want:    "Rent watch 2026-08-23: 2 units no longer available",
		},
		{
			name:    "new beats price changes",
			summary: domain.Summary{New: 1, Increased: 3},
			want:    "Rent watch 2026-08-23: 1 new unit listed",
		},
		{
			name:    "price changes joint",
			summary: domain.Summary{Increased: 2, Decreased: 1},
			want:    "Rent watch 2026-08-23: 3 price changes",
		},
		{
			name:    "single price change",
			summary: domain.Summary{Decreased: 1},
			want:    "Rent watch 2026-08-23: 1 price change",
		},
		{
			name:    "nothing changed",
			summary: domain.Summary{Unchanged: 9},
			want:    "Rent watch 2026-08-23: no changes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &domain.ReportSnapshot{Date: "2026-08-23", Summary: tt.summary}
			assert.Equal(t, tt.want, Subject(report))
		})
	}
}
