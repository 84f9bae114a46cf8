package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
)

func assignment(t *testing.T, id string, resource *scheduling.ResourceID, start, end scheduling.Date) scheduling.Assignment {
	t.Helper()
	return scheduling.Assignment{
		ID:         scheduling.AssignmentID(id),
		ProjectID:  "proj",
		ResourceID: resource,
		Window:     interval(t, start, end),
	}
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// PER-ASSIGNMENT PRICING
// =============================================================================

func TestAssignmentCost_RateTimesBillableDays(t *testing.T) {
	alice := scheduling.ResourceID("alice")
	rates := scheduling.Rates{alice: money("1000")}

	// June 1-30 inclusive is 30 days.
	a := assignment(t, "a1", &alice, date(2025, time.June, 1), date(2025, time.June, 30))
	if got := scheduling.AssignmentCost(a, rates); !got.Equal(money("30000")) {
		t.Fatalf("cost = %s, want 30000", got)
	}
}

func TestAssignmentCost_TravelDaysBillable(t *testing.T) {
	alice := scheduling.ResourceID("alice")
	rates := scheduling.Rates{alice: money("1000")}

	a := assignment(t, "a1", &alice, date(2025, time.June, 2), date(2025, time.June, 11)) // 10 days
	a.TravelOutDays = 1
	a.TravelBackDays = 1
	if got := scheduling.AssignmentCost(a, rates); !got.Equal(money("12000")) {
		t.Fatalf("cost with travel = %s, want 12000", got)
	}
}

func TestAssignmentCost_UnassignedOrUnratedIsZero(t *testing.T) {
	alice := scheduling.ResourceID("alice")

	placeholder := assignment(t, "a1", nil, date(2025, time.June, 1), date(2025, time.June, 30))
	if got := scheduling.AssignmentCost(placeholder, scheduling.Rates{}); !got.IsZero() {
		t.Fatalf("placeholder cost = %s, want 0", got)
	}

	unrated := assignment(t, "a2", &alice, date(2025, time.June, 1), date(2025, time.June, 30))
	if got := scheduling.AssignmentCost(unrated, scheduling.Rates{}); !got.IsZero() {
		t.Fatalf("unrated cost = %s, want 0", got)
	}
}

func TestTotalCost_SkipsDeleted(t *testing.T) {
	alice := scheduling.ResourceID("alice")
	rates := scheduling.Rates{alice: money("1000")}

	live := assignment(t, "a1", &alice, date(2025, time.June, 1), date(2025, time.June, 10))
	dead := assignment(t, "a2", &alice, date(2025, time.June, 11), date(2025, time.June, 20))
	dead.Deleted = true

	got := scheduling.TotalCost([]scheduling.Assignment{live, dead}, rates)
	if !got.Equal(money("10000")) {
		t.Fatalf("total = %s, want 10000 (deleted row must not count)", got)
	}
}

// =============================================================================
// COST IMPACT: SUBSTITUTION SCENARIO
// =============================================================================

// The plan was one resource for all of June at 1000/day. Approved vacation
// forced a 5-day substitute at 1500/day. Planned 30000, actual 32500,
// overrun 2500.
func TestCostImpact_SubstituteOverrun(t *testing.T) {
	alice := scheduling.ResourceID("alice")
	bob := scheduling.ResourceID("bob")
	rates := scheduling.Rates{alice: money("1000"), bob: money("1500")}

	actual := []scheduling.Assignment{
		assignment(t, "a1", &alice, date(2025, time.June, 1), date(2025, time.June, 25)),
		assignment(t, "a2", &bob, date(2025, time.June, 26), date(2025, time.June, 30)),
	}

	planned := scheduling.PlannedBaseline(actual, rates)
	impact := scheduling.ComputeCostImpact(planned, actual, rates)

	if !impact.PlannedCost.Equal(money("30000")) {
		t.Errorf("planned = %s, want 30000", impact.PlannedCost)
	}
	if !impact.ActualCost.Equal(money("32500")) {
		t.Errorf("actual = %s, want 32500", impact.ActualCost)
	}
	if !impact.CostOverrun.Equal(money("2500")) {
		t.Errorf("overrun = %s, want 2500", impact.CostOverrun)
	}
}

// Splitting around vacation without a substitute just shrinks the plan: the
// same resource covers fewer days, so there is no overrun.
func TestCostImpact_SplitWithoutSubstitute_NoOverrun(t *testing.T) {
	alice := scheduling.ResourceID("alice")
	rates := scheduling.Rates{alice: money("1000")}

	actual := []scheduling.Assignment{
		assignment(t, "a1", &alice, date(2025, time.June, 1), date(2025, time.June, 14)),
		assignment(t, "a2", &alice, date(2025, time.June, 26), date(2025, time.June, 30)),
	}

	planned := scheduling.PlannedBaseline(actual, rates)
	impact := scheduling.ComputeCostImpact(planned, actual, rates)

	if !impact.CostOverrun.IsZero() {
		t.Fatalf("overrun = %s, want 0", impact.CostOverrun)
	}
	// 14 + 5 covered days at 1000.
	if !impact.ActualCost.Equal(money("19000")) {
		t.Fatalf("actual = %s, want 19000", impact.ActualCost)
	}
}

// =============================================================================
// PLANNED BASELINE RECONSTRUCTION
// =============================================================================

func TestPlannedBaseline_PricesUnionAtPrimaryRate(t *testing.T) {
	alice := scheduling.ResourceID("alice")
	bob := scheduling.ResourceID("bob")
	rates := scheduling.Rates{alice: money("1000"), bob: money("1500")}

	// Alice starts first, so she is the primary; Bob's substitute days are
	// re-priced at Alice's rate in the baseline.
	actual := []scheduling.Assignment{
		assignment(t, "a2", &bob, date(2025, time.June, 26), date(2025, time.June, 30)),
		assignment(t, "a1", &alice, date(2025, time.June, 1), date(2025, time.June, 25)),
	}

	baseline := scheduling.PlannedBaseline(actual, rates)
	if len(baseline) != 1 {
		t.Fatalf("contiguous coverage should collapse to one range, got %d", len(baseline))
	}
	b := baseline[0]
	if b.ResourceID == nil || *b.ResourceID != alice {
		t.Fatalf("baseline priced at %v, want primary resource alice", b.ResourceID)
	}
	if !b.Window.Start.Equal(date(2025, time.June, 1)) || !b.Window.End.Equal(date(2025, time.June, 30)) {
		t.Fatalf("baseline window = %s, want 2025-06-01..2025-06-30", b.Window)
	}
}

func TestPlannedBaseline_GapMakesTwoRanges(t *testing.T) {
	alice := scheduling.ResourceID("alice")
	actual := []scheduling.Assignment{
		assignment(t, "a1", &alice, date(2025, time.June, 1), date(2025, time.June, 14)),
		assignment(t, "a2", &alice, date(2025, time.June, 26), date(2025, time.June, 30)),
	}

	baseline := scheduling.PlannedBaseline(actual, scheduling.Rates{alice: money("1000")})
	if len(baseline) != 2 {
		t.Fatalf("gap in coverage should yield 2 ranges, got %d", len(baseline))
	}
	if !baseline[0].Window.End.Equal(date(2025, time.June, 14)) || !baseline[1].Window.Start.Equal(date(2025, time.June, 26)) {
		t.Fatalf("baseline ranges = %s, %s", baseline[0].Window, baseline[1].Window)
	}
}

func TestPlannedBaseline_Empty(t *testing.T) {
	if got := scheduling.PlannedBaseline(nil, scheduling.Rates{}); got != nil {
		t.Fatalf("empty input gave %v", got)
	}
	deleted := assignment(t, "a1", nil, date(2025, time.June, 1), date(2025, time.June, 5))
	deleted.Deleted = true
	if got := scheduling.PlannedBaseline([]scheduling.Assignment{deleted}, scheduling.Rates{}); got != nil {
		t.Fatalf("all-deleted input gave %v", got)
	}
}

// =============================================================================
// ENGINE-LEVEL REPORT
// =============================================================================

func TestProjectCostImpact_SubstitutionEndToEnd(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	p := createProject(t, e, "PROJ-COST", date(2025, time.June, 1), date(2025, time.June, 30))
	alice := createResource(t, e, "Alice", 1000)
	bob := createResource(t, e, "Bob", 1500)

	mustAssign(t, e, p, alice, date(2025, time.June, 1), date(2025, time.June, 25))
	mustAssign(t, e, p, bob, date(2025, time.June, 26), date(2025, time.June, 30))

	impact, err := e.ProjectCostImpact(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !impact.PlannedCost.Equal(money("30000")) || !impact.ActualCost.Equal(money("32500")) || !impact.CostOverrun.Equal(money("2500")) {
		t.Fatalf("impact = planned %s / actual %s / overrun %s, want 30000/32500/2500",
			impact.PlannedCost, impact.ActualCost, impact.CostOverrun)
	}
}
