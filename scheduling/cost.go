package scheduling

import "github.com/shopspring/decimal"

// =============================================================================
// COST IMPACT CALCULATION
// =============================================================================

// CostImpact is the financial outcome of an allocation. Overrun may be
// negative when the actual allocation came in under plan.
type CostImpact struct {
	PlannedCost decimal.Decimal
	ActualCost  decimal.Decimal
	CostOverrun decimal.Decimal
}

// Rates maps resources to their daily rate. Missing entries price at zero,
// matching resources with no rate configured.
type Rates map[ResourceID]decimal.Decimal

func (r Rates) rateFor(id *ResourceID) decimal.Decimal {
	if id == nil {
		return decimal.Zero
	}
	return r[*id]
}

// AssignmentCost prices one assignment: billable days (window plus travel)
// times the resource's daily rate. Unassigned placeholders cost zero.
func AssignmentCost(a Assignment, rates Rates) decimal.Decimal {
	rate := rates.rateFor(a.ResourceID)
	return rate.Mul(decimal.NewFromInt(int64(a.BillableDays())))
}

// TotalCost sums AssignmentCost over a set, skipping soft-deleted rows.
func TotalCost(assignments []Assignment, rates Rates) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assignments {
		if a.Deleted {
			continue
		}
		total = total.Add(AssignmentCost(a, rates))
	}
	return total
}

// ComputeCostImpact compares a planned allocation against the actual one.
// Both sides use the same per-assignment arithmetic: sum of billable days
// times rate. Pure function over already-validated records; it performs no
// conflict checking of its own.
//
// The substitution scenario falls out directly: a 30-day plan at 1000/day
// split into 25 days of the original resource plus a 5-day substitute at
// 1500/day yields planned 30000, actual 32500, overrun 2500.
func ComputeCostImpact(planned, actual []Assignment, rates Rates) CostImpact {
	plannedCost := TotalCost(planned, rates)
	actualCost := TotalCost(actual, rates)
	return CostImpact{
		PlannedCost: plannedCost,
		ActualCost:  actualCost,
		CostOverrun: actualCost.Sub(plannedCost),
	}
}

// PlannedBaseline reconstructs the original plan from a committed set of
// assignments: the union of every covered day, priced at the primary
// resource's rate. The primary resource is the one on the earliest-starting
// assignment - the resource the work was planned around before any split or
// substitution. Returns an empty set when there are no live assignments.
func PlannedBaseline(assignments []Assignment, rates Rates) []Assignment {
	var primary *Assignment
	covered := make(map[Date]bool)

	for i := range assignments {
		a := &assignments[i]
		if a.Deleted {
			continue
		}
		for _, d := range a.Window.Days() {
			covered[d] = true
		}
		// Travel days extend the covered span on both sides.
		for t := 1; t <= a.TravelOutDays; t++ {
			covered[a.Window.Start.AddDays(-t)] = true
		}
		for t := 1; t <= a.TravelBackDays; t++ {
			covered[a.Window.End.AddDays(t)] = true
		}
		if primary == nil || a.Window.Start.Before(primary.Window.Start) {
			primary = a
		}
	}
	if primary == nil {
		return nil
	}

	var first, last Date
	for d := range covered {
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}

	// One synthetic assignment per contiguous run of covered days, all
	// attributed to the primary resource.
	var baseline []Assignment
	var runStart *Date
	for d := first; d.BeforeOrEqual(last.AddDays(1)); d = d.AddDays(1) {
		if covered[d] {
			if runStart == nil {
				start := d
				runStart = &start
			}
			continue
		}
		if runStart != nil {
			baseline = append(baseline, Assignment{
				ProjectID:  primary.ProjectID,
				ResourceID: primary.ResourceID,
				Window:     Interval{Start: *runStart, End: d.AddDays(-1)},
			})
			runStart = nil
		}
	}
	return baseline
}
