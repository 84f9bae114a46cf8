package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
	memstore "github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling/store"
)

func TestUnavailableDays_MergesAssignmentsAndRecurring(t *testing.T) {
	store := memstore.NewTxMemory()
	e := scheduling.NewEngine(store)
	ctx := context.Background()

	p := createProject(t, e, "PROJ-A", date(2025, time.January, 1), date(2025, time.March, 31))
	r := createResource(t, e, "Alice", 1000)

	// Mon Jan 6 - Wed Jan 8 assigned.
	mustAssign(t, e, p, r, date(2025, time.January, 6), date(2025, time.January, 8))

	// Every Friday blocked all year.
	_, err := e.CreateUnavailability(ctx, r.ID, scheduling.UnavailabilityRecurring,
		date(2025, time.January, 1), date(2025, time.December, 31),
		scheduling.UnavailabilityParams{
			RecurrencePattern: "WEEKLY:FRIDAY",
			Approved:          true,
			ApprovedBy:        "Dana Manager",
		})
	if err != nil {
		t.Fatal(err)
	}

	// Query Mon Jan 6 - Sun Jan 12: expect Jan 6, 7, 8 and Friday Jan 10.
	period := interval(t, date(2025, time.January, 6), date(2025, time.January, 12))
	days, err := scheduling.NewResolver(store).UnavailableDays(ctx, r.ID, period)
	if err != nil {
		t.Fatal(err)
	}

	want := []scheduling.Date{
		date(2025, time.January, 6),
		date(2025, time.January, 7),
		date(2025, time.January, 8),
		date(2025, time.January, 10),
	}
	if len(days) != len(want) {
		t.Fatalf("blocked days = %v, want %v", days, want)
	}
	for i := range want {
		if !days[i].Equal(want[i]) {
			t.Fatalf("blocked days[%d] = %s, want %s", i, days[i], want[i])
		}
	}
}

func TestUnavailableDays_PendingRecordsInvisible(t *testing.T) {
	store := memstore.NewTxMemory()
	e := scheduling.NewEngine(store)
	ctx := context.Background()

	r := createResource(t, e, "Alice", 1000)
	_, err := e.CreateUnavailability(ctx, r.ID, scheduling.UnavailabilityVacation,
		date(2025, time.July, 15), date(2025, time.July, 25), scheduling.UnavailabilityParams{})
	if err != nil {
		t.Fatal(err)
	}

	period := interval(t, date(2025, time.July, 1), date(2025, time.July, 31))
	days, err := scheduling.NewResolver(store).UnavailableDays(ctx, r.ID, period)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 0 {
		t.Fatalf("pending vacation should block nothing, got %v", days)
	}
}
