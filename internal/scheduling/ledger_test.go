package scheduling

import (
	"fmt"
	"math/rand"
	"testing"
	"time"
)

func TestQuantityOf(t *testing.T) {
	t.Parallel()

	session := Session{
		Allocations: []Allocation{
			{ResourceID: "projector", Quantity: 2},
			{ResourceID: "microphone", Quantity: 1},
		},
	}

	if got := QuantityOf(session, "projector"); got != 2 {
		t.Fatalf("QuantityOf(projector) = %d, want 2", got)
	}
	if got := QuantityOf(session, "whiteboard"); got != 0 {
		t.Fatalf("QuantityOf(whiteboard) = %d, want 0", got)
	}
}

func TestAllocatedQuantity(t *testing.T) {
	t.Parallel()

	sessions := []Session{
		{ID: "s1", Start: at(10, 0), End: at(11, 0), Allocations: []Allocation{{ResourceID: "projector", Quantity: 2}}},
		{ID: "s2", Start: at(10, 30), End: at(11, 30), Allocations: []Allocation{{ResourceID: "projector", Quantity: 1}}},
		{ID: "s3", Start: at(12, 0), End: at(13, 0), Allocations: []Allocation{{ResourceID: "projector", Quantity: 5}}},
		{ID: "s4", Start: at(10, 0), End: at(11, 0), Allocations: []Allocation{{ResourceID: "microphone", Quantity: 3}}},
	}

	cases := []struct {
		name       string
		start, end time.Time
		exclude    string
		want       int
	}{
		{"sums all overlapping claimants", at(10, 15), at(10, 45), "", 3},
		{"partial overlap of two windows", at(10, 45), at(11, 15), "", 3},
		{"boundary touch is free", at(11, 30), at(12, 0), "", 0},
		{"exclusion skips own allocation", at(10, 0), at(11, 0), "s1", 1},
		{"other resources are not charged", at(9, 0), at(14, 0), "s1", 6},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := AllocatedQuantity(sessions, "projector", tc.start, tc.end, tc.exclude)
			if got != tc.want {
				t.Fatalf("AllocatedQuantity = %d, want %d", got, tc.want)
			}
		})
	}
}

// TestLedgerAdmissionNeverOverbooks drives random admission decisions through
// AllocatedQuantity and then verifies, with an independent sweep over every
// interval boundary, that concurrent usage never exceeds capacity.
func TestLedgerAdmissionNeverOverbooks(t *testing.T) {
	t.Parallel()

	const (
		totalQuantity = 5
		resourceID    = "projector"
		rounds        = 200
	)

	rng := rand.New(rand.NewSource(42))
	var admitted []Session

	for i := 0; i < rounds; i++ {
		start := at(rng.Intn(24), 15*rng.Intn(4))
		end := start.Add(time.Duration(30+15*rng.Intn(8)) * time.Minute)
		requested := 1 + rng.Intn(3)

		allocated := AllocatedQuantity(admitted, resourceID, start, end, "")
		if requested <= totalQuantity-allocated {
			admitted = append(admitted, Session{
				ID:          fmt.Sprintf("s-%d", i),
				Start:       start,
				End:         end,
				Allocations: []Allocation{{ResourceID: resourceID, Quantity: requested}},
			})
		}
	}

	if len(admitted) == 0 {
		t.Fatal("expected at least one admitted session")
	}

	// Maximum concurrent usage can only change at interval starts.
	for _, probe := range admitted {
		usage := 0
		for _, session := range admitted {
			if !session.Start.After(probe.Start) && session.End.After(probe.Start) {
				usage += QuantityOf(session, resourceID)
			}
		}
		if usage > totalQuantity {
			t.Fatalf("usage %d at %v exceeds capacity %d", usage, probe.Start, totalQuantity)
		}
	}
}
