package scheduling

import (
	"testing"
	"time"
)

var base = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func strptr(value string) *string {
	return &value
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"identical intervals", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"containment", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"boundary touch does not overlap", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"disjoint", at(10, 0), at(11, 0), at(13, 0), at(14, 0), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps(%v, %v, %v, %v) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// The relation is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestFindRoomConflict(t *testing.T) {
	t.Parallel()

	existing := []Session{
		{ID: "s1", ConferenceID: "c1", RoomID: strptr("room-a"), Start: at(10, 0), End: at(11, 0)},
		{ID: "s2", ConferenceID: "c1", RoomID: strptr("room-b"), Start: at(10, 0), End: at(11, 0)},
		{ID: "s3", ConferenceID: "c1", Start: at(10, 0), End: at(11, 0)},
	}

	t.Run("same room overlap conflicts", func(t *testing.T) {
		t.Parallel()

		conflict, found := FindRoomConflict(existing, Session{
			ID: "candidate", ConferenceID: "c1", RoomID: strptr("room-a"), Start: at(10, 30), End: at(11, 30),
		})
		if !found {
			t.Fatal("expected a room conflict")
		}
		if conflict.WithSessionID != "s1" {
			t.Fatalf("conflicting session = %q, want s1", conflict.WithSessionID)
		}
		if conflict.RoomID != "room-a" {
			t.Fatalf("conflict room = %q, want room-a", conflict.RoomID)
		}
	})

	t.Run("cross conference overlap still conflicts", func(t *testing.T) {
		t.Parallel()

		_, found := FindRoomConflict(existing, Session{
			ID: "candidate", ConferenceID: "c2", RoomID: strptr("room-a"), Start: at(10, 30), End: at(11, 30),
		})
		if !found {
			t.Fatal("expected conflict regardless of conference")
		}
	})

	t.Run("different room does not conflict", func(t *testing.T) {
		t.Parallel()

		if _, found := FindRoomConflict(existing, Session{
			ID: "candidate", RoomID: strptr("room-c"), Start: at(10, 0), End: at(11, 0),
		}); found {
			t.Fatal("unexpected conflict in a free room")
		}
	})

	t.Run("boundary touch does not conflict", func(t *testing.T) {
		t.Parallel()

		if _, found := FindRoomConflict(existing, Session{
			ID: "candidate", RoomID: strptr("room-a"), Start: at(11, 0), End: at(12, 0),
		}); found {
			t.Fatal("back-to-back sessions must not conflict")
		}
	})

	t.Run("candidate without room never conflicts", func(t *testing.T) {
		t.Parallel()

		if _, found := FindRoomConflict(existing, Session{
			ID: "candidate", Start: at(10, 0), End: at(11, 0),
		}); found {
			t.Fatal("room-less session must not conflict")
		}
	})

	t.Run("session is excluded against its own stored state", func(t *testing.T) {
		t.Parallel()

		if _, found := FindRoomConflict(existing, Session{
			ID: "s1", RoomID: strptr("room-a"), Start: at(10, 0), End: at(11, 0),
		}); found {
			t.Fatal("session must not conflict with itself")
		}
	})
}

func TestWithinWindow(t *testing.T) {
	t.Parallel()

	windowStart := at(0, 0)
	windowEnd := at(48, 0)

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"strictly inside", at(10, 0), at(11, 0), true},
		{"exact bounds", at(0, 0), at(48, 0), true},
		{"starts before window", at(-1, 0), at(11, 0), false},
		{"ends after window", at(10, 0), at(49, 0), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := WithinWindow(windowStart, windowEnd, tc.start, tc.end); got != tc.want {
				t.Fatalf("WithinWindow = %v, want %v", got, tc.want)
			}
		})
	}
}
