package scheduling

import "time"

// Session is the scheduling-relevant projection of a conference session.
type Session struct {
	ID           string
	ConferenceID string
	RoomID       *string
	Start        time.Time
	End          time.Time
	Allocations  []Allocation
}

// Allocation is a claim on shared resource capacity for a session's time window.
type Allocation struct {
	ResourceID string
	Quantity   int
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. Back-to-back intervals touching at a
// single boundary instant do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// RoomConflict identifies an existing session a candidate collides with,
// carrying enough detail for a user-facing message.
type RoomConflict struct {
	WithSessionID string
	RoomID        string
	Start         time.Time
	End           time.Time
}

// FindRoomConflict returns the first existing session occupying the
// candidate's room during an overlapping interval. Room occupancy is keyed
// on room and time alone: sessions belonging to other conferences still
// conflict. Sessions without a room never conflict, and a session never
// conflicts with its own stored state.
func FindRoomConflict(existing []Session, candidate Session) (RoomConflict, bool) {
	if candidate.RoomID == nil {
		return RoomConflict{}, false
	}

	for _, other := range existing {
		if other.ID == candidate.ID || other.RoomID == nil {
			continue
		}
		if *other.RoomID != *candidate.RoomID {
			continue
		}
		if Overlaps(other.Start, other.End, candidate.Start, candidate.End) {
			return RoomConflict{
				WithSessionID: other.ID,
				RoomID:        *other.RoomID,
				Start:         other.Start,
				End:           other.End,
			}, true
		}
	}

	return RoomConflict{}, false
}
