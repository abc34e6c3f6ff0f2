package scheduling

import "time"

// QuantityOf returns the quantity a session has allocated for the given
// resource, or zero when the session does not claim it.
func QuantityOf(session Session, resourceID string) int {
	for _, allocation := range session.Allocations {
		if allocation.ResourceID == resourceID {
			return allocation.Quantity
		}
	}
	return 0
}

// AllocatedQuantity sums the quantity of a resource claimed by sessions whose
// interval overlaps [start, end). The session identified by excludeSessionID
// is skipped so an update is not charged for its own stored allocation.
//
// A candidate partially overlapping several existing sessions is charged for
// all of them: the sum is taken over every overlapping claimant, not only
// exact-window matches.
func AllocatedQuantity(sessions []Session, resourceID string, start, end time.Time, excludeSessionID string) int {
	allocated := 0
	for _, session := range sessions {
		if session.ID == excludeSessionID {
			continue
		}
		if !Overlaps(session.Start, session.End, start, end) {
			continue
		}
		allocated += QuantityOf(session, resourceID)
	}
	return allocated
}
