package session

// Event categorizes a status transition for notification purposes.
type Event int

const (
	// EventNone records the sighting without notifying.
	EventNone Event = iota
	// EventNew is the first sighting of an identity that is already open.
	EventNew
	// EventReopened is a previously sold-out slot that is open again.
	// Reopened events outrank new ones in the notification payload.
	EventReopened
)

// Classify applies the per-identity transition table. prev is the stored
// status and seen is false when the identity has never been recorded.
//
//	unseen    -> AVAILABLE  = new
//	unseen    -> SOLD OUT   = none
//	SOLD OUT  -> AVAILABLE  = reopened
//	AVAILABLE -> SOLD OUT   = none
//	unchanged               = none
func Classify(prev Status, seen bool, current Status) Event {
	if !seen {
		if current == StatusAvailable {
			return EventNew
		}
		return EventNone
	}
	if prev == StatusSoldOut && current == StatusAvailable {
		return EventReopened
	}
	return EventNone
}
