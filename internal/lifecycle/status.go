// Package lifecycle defines the complaint status machine: the status, priority and
// mood enums, the progress rank of each status, and the transitions staff may apply.
package lifecycle

import "fmt"

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusOpen,
	StatusAssigned,
	StatusInProgress,
	StatusOnHold,
	StatusResolved,
	StatusClosed,
}

// ActiveStatuses are the statuses shown on "needs attention" dashboards.
var ActiveStatuses = []Status{StatusOpen, StatusAssigned, StatusInProgress}

// on_hold shares its rank with in_progress: it is a lateral state, not progress.
var ranks = map[Status]int{
	StatusOpen:       0,
	StatusAssigned:   1,
	StatusInProgress: 2,
	StatusOnHold:     2,
	StatusResolved:   3,
	StatusClosed:     4,
}

// allowedTransitions maps a status to the statuses staff may move it to.
// Keeping the current status is always allowed and is not listed here.
var allowedTransitions = map[Status]map[Status]struct{}{
	StatusOpen: {
		StatusAssigned:   {},
		StatusInProgress: {},
		StatusResolved:   {},
		StatusClosed:     {},
	},
	StatusAssigned: {
		StatusInProgress: {},
		StatusOnHold:     {},
		StatusResolved:   {},
		StatusClosed:     {},
	},
	StatusInProgress: {
		StatusOnHold:   {},
		StatusResolved: {},
		StatusClosed:   {},
	},
	StatusOnHold: {
		StatusInProgress: {},
		StatusResolved:   {},
		StatusClosed:     {},
	},
	StatusResolved: {
		StatusClosed:     {},
		StatusInProgress: {},
	},
	StatusClosed: {},
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := ranks[st]
	return st, ok
}

func (s Status) Valid() bool {
	_, ok := ranks[s]
	return ok
}

// Rank returns the progress ordinal of the status, or -1 for unknown values.
func (s Status) Rank() int {
	if r, ok := ranks[s]; ok {
		return r
	}
	return -1
}

// IsResolution reports whether the status carries a resolution timestamp.
func (s Status) IsResolution() bool {
	return s == StatusResolved || s == StatusClosed
}

// IsActive reports whether the status still needs staff attention.
func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if a == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether a complaint in status from may be moved to status to.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	_, ok := allowedTransitions[from][to]
	return ok
}

// ValidateTransition returns an error when the lifecycle forbids the change.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("cannot move a complaint from %q to %q", from, to)
	}
	return nil
}

// NextStatuses returns the statuses reachable from the given one, in lifecycle order.
func NextStatuses(from Status) []Status {
	next := make([]Status, 0, len(allowedTransitions[from]))
	for _, s := range Statuses {
		if _, ok := allowedTransitions[from][s]; ok {
			next = append(next, s)
		}
	}
	return next
}

// StatusStrings converts statuses to their wire values for query arguments.
func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
