package order

import "time"

// Timestamps records the first arrival of an order in each status. A field,
// once set, is never overwritten.
type Timestamps struct {
	PendingAt    *time.Time
	InProgressAt *time.Time
	ReadyAt      *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// At returns the instant the order first entered s, or nil.
func (t Timestamps) At(s Status) *time.Time {
	if p := t.field(s); p != nil {
		return *p
	}
	return nil
}

// stamp sets the timestamp for s to now if it is unset and reports whether it
// did.
func (t *Timestamps) stamp(s Status, now time.Time) bool {
	p := t.field(s)
	if p == nil || *p != nil {
		return false
	}
	at := now.UTC()
	*p = &at
	return true
}

func (t *Timestamps) field(s Status) **time.Time {
	switch s {
	case Pending:
		return &t.PendingAt
	case InProgress:
		return &t.InProgressAt
	case Ready:
		return &t.ReadyAt
	case Completed:
		return &t.CompletedAt
	case Cancelled:
		return &t.CancelledAt
	default:
		return nil
	}
}
