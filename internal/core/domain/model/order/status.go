package order

import (
	"fmt"

	"orderengine/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown is the zero value and never stored.
	Unknown Status = iota

	// Pending is the state every order is created in.
	Pending

	// InProgress means the kitchen has started preparing the order.
	InProgress

	// Ready means the order can be picked up or dispatched.
	Ready

	// Completed is terminal: the order was handed over.
	Completed

	// Cancelled is terminal and reachable from any non-terminal state.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Pending:    "PENDING",
		InProgress: "IN_PROGRESS",
		Ready:      "READY",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// getTransitions lists, for every state, the states it may move to.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {InProgress, Ready, Completed, Cancelled},
		InProgress: {Ready, Completed, Cancelled},
		Ready:      {Completed, Cancelled},
		Completed:  {},
		Cancelled:  {},
	}
}

// AllStatuses returns the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, InProgress, Ready, Completed, Cancelled}
}

// ParseStatus accepts the names returned by String.
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses() {
		if getStatusStrings()[st] == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal is true for Completed and Cancelled.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next if the move is allowed. Moving to the same status is
// not a transition and is rejected here; Order.TransitionTo treats it as a no-op.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewConflictError("status", fmt.Sprintf("%s cannot move to %s", s, next))
	}
	return next, nil
}
