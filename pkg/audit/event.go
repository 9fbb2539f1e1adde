// Package audit provides audit logging of controller invocations.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/afc-network/afcctl/pkg/dispatch"
)

// Event is one recorded invocation and its outcome.
type Event struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	User       string        `json:"user"`
	Controller string        `json:"controller"`
	Command    string        `json:"command"`
	Operation  string        `json:"operation"`
	Variant    string        `json:"variant,omitempty"`
	Target     string        `json:"target,omitempty"`
	Success    bool          `json:"success"`
	Changed    bool          `json:"changed"`
	Message    string        `json:"message"`
	CheckMode  bool          `json:"check_mode,omitempty"`
	TokenBased bool          `json:"token_based"`
	Task       string        `json:"task,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Controller  string
	User        string
	Command     string
	Operation   string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(user, controller, command, operation string) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		User:       user,
		Controller: controller,
		Command:    command,
		Operation:  operation,
	}
}

// FromReport builds an event from a finished invocation.
func FromReport(r dispatch.Report) *Event {
	e := NewEvent(r.User, r.Controller, r.Command, r.Operation)
	if !r.Started.IsZero() {
		e.Timestamp = r.Started
	}
	e.Variant = r.Variant
	e.Target = r.Target
	e.CheckMode = r.CheckMode
	e.TokenBased = r.TokenBased
	e.Duration = r.Duration
	return e.WithOutcome(r.Outcome)
}

// WithOutcome copies the result of the invocation
func (e *Event) WithOutcome(o dispatch.Outcome) *Event {
	e.Success = o.Success
	e.Changed = o.Changed
	e.Message = o.Message
	return e
}

// WithTask names the apply task the event belongs to
func (e *Event) WithTask(name string) *Event {
	e.Task = name
	return e
}

// WithDuration sets the operation duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}
