package domain

import "github.com/google/uuid"

type WalkType string

const (
	WalkTypeGroup    WalkType = "group"
	WalkTypeSolo     WalkType = "solo"
	WalkTypeTraining WalkType = "training"
	WalkTypeSibling  WalkType = "sibling"
)

type DelegationStatus string

const (
	DelegationPending  DelegationStatus = "pending"
	DelegationAccepted DelegationStatus = "accepted"
	DelegationDeclined DelegationStatus = "declined"
)

// Delegation is an arrangement under which another walker covers specific
// occurrences of an appointment for a share of the fee.
// AllDates means the delegation covers every date the appointment occurs on;
// otherwise only the dates listed in ShareDates are covered.
type Delegation struct {
	CoveringUserID     uuid.UUID
	Status             DelegationStatus
	AllDates           bool
	ShareDates         []Date
	CoveringPercentage int
}

// Covers reports whether an accepted delegation applies to the given date.
func (d Delegation) Covers(date Date) bool {
	if d.Status != DelegationAccepted {
		return false
	}
	if d.AllDates {
		return true
	}
	for _, sd := range d.ShareDates {
		if sd == date {
			return true
		}
	}
	return false
}

// AppointmentDefinition describes one service appointment as the client set
// it up: either a single visit on SingleDate or a weekly repetition over
// Weekdays. Occurrences are always derived from it, never stored.
type AppointmentDefinition struct {
	ID               uuid.UUID
	Recurring        bool
	Weekdays         WeekdaySet // meaningful only when Recurring
	SingleDate       Date       // meaningful only when !Recurring
	StartTime        TimeOfDay
	EndTime          TimeOfDay
	DurationMinutes  int
	WalkType         WalkType
	CanceledEntirely bool
	Cancellations    []Date
	Delegations      []Delegation
}

// CanceledOn reports whether this specific date was point-cancelled.
// A cancellation always beats any delegation share on the same date.
func (a *AppointmentDefinition) CanceledOn(date Date) bool {
	for _, c := range a.Cancellations {
		if c == date {
			return true
		}
	}
	return false
}
