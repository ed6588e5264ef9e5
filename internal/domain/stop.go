package domain

import (
	"time"

	"github.com/google/uuid"
)

type StopType string

const (
	StopPickup  StopType = "pickup"
	StopDropoff StopType = "dropoff"
	StopSolo    StopType = "solo"
)

// Stop is one pickup, dropoff or solo-walk event in an optimizer-supplied
// sequence. WalkGroupID links a pickup to its later dropoff(s) when several
// pets are walked together. Windows are absolute times on the walk date.
type Stop struct {
	ID              string
	AppointmentID   uuid.UUID
	WalkGroupID     string
	StopType        StopType
	Coordinates     Coordinates
	WindowStart     *time.Time
	WindowEnd       *time.Time
	ServiceDuration time.Duration
	PetName         string
	Address         string
}

// TimedStop is a Stop annotated with the simulated walkthrough timing.
// StopNumber is the 1-based input position; the simulator never reorders.
type TimedStop struct {
	Stop
	ArrivalTime               time.Time
	DistanceFromPreviousMiles float64
	TravelTimeFromPrevious    time.Duration
	StopNumber                int
	TimingUnreliable          bool
}
