package domain

import "github.com/google/uuid"

// Occurrence is a single concrete calendar-date instance of an appointment
// definition. It is derived on demand by the resolver and never persisted;
// callers recompute it whenever the definition or query range changes.
type Occurrence struct {
	AppointmentID      uuid.UUID
	Date               Date
	StartTime          TimeOfDay
	EndTime            TimeOfDay
	WalkType           WalkType
	IsDelegated        bool
	CoveringUserID     *uuid.UUID
	CoveringPercentage int
}
