package ports

import (
	"context"
	"walk-schedule-service/internal/domain"

	"github.com/google/uuid"
)

// Port: boundary for reading appointment definitions and writing the two
// mutations users make against individual occurrences. The engine itself
// only ever reads; the write methods serve the cancellation and delegation
// endpoints.
type AppointmentRepository interface {
	// Retrieve all definitions with their cancellations and delegations.
	ListDefinitions(ctx context.Context) ([]*domain.AppointmentDefinition, error)
	// Suppress a single occurrence of a definition.
	CancelDate(ctx context.Context, appointmentID uuid.UUID, date domain.Date) error
	// Record a delegation of one or more occurrences to another walker.
	AddDelegation(ctx context.Context, appointmentID uuid.UUID, delegation domain.Delegation) error
}
