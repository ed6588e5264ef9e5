package ports

import (
	"context"
	"walk-schedule-service/internal/domain"
)

// Contract for the external route optimizer. It decides which stops to visit
// and in what order; this service only simulates the order it returns.
type StopSequenceProvider interface {
	// Return the ordered stop sequence for the date's eligible occurrences,
	// with coordinates and time windows attached.
	GetStopSequence(ctx context.Context, date domain.Date, occurrences []domain.Occurrence) ([]domain.Stop, error)
}
