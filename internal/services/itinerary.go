package services

import (
	"context"
	"fmt"
	"time"
	"walk-schedule-service/internal/domain"
	"walk-schedule-service/internal/ports"
)

type BuildItineraryRequest struct {
	Date            domain.Date
	WalkingSpeedMph float64
	Now             time.Time
}

type Itinerary struct {
	Date        domain.Date
	Stops       []domain.TimedStop
	Diagnostics []Diagnostic
}

// BuildItinerary produces the day's timed walkthrough: resolve the date's
// occurrences, hand them to the external optimizer for an ordered stop
// sequence, then simulate that sequence. It is re-run from scratch on every
// call; there is no incremental update path.
func BuildItinerary(
	ctx context.Context,
	req BuildItineraryRequest,
	repo ports.AppointmentRepository,
	provider ports.StopSequenceProvider,
) (*Itinerary, error) {
	defs, err := repo.ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("build itinerary: list definitions: %w", err)
	}

	day := domain.DateRange{Start: req.Date, End: req.Date}
	occurrences, diags := ListOccurrences(defs, day)

	stops := []domain.Stop{}
	if len(occurrences) > 0 {
		stops, err = provider.GetStopSequence(ctx, req.Date, occurrences)
		if err != nil {
			return nil, fmt.Errorf("build itinerary: get stop sequence for %s: %w", req.Date, err)
		}
		if stops == nil {
			stops = []domain.Stop{}
		}
	}

	timed, simDiags, err := SimulateTimeline(stops, req.WalkingSpeedMph, req.Now)
	if err != nil {
		return nil, fmt.Errorf("build itinerary: %w", err)
	}

	return &Itinerary{
		Date:        req.Date,
		Stops:       timed,
		Diagnostics: append(diags, simDiags...),
	}, nil
}
