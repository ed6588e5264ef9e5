package services

import (
	"errors"
	"fmt"
	"math"
	"time"
	"walk-schedule-service/internal/domain"
)

// Fixed per-stop handling times. Solo stops have no separate walk phase:
// pickup and walk are the same event, so the full service duration applies.
const (
	pickupServiceTime  = 5 * time.Minute
	dropoffServiceTime = 2 * time.Minute
)

// SimulateTimeline reconstructs a time-annotated walkthrough of an
// already-ordered stop sequence. It simulates travel (great-circle distance
// at the given walking speed), waiting on time windows, shared walk durations
// and per-stop service time. It never reorders stops and never rejects a
// data-quality problem; degraded input is flagged and reported.
//
// The clock starts at the earliest declared window start, or now when no
// stop declares one. Arrival times are non-decreasing across the output.
func SimulateTimeline(stops []domain.Stop, walkingSpeedMph float64, now time.Time) ([]domain.TimedStop, []Diagnostic, error) {
	if stops == nil {
		return nil, nil, errors.New("simulate timeline: stops must be non-nil")
	}
	if walkingSpeedMph <= 0 || math.IsNaN(walkingSpeedMph) || math.IsInf(walkingSpeedMph, 0) {
		return nil, nil, fmt.Errorf("simulate timeline: walking speed must be positive, got %v", walkingSpeedMph)
	}

	current := startTime(stops, now)

	timed := make([]domain.TimedStop, 0, len(stops))
	var diags []Diagnostic
	walkedGroups := make(map[string]struct{})

	for i, stop := range stops {
		ts := domain.TimedStop{
			Stop:       stop,
			StopNumber: i + 1,
		}

		if !stop.Coordinates.Valid() {
			ts.TimingUnreliable = true
			diags = append(diags, Diagnostic{
				Kind:    DiagDegradedGeodata,
				Subject: stop.ID,
				Detail:  "missing or non-finite coordinates; incoming leg treated as zero travel",
			})
		}

		if i > 0 {
			prev := stops[i-1]
			if stop.Coordinates.Valid() && prev.Coordinates.Valid() {
				miles := domain.HaversineMiles(prev.Coordinates, stop.Coordinates)
				travel := time.Duration(miles / walkingSpeedMph * 60 * float64(time.Minute))
				current = current.Add(travel)
				ts.DistanceFromPreviousMiles = math.Round(miles*100) / 100
				ts.TravelTimeFromPrevious = travel
			} else if !prev.Coordinates.Valid() {
				// The previous stop's geodata was bad, so this leg is
				// unknowable too; the arrival time cannot be trusted.
				ts.TimingUnreliable = true
			}
		}

		// The walker waits out an early arrival; time never moves backward.
		if (stop.StopType == domain.StopPickup || stop.StopType == domain.StopSolo) &&
			stop.WindowStart != nil && current.Before(*stop.WindowStart) {
			current = *stop.WindowStart
		}

		// The shared walk happens between picking the group up and the first
		// dropoff, so its duration lands on the clock exactly once per group.
		if stop.StopType == domain.StopDropoff && stop.WalkGroupID != "" {
			if _, done := walkedGroups[stop.WalkGroupID]; !done {
				walkedGroups[stop.WalkGroupID] = struct{}{}
				current = current.Add(stop.ServiceDuration)
			}
		}

		ts.ArrivalTime = current

		if stop.WindowEnd != nil && current.After(*stop.WindowEnd) {
			diags = append(diags, Diagnostic{
				Kind:    DiagWindowViolation,
				Subject: stop.ID,
				Detail: fmt.Sprintf("arrival %s is after window end %s",
					current.Format("15:04"), stop.WindowEnd.Format("15:04")),
			})
		}

		timed = append(timed, ts)

		switch stop.StopType {
		case domain.StopPickup:
			current = current.Add(pickupServiceTime)
		case domain.StopDropoff:
			current = current.Add(dropoffServiceTime)
		case domain.StopSolo:
			current = current.Add(stop.ServiceDuration)
		}
	}

	return timed, diags, nil
}

// startTime picks the earliest declared window start, falling back to now
// when no stop carries a window.
func startTime(stops []domain.Stop, now time.Time) time.Time {
	var earliest *time.Time
	for _, s := range stops {
		if s.WindowStart == nil {
			continue
		}
		if earliest == nil || s.WindowStart.Before(*earliest) {
			w := *s.WindowStart
			earliest = &w
		}
	}
	if earliest == nil {
		return now
	}
	return *earliest
}
