package services

import (
	"fmt"
	"slices"
	"walk-schedule-service/internal/domain"
)

// Pure predicate/enumeration over appointment definitions and dates.
// Recurrence, point cancellations and delegation shares all resolve here so
// that every view (day, week, month, live walk) agrees on what occurs when.

// OccursOn reports whether the definition produces an occurrence on date.
// Delegation never affects this: a delegated occurrence still occurs, it is
// simply performed by someone else.
func OccursOn(def *domain.AppointmentDefinition, date domain.Date) bool {
	if def.CanceledEntirely {
		return false
	}
	if def.CanceledOn(date) {
		return false
	}
	if !def.Recurring {
		return date == def.SingleDate
	}
	return def.Weekdays.Has(date.Weekday())
}

// ResolveOccurrence builds the occurrence for date, or nil when none exists.
// Attribution goes to the first accepted delegation covering the date;
// list order is the documented tie-break when several overlap.
func ResolveOccurrence(def *domain.AppointmentDefinition, date domain.Date) *domain.Occurrence {
	if !OccursOn(def, date) {
		return nil
	}

	occ := &domain.Occurrence{
		AppointmentID: def.ID,
		Date:          date,
		StartTime:     def.StartTime,
		EndTime:       def.EndTime,
		WalkType:      def.WalkType,
	}

	for i := range def.Delegations {
		d := def.Delegations[i]
		if !d.Covers(date) {
			continue
		}
		covering := d.CoveringUserID
		occ.IsDelegated = true
		occ.CoveringUserID = &covering
		occ.CoveringPercentage = d.CoveringPercentage
		break
	}

	return occ
}

// ListOccurrences enumerates every occurrence of the given definitions inside
// the range, sorted by (date, startTime, endTime). That ordering is a
// caller-visible contract the day view renders in.
//
// Malformed definitions are skipped and reported as diagnostics rather than
// failing the whole range query. The result is a pure function of its inputs:
// calling again with the same arguments yields an identical slice.
func ListOccurrences(defs []*domain.AppointmentDefinition, r domain.DateRange) ([]domain.Occurrence, []Diagnostic) {
	occurrences := make([]domain.Occurrence, 0, len(defs))
	var diags []Diagnostic

	for _, def := range defs {
		if reason, ok := malformed(def); ok {
			diags = append(diags, Diagnostic{
				Kind:    DiagMalformedDefinition,
				Subject: def.ID.String(),
				Detail:  reason,
			})
			continue
		}

		for date := range r.Days() {
			occ := ResolveOccurrence(def, date)
			if occ == nil {
				continue
			}
			if d, ok := overlappingDelegations(def, date); ok {
				diags = append(diags, d)
			}
			occurrences = append(occurrences, *occ)
		}
	}

	slices.SortStableFunc(occurrences, func(a, b domain.Occurrence) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if a.StartTime != b.StartTime {
			return int(a.StartTime) - int(b.StartTime)
		}
		return int(a.EndTime) - int(b.EndTime)
	})

	return occurrences, diags
}

func malformed(def *domain.AppointmentDefinition) (string, bool) {
	if def.Recurring && def.Weekdays.Count() == 0 {
		return "recurring definition has no weekday flags", true
	}
	if !def.Recurring && def.SingleDate.IsZero() {
		return "non-recurring definition has no date", true
	}
	return "", false
}

// overlappingDelegations flags dates claimed by more than one accepted
// delegation. Precedence is silent (first in list wins) because the UI must
// stay responsive, but the overlap is still worth surfacing.
func overlappingDelegations(def *domain.AppointmentDefinition, date domain.Date) (Diagnostic, bool) {
	covering := 0
	for _, d := range def.Delegations {
		if d.Covers(date) {
			covering++
		}
	}
	if covering < 2 {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Kind:    DiagAmbiguousDelegation,
		Subject: def.ID.String(),
		Detail:  fmt.Sprintf("%d accepted delegations cover %s; first-created wins", covering, date),
	}, true
}
