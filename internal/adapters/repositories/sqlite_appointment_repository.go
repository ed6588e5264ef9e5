package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"walk-schedule-service/internal/domain"

	"github.com/google/uuid"
)

// SQLite-backed implementation of the AppointmentRepository port.
type SqliteAppointmentRepository struct{ DB *sql.DB }

func NewSqliteAppointmentRepository(db *sql.DB) *SqliteAppointmentRepository {
	return &SqliteAppointmentRepository{DB: db}
}

// Return all appointment definitions with cancellations and delegations
// attached. Delegations come back in creation order, which the resolver's
// tie-break relies on.
func (s *SqliteAppointmentRepository) ListDefinitions(ctx context.Context) ([]*domain.AppointmentDefinition, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite appointment repository: DB is nil")
	}

	defs, byID, err := s.listAppointments(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.attachCancellations(ctx, byID); err != nil {
		return nil, err
	}

	if err := s.attachDelegations(ctx, byID); err != nil {
		return nil, err
	}

	return defs, nil
}

func (s *SqliteAppointmentRepository) listAppointments(ctx context.Context) ([]*domain.AppointmentDefinition, map[uuid.UUID]*domain.AppointmentDefinition, error) {
	query := `
	SELECT
		appointment_id,
		recurring,
		weekday_flags,
		single_date,
		start_time,
		end_time,
		duration_minutes,
		walk_type,
		canceled_entirely
	FROM appointments
	ORDER BY appointment_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("list definitions: query appointments table: %w", err)
	}
	defer rows.Close()

	defs := make([]*domain.AppointmentDefinition, 0, 64)
	byID := make(map[uuid.UUID]*domain.AppointmentDefinition)

	for rows.Next() {
		var (
			id, startTime, endTime, walkType string
			singleDate                       sql.NullString
			recurring, canceled              bool
			flags, durationMinutes           int
		)
		if err := rows.Scan(&id, &recurring, &flags, &singleDate, &startTime, &endTime, &durationMinutes, &walkType, &canceled); err != nil {
			return nil, nil, fmt.Errorf("list definitions: scan row: %w", err)
		}

		def, err := buildDefinition(id, recurring, flags, singleDate.String, startTime, endTime, durationMinutes, walkType, canceled)
		if err != nil {
			return nil, nil, fmt.Errorf("list definitions: %w", err)
		}

		defs = append(defs, def)
		byID[def.ID] = def
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("list definitions: row iteration: %w", err)
	}

	return defs, byID, nil
}

func (s *SqliteAppointmentRepository) attachCancellations(ctx context.Context, byID map[uuid.UUID]*domain.AppointmentDefinition) error {
	query := `
	SELECT appointment_id, canceled_date
	FROM cancellations;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("list definitions: query cancellations table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var idStr, dateStr string
		if err := rows.Scan(&idStr, &dateStr); err != nil {
			return fmt.Errorf("list definitions: scan cancellation: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("list definitions: cancellation appointment id %q: %w", idStr, err)
		}
		def, ok := byID[id]
		if !ok {
			continue
		}

		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return fmt.Errorf("list definitions: cancellation for %s: %w", idStr, err)
		}
		def.Cancellations = append(def.Cancellations, date)
	}
	return rows.Err()
}

func (s *SqliteAppointmentRepository) attachDelegations(ctx context.Context, byID map[uuid.UUID]*domain.AppointmentDefinition) error {
	query := `
	SELECT appointment_id, covering_user_id, status, all_dates, share_dates, covering_percentage
	FROM delegations
	ORDER BY appointment_id, delegation_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("list definitions: query delegations table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idStr, userStr, status, shareDatesJSON string
			allDates                               bool
			percentage                             int
		)
		if err := rows.Scan(&idStr, &userStr, &status, &allDates, &shareDatesJSON, &percentage); err != nil {
			return fmt.Errorf("list definitions: scan delegation: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("list definitions: delegation appointment id %q: %w", idStr, err)
		}
		def, ok := byID[id]
		if !ok {
			continue
		}

		delegation, err := buildDelegation(userStr, status, allDates, shareDatesJSON, percentage)
		if err != nil {
			return fmt.Errorf("list definitions: delegation for %s: %w", idStr, err)
		}
		def.Delegations = append(def.Delegations, delegation)
	}
	return rows.Err()
}

// Suppress a single occurrence of a definition.
func (s *SqliteAppointmentRepository) CancelDate(ctx context.Context, appointmentID uuid.UUID, date domain.Date) error {
	if s.DB == nil {
		return errors.New("sqlite appointment repository: DB is nil")
	}

	query := `
	INSERT OR REPLACE INTO cancellations (appointment_id, canceled_date)
	VALUES (?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, appointmentID.String(), date.String()); err != nil {
		return fmt.Errorf("cancel date %s for %s: %w", date, appointmentID, err)
	}
	return nil
}

// Record a delegation of one or more occurrences to another walker.
func (s *SqliteAppointmentRepository) AddDelegation(ctx context.Context, appointmentID uuid.UUID, delegation domain.Delegation) error {
	if s.DB == nil {
		return errors.New("sqlite appointment repository: DB is nil")
	}

	shareDates, err := marshalShareDates(delegation.ShareDates)
	if err != nil {
		return fmt.Errorf("add delegation for %s: %w", appointmentID, err)
	}

	query := `
	INSERT INTO delegations (appointment_id, covering_user_id, status, all_dates, share_dates, covering_percentage)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query,
		appointmentID.String(),
		delegation.CoveringUserID.String(),
		string(delegation.Status),
		delegation.AllDates,
		shareDates,
		delegation.CoveringPercentage,
	); err != nil {
		return fmt.Errorf("add delegation for %s: %w", appointmentID, err)
	}
	return nil
}

func buildDefinition(idStr string, recurring bool, flags int, singleDate, startTime, endTime string, durationMinutes int, walkType string, canceled bool) (*domain.AppointmentDefinition, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("appointment id %q: %w", idStr, err)
	}

	start, err := domain.ParseTimeOfDay(startTime)
	if err != nil {
		return nil, fmt.Errorf("appointment %s start: %w", idStr, err)
	}
	end, err := domain.ParseTimeOfDay(endTime)
	if err != nil {
		return nil, fmt.Errorf("appointment %s end: %w", idStr, err)
	}

	def := &domain.AppointmentDefinition{
		ID:               id,
		Recurring:        recurring,
		Weekdays:         domain.WeekdaySet(flags),
		StartTime:        start,
		EndTime:          end,
		DurationMinutes:  durationMinutes,
		WalkType:         domain.WalkType(walkType),
		CanceledEntirely: canceled,
	}

	if !recurring && singleDate != "" {
		date, err := domain.ParseDate(singleDate)
		if err != nil {
			return nil, fmt.Errorf("appointment %s single date: %w", idStr, err)
		}
		def.SingleDate = date
	}

	return def, nil
}

func buildDelegation(userStr, status string, allDates bool, shareDatesJSON string, percentage int) (domain.Delegation, error) {
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return domain.Delegation{}, fmt.Errorf("covering user id %q: %w", userStr, err)
	}

	var raw []string
	if shareDatesJSON != "" {
		if err := json.Unmarshal([]byte(shareDatesJSON), &raw); err != nil {
			return domain.Delegation{}, fmt.Errorf("parse share dates: %w", err)
		}
	}

	shareDates := make([]domain.Date, 0, len(raw))
	for _, s := range raw {
		d, err := domain.ParseDate(s)
		if err != nil {
			return domain.Delegation{}, fmt.Errorf("share date: %w", err)
		}
		shareDates = append(shareDates, d)
	}

	return domain.Delegation{
		CoveringUserID:     userID,
		Status:             domain.DelegationStatus(status),
		AllDates:           allDates,
		ShareDates:         shareDates,
		CoveringPercentage: percentage,
	}, nil
}

func marshalShareDates(dates []domain.Date) (string, error) {
	raw := make([]string, 0, len(dates))
	for _, d := range dates {
		raw = append(raw, d.String())
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("marshal share dates: %w", err)
	}
	return string(b), nil
}
