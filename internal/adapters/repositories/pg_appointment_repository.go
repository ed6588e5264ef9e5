package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"walk-schedule-service/internal/domain"
	"walk-schedule-service/internal/platform/obs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres-backed implementation of the AppointmentRepository port.
// Schema lives in migrations/ and is applied by cmd/dbtool.
type PgAppointmentRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPgAppointmentRepository(pool *pgxpool.Pool, logger *zap.Logger) *PgAppointmentRepository {
	return &PgAppointmentRepository{pool: pool, logger: logger}
}

func (r *PgAppointmentRepository) ListDefinitions(ctx context.Context) (_ []*domain.AppointmentDefinition, err error) {
	defer obs.Time(ctx, "pg.appointments.ListDefinitions")(&err)

	if r.pool == nil {
		return nil, errors.New("pg appointment repository: pool is nil")
	}

	query := `
	SELECT appointment_id, recurring, weekday_flags, single_date,
	       start_time, end_time, duration_minutes, walk_type, canceled_entirely
	FROM appointments
	ORDER BY appointment_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list definitions: query appointments: %w", err)
	}
	defer rows.Close()

	defs := make([]*domain.AppointmentDefinition, 0, 64)
	byID := make(map[uuid.UUID]*domain.AppointmentDefinition)

	for rows.Next() {
		var (
			idStr, startTime, endTime, walkType string
			singleDate                          sql.NullString
			recurring, canceled                 bool
			flags, durationMinutes              int
		)
		if err := rows.Scan(&idStr, &recurring, &flags, &singleDate, &startTime, &endTime, &durationMinutes, &walkType, &canceled); err != nil {
			return nil, fmt.Errorf("list definitions: scan row: %w", err)
		}

		def, err := buildDefinition(idStr, recurring, flags, singleDate.String, startTime, endTime, durationMinutes, walkType, canceled)
		if err != nil {
			return nil, fmt.Errorf("list definitions: %w", err)
		}

		defs = append(defs, def)
		byID[def.ID] = def
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list definitions: row iteration: %w", err)
	}

	if err := r.attachCancellations(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachDelegations(ctx, byID); err != nil {
		return nil, err
	}

	return defs, nil
}

func (r *PgAppointmentRepository) attachCancellations(ctx context.Context, byID map[uuid.UUID]*domain.AppointmentDefinition) error {
	rows, err := r.pool.Query(ctx, `SELECT appointment_id, canceled_date FROM cancellations;`)
	if err != nil {
		return fmt.Errorf("list definitions: query cancellations: %w", err)
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

func (r *PgAppointmentRepository) attachDelegations(ctx context.Context, byID map[uuid.UUID]*domain.AppointmentDefinition) error {
	query := `
	SELECT appointment_id, covering_user_id, status, all_dates, share_dates, covering_percentage
	FROM delegations
	ORDER BY appointment_id, delegation_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("list definitions: query delegations: %w", err)
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

func (r *PgAppointmentRepository) CancelDate(ctx context.Context, appointmentID uuid.UUID, date domain.Date) (err error) {
	defer obs.Time(ctx, "pg.appointments.CancelDate")(&err)

	query := `
	INSERT INTO cancellations (appointment_id, canceled_date)
	VALUES ($1, $2)
	ON CONFLICT (appointment_id, canceled_date) DO NOTHING;
	`
	if _, err := r.pool.Exec(ctx, query, appointmentID.String(), date.String()); err != nil {
		return fmt.Errorf("cancel date %s for %s: %w", date, appointmentID, err)
	}

	r.logger.Info("occurrence cancelled",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("date", date.String()),
	)
	return nil
}

func (r *PgAppointmentRepository) AddDelegation(ctx context.Context, appointmentID uuid.UUID, delegation domain.Delegation) (err error) {
	defer obs.Time(ctx, "pg.appointments.AddDelegation")(&err)

	shareDates, err := marshalShareDates(delegation.ShareDates)
	if err != nil {
		return fmt.Errorf("add delegation for %s: %w", appointmentID, err)
	}

	query := `
	INSERT INTO delegations (appointment_id, covering_user_id, status, all_dates, share_dates, covering_percentage)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := r.pool.Exec(ctx, query,
		appointmentID.String(),
		delegation.CoveringUserID.String(),
		string(delegation.Status),
		delegation.AllDates,
		shareDates,
		delegation.CoveringPercentage,
	); err != nil {
		return fmt.Errorf("add delegation for %s: %w", appointmentID, err)
	}

	r.logger.Info("delegation recorded",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("covering_user_id", delegation.CoveringUserID.String()),
	)
	return nil
}
