package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createAppointmentsQuery := `
	CREATE TABLE IF NOT EXISTS appointments (
		appointment_id TEXT PRIMARY KEY,
		recurring INTEGER NOT NULL,
		weekday_flags INTEGER NOT NULL DEFAULT 0,
		single_date TEXT,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		walk_type TEXT NOT NULL,
		canceled_entirely INTEGER NOT NULL DEFAULT 0
	);
	`

	createCancellationsQuery := `
	CREATE TABLE IF NOT EXISTS cancellations (
		appointment_id TEXT NOT NULL,
		canceled_date TEXT NOT NULL,
		PRIMARY KEY (appointment_id, canceled_date)
	);
	`

	// delegation_id preserves creation order; the resolver's tie-break
	// (first-created wins) depends on reading them back in this order.
	createDelegationsQuery := `
	CREATE TABLE IF NOT EXISTS delegations (
		delegation_id INTEGER PRIMARY KEY AUTOINCREMENT,
		appointment_id TEXT NOT NULL,
		covering_user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		all_dates INTEGER NOT NULL DEFAULT 0,
		share_dates TEXT NOT NULL DEFAULT '[]',
		covering_percentage INTEGER NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_delegations_appointment
    ON delegations(appointment_id, delegation_id);
	`

	statements := []string{
		createAppointmentsQuery,
		createCancellationsQuery,
		createDelegationsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type AppointmentSeed struct {
	AppointmentID   string   `json:"appointment_id"`
	Recurring       bool     `json:"recurring"`
	Weekdays        []string `json:"weekdays"`
	SingleDate      string   `json:"single_date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationMinutes int      `json:"duration_minutes"`
	WalkType        string   `json:"walk_type"`
}

var weekdayByName = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// Populate the database with appointment data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed appointments: read %q: %w", jsonPath, err)
	}

	var data []AppointmentSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed appointments: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed appointments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO appointments (
		appointment_id,
		recurring,
		weekday_flags,
		single_date,
		start_time,
		end_time,
		duration_minutes,
		walk_type,
		canceled_entirely
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed appointments: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range data {
		id := strings.TrimSpace(item.AppointmentID)
		if id == "" {
			return fmt.Errorf("seed appointments: missing appointment_id at index %d", i+1)
		}

		flags := 0
		for _, name := range item.Weekdays {
			wd, ok := weekdayByName[strings.TrimSpace(name)]
			if !ok {
				return fmt.Errorf("seed appointments: unknown weekday %q for %s", name, id)
			}
			flags |= 1 << uint(wd)
		}

		if _, err := stmt.Exec(
			id,
			item.Recurring,
			flags,
			item.SingleDate,
			item.StartTime,
			item.EndTime,
			item.DurationMinutes,
			item.WalkType,
		); err != nil {
			return fmt.Errorf("seed appointments: insert appointment_id=%s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed appointments: commit tx: %w", err)
	}

	return nil
}
