package leads

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	vehicle_brand TEXT NOT NULL,
	vehicle_model TEXT NOT NULL,
	vehicle_first_registration_year INTEGER NOT NULL,
	vehicle_mileage_km INTEGER NOT NULL,
	vehicle_condition TEXT NOT NULL,
	contact_name TEXT NOT NULL,
	contact_email TEXT NOT NULL,
	contact_phone TEXT NOT NULL,
	meta_source TEXT NOT NULL,
	meta_consent INTEGER NOT NULL,
	meta_user_agent TEXT,
	meta_ip TEXT,
	status TEXT NOT NULL DEFAULT 'new',
	notes TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(contact_email);
`

// SQLiteRepository stores leads in an embedded SQLite database. It is the
// default backend: the service runs on a single host and the write volume
// is a handful of leads per day.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository opens (creating if necessary) the database at path
// and ensures the schema exists. Use ":memory:" for an ephemeral store.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("leads: create data dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("leads: open sqlite: %w", err)
	}
	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY under concurrent intake calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("leads: init schema: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// Save inserts a new row.
func (r *SQLiteRepository) Save(ctx context.Context, lead *Lead) error {
	consent := 0
	if lead.Meta.Consent {
		consent = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (
			id, timestamp,
			vehicle_brand, vehicle_model, vehicle_first_registration_year, vehicle_mileage_km, vehicle_condition,
			contact_name, contact_email, contact_phone,
			meta_source, meta_consent, meta_user_agent, meta_ip,
			status, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID,
		lead.Timestamp.UTC().Format(time.RFC3339Nano),
		lead.Vehicle.Brand,
		lead.Vehicle.Model,
		lead.Vehicle.FirstRegistrationYear,
		lead.Vehicle.MileageKm,
		lead.Vehicle.Condition,
		lead.Contact.Name,
		lead.Contact.Email,
		lead.Contact.Phone,
		lead.Meta.Source,
		consent,
		lead.Meta.UserAgent,
		lead.Meta.IP,
		lead.Status,
		lead.Notes,
		lead.CreatedAt.UTC().Format(time.RFC3339Nano),
		lead.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

const sqliteSelectColumns = `
	id, timestamp,
	vehicle_brand, vehicle_model, vehicle_first_registration_year, vehicle_mileage_km, vehicle_condition,
	contact_name, contact_email, contact_phone,
	meta_source, meta_consent, meta_user_agent, meta_ip,
	status, notes, created_at, updated_at`

// ListAll returns every lead ordered newest-first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*Lead, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sqliteSelectColumns+` FROM leads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: iterate rows: %w", err)
	}
	return out, nil
}

// GetByID fetches one lead or ErrLeadNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sqliteSelectColumns+` FROM leads WHERE id = ?`, id)
	lead, err := scanSQLiteLead(row)
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateStatus sets the workflow status and notes and bumps updated_at.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		status, notes, r.now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("leads: update failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("leads: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Delete removes a lead by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("leads: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Stats computes dashboard statistics.
func (r *SQLiteRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{StatusCounts: make(map[string]int)}

	now := r.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339Nano)
	weekAgo := now.Add(-7 * 24 * time.Hour).Format(time.RFC3339Nano)

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("leads: stats total: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at >= ?`, startOfDay).Scan(&stats.Today); err != nil {
		return nil, fmt.Errorf("leads: stats today: %w", err)
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at >= ?`, weekAgo).Scan(&stats.ThisWeek); err != nil {
		return nil, fmt.Errorf("leads: stats week: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("leads: stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("leads: scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: iterate status counts: %w", err)
	}
	return stats, nil
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error { return r.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLead(row rowScanner) (*Lead, error) {
	var (
		lead                 Lead
		timestamp            string
		createdAt, updatedAt string
		consent              int
		userAgent, ip, notes sql.NullString
	)
	err := row.Scan(
		&lead.ID,
		&timestamp,
		&lead.Vehicle.Brand,
		&lead.Vehicle.Model,
		&lead.Vehicle.FirstRegistrationYear,
		&lead.Vehicle.MileageKm,
		&lead.Vehicle.Condition,
		&lead.Contact.Name,
		&lead.Contact.Email,
		&lead.Contact.Phone,
		&lead.Meta.Source,
		&consent,
		&userAgent,
		&ip,
		&lead.Status,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("leads: scan failed: %w", err)
	}

	lead.Meta.Consent = consent == 1
	lead.Meta.UserAgent = userAgent.String
	lead.Meta.IP = ip.String
	lead.Notes = notes.String
	if lead.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
		return nil, fmt.Errorf("leads: parse timestamp: %w", err)
	}
	if lead.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("leads: parse created_at: %w", err)
	}
	if lead.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("leads: parse updated_at: %w", err)
	}
	return &lead, nil
}

var _ Repository = (*SQLiteRepository)(nil)
