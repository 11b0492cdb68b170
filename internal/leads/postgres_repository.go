package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Connect opens a pgx pool for the given database URL and wraps it in a
// repository.
func Connect(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("leads: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("leads: ping postgres: %w", err)
	}
	return NewPostgresRepository(pool), nil
}

// Save inserts a new row.
func (r *PostgresRepository) Save(ctx context.Context, lead *Lead) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO leads (
			id, submitted_at,
			vehicle_brand, vehicle_model, vehicle_first_registration_year, vehicle_mileage_km, vehicle_condition,
			contact_name, contact_email, contact_phone,
			meta_source, meta_consent, meta_user_agent, meta_ip,
			status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		lead.ID,
		lead.Timestamp.UTC(),
		lead.Vehicle.Brand,
		lead.Vehicle.Model,
		lead.Vehicle.FirstRegistrationYear,
		lead.Vehicle.MileageKm,
		lead.Vehicle.Condition,
		lead.Contact.Name,
		lead.Contact.Email,
		lead.Contact.Phone,
		lead.Meta.Source,
		lead.Meta.Consent,
		lead.Meta.UserAgent,
		lead.Meta.IP,
		lead.Status,
		lead.Notes,
		lead.CreatedAt.UTC(),
		lead.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

const pgSelectColumns = `
	id, submitted_at,
	vehicle_brand, vehicle_model, vehicle_first_registration_year, vehicle_mileage_km, vehicle_condition,
	contact_name, contact_email, contact_phone,
	meta_source, meta_consent, meta_user_agent, meta_ip,
	status, COALESCE(notes, ''), created_at, updated_at`

// ListAll returns every lead ordered newest-first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Lead, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+pgSelectColumns+` FROM leads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanPgLead(rows)
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
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pgSelectColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanPgLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateStatus sets the workflow status and notes and bumps updated_at.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET status = $1, notes = $2, updated_at = now() WHERE id = $3`,
		status, notes, id)
	if err != nil {
		return fmt.Errorf("leads: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Delete removes a lead by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Stats computes dashboard statistics.
func (r *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{StatusCounts: make(map[string]int)}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now())),
		       COUNT(*) FILTER (WHERE created_at >= now() - interval '7 days')
		FROM leads`).Scan(&stats.Total, &stats.Today, &stats.ThisWeek)
	if err != nil {
		return nil, fmt.Errorf("leads: stats counts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
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

// Close releases the pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func scanPgLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	var submittedAt, createdAt, updatedAt time.Time
	err := row.Scan(
		&lead.ID,
		&submittedAt,
		&lead.Vehicle.Brand,
		&lead.Vehicle.Model,
		&lead.Vehicle.FirstRegistrationYear,
		&lead.Vehicle.MileageKm,
		&lead.Vehicle.Condition,
		&lead.Contact.Name,
		&lead.Contact.Email,
		&lead.Contact.Phone,
		&lead.Meta.Source,
		&lead.Meta.Consent,
		&lead.Meta.UserAgent,
		&lead.Meta.IP,
		&lead.Status,
		&lead.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("leads: scan failed: %w", err)
	}
	lead.Timestamp = submittedAt.UTC()
	lead.CreatedAt = createdAt.UTC()
	lead.UpdatedAt = updatedAt.UTC()
	return &lead, nil
}

var _ Repository = (*PostgresRepository)(nil)
