package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresRepository(mock), mock
}

func TestPostgresRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	lead := storedLead("lead-1", testNow)

	mock.ExpectExec("INSERT INTO leads").
		WithArgs(
			lead.ID, lead.Timestamp,
			lead.Vehicle.Brand, lead.Vehicle.Model, lead.Vehicle.FirstRegistrationYear,
			lead.Vehicle.MileageKm, lead.Vehicle.Condition,
			lead.Contact.Name, lead.Contact.Email, lead.Contact.Phone,
			lead.Meta.Source, lead.Meta.Consent, lead.Meta.UserAgent, lead.Meta.IP,
			lead.Status, lead.Notes, lead.CreatedAt, lead.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Save(context.Background(), lead); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	lead := storedLead("lead-1", testNow)

	rows := pgxmock.NewRows([]string{
		"id", "submitted_at",
		"vehicle_brand", "vehicle_model", "vehicle_first_registration_year", "vehicle_mileage_km", "vehicle_condition",
		"contact_name", "contact_email", "contact_phone",
		"meta_source", "meta_consent", "meta_user_agent", "meta_ip",
		"status", "notes", "created_at", "updated_at",
	}).AddRow(
		lead.ID, lead.Timestamp,
		lead.Vehicle.Brand, lead.Vehicle.Model, lead.Vehicle.FirstRegistrationYear,
		lead.Vehicle.MileageKm, lead.Vehicle.Condition,
		lead.Contact.Name, lead.Contact.Email, lead.Contact.Phone,
		lead.Meta.Source, lead.Meta.Consent, lead.Meta.UserAgent, lead.Meta.IP,
		lead.Status, lead.Notes, lead.CreatedAt, lead.UpdatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM leads WHERE id").
		WithArgs("lead-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Contact.Email != lead.Contact.Email || got.Vehicle.Brand != lead.Vehicle.Brand {
		t.Errorf("scan mismatch: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM leads WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresRepository_UpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE leads SET status").
		WithArgs(StatusContacted, "Rückruf", "lead-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateStatus(context.Background(), "lead-1", StatusContacted, "Rückruf"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_UpdateStatus_Invalid(t *testing.T) {
	repo, _ := newMockRepo(t)
	// Invalid status never reaches the database.
	if err := repo.UpdateStatus(context.Background(), "lead-1", "bogus", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestPostgresRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE leads SET status").
		WithArgs(StatusWon, "", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.UpdateStatus(context.Background(), "missing", StatusWon, ""); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM leads").
		WithArgs("lead-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := repo.Delete(context.Background(), "lead-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	mock.ExpectExec("DELETE FROM leads").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresRepository_Stats(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"total", "today", "week"}).AddRow(5, 2, 4))
	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(StatusNew, 3).
			AddRow(StatusWon, 2))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 5 || stats.Today != 2 || stats.ThisWeek != 4 {
		t.Errorf("counts: %+v", stats)
	}
	if stats.StatusCounts[StatusNew] != 3 || stats.StatusCounts[StatusWon] != 2 {
		t.Errorf("status counts: %+v", stats.StatusCounts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
