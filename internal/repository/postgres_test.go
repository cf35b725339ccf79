package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"jobmindr/internal/common/database"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var columns = []string{
	"id", "application_number", "job_title", "company_name", "date_applied",
	"application_status", "employment_type", "contact_email", "application_closing_date",
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestRepository(t *testing.T, attempts int) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewPostgresRepository(&Config{InsertAttempts: attempts}, db, logger.NewTestLogger(t))
	return repo, mock, db
}

func sequence(numbers ...string) NumberGenerator {
	i := 0
	return func() (string, error) {
		n := numbers[i%len(numbers)]
		i++
		return n, nil
	}
}

func newApplication() *models.NewJobApplication {
	return &models.NewJobApplication{
		JobTitle:          "Engineer",
		CompanyName:       "Acme",
		DateApplied:       models.NewDate(2024, time.January, 15),
		ApplicationStatus: models.StatusApplied,
	}
}

func collision() error {
	return &pq.Error{Code: "23505", Constraint: database.ApplicationNumberConstraint}
}

// ==========================
// Create Tests
// ==========================

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 3)
	repo.WithNumberGenerator(sequence("ABC123XYZ0"))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_applications")).
		WithArgs("ABC123XYZ0", "Engineer", "Acme", "2024-01-15", "Applied", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "ABC123XYZ0", "Engineer", "Acme", day(2024, 1, 15), "Applied", nil, nil, nil))

	created, err := repo.Create(context.Background(), newApplication())

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "ABC123XYZ0", created.ApplicationNumber)
	assert.Equal(t, "2024-01-15", created.DateApplied.String())
	assert.Nil(t, created.EmploymentType)
	assert.Nil(t, created.ContactEmail)
	assert.Nil(t, created.ApplicationClosingDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OptionalFieldsPersisted(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)
	repo.WithNumberGenerator(sequence("QWERTY1234"))

	app := newApplication()
	et := models.EmploymentContract
	email := "hr@acme.io"
	closing := models.NewDate(2024, time.March, 1)
	app.EmploymentType = &et
	app.ContactEmail = &email
	app.ApplicationClosingDate = &closing

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_applications")).
		WithArgs("QWERTY1234", "Engineer", "Acme", "2024-01-15", "Applied", "contract", "hr@acme.io", "2024-03-01").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "QWERTY1234", "Engineer", "Acme", day(2024, 1, 15), "Applied", "contract", "hr@acme.io", day(2024, 3, 1)))

	created, err := repo.Create(context.Background(), app)

	require.NoError(t, err)
	require.NotNil(t, created.EmploymentType)
	assert.Equal(t, models.EmploymentContract, *created.EmploymentType)
	require.NotNil(t, created.ApplicationClosingDate)
	assert.Equal(t, "2024-03-01", created.ApplicationClosingDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RegeneratesOnCollision(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 3)
	repo.WithNumberGenerator(sequence("DUPLICATE1", "FRESH00001"))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_applications")).
		WithArgs("DUPLICATE1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, nil).
		WillReturnError(collision())
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_applications")).
		WithArgs("FRESH00001", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(5, "FRESH00001", "Engineer", "Acme", day(2024, 1, 15), "Applied", nil, nil, nil))

	created, err := repo.Create(context.Background(), newApplication())

	require.NoError(t, err)
	assert.Equal(t, "FRESH00001", created.ApplicationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_GivesUpAfterAttempts(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 3)
	repo.WithNumberGenerator(sequence("DUPLICATE1"))

	for i := 0; i < 3; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_applications")).WillReturnError(collision())
	}

	_, err := repo.Create(context.Background(), newApplication())

	assert.ErrorIs(t, err, ErrApplicationNumberExhausted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OtherErrorsAreNotRetried(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 3)
	repo.WithNumberGenerator(sequence("ABCDEFGHIJ"))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_applications")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "some_other_unique"})

	_, err := repo.Create(context.Background(), newApplication())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_GeneratorFailure(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 3)
	repo.WithNumberGenerator(func() (string, error) { return "", errors.New("entropy exhausted") })

	_, err := repo.Create(context.Background(), newApplication())

	assert.ErrorIs(t, err, ErrDatabaseInsertFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Read Tests
// ==========================

func TestGetAll_OrderedByDateApplied(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("FROM job_applications ORDER BY date_applied DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "BBBBBBBBBB", "SRE", "Beta", day(2024, 2, 1), "Offer", "full-time", nil, nil).
			AddRow(1, "AAAAAAAAAA", "Dev", "Alpha", day(2024, 1, 1), "Applied", nil, "a@alpha.io", nil))

	apps, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, int64(2), apps[0].ID)
	require.NotNil(t, apps[1].ContactEmail)
	assert.Equal(t, "a@alpha.io", *apps[1].ContactEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll_EmptyIsNotNil(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(columns))

	apps, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}

func TestGetAll_DatabaseError(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, err := repo.GetAll(context.Background())

	assert.ErrorIs(t, err, ErrDatabaseQueryFailed)
}

func TestGetByID(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(4, "DDDDDDDDDD", "Dev", "Delta", day(2024, 4, 4), "Rejected", nil, nil, day(2024, 5, 1)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(columns))

	app, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, app.ApplicationStatus)
	require.NotNil(t, app.ApplicationClosingDate)

	_, err = repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Update Tests
// ==========================

func TestUpdate_OnlySuppliedColumns(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE job_applications SET application_status = $1 WHERE id = $2 RETURNING")).
		WithArgs("Interviewing", int64(7)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(7, "GGGGGGGGGG", "Dev", "Gamma", day(2024, 1, 7), "Interviewing", nil, nil, nil))

	app, err := repo.Update(context.Background(), 7, models.StatusPatch(7, models.StatusInterviewing))

	require.NoError(t, err)
	assert.Equal(t, models.StatusInterviewing, app.ApplicationStatus)
	assert.Equal(t, "GGGGGGGGGG", app.ApplicationNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_SeveralColumns(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	title := "Lead"
	closing := models.NewDate(2024, time.June, 30)
	patch := &models.ApplicationPatch{ID: 3, JobTitle: &title, ApplicationClosingDate: &closing}

	mock.ExpectQuery(regexp.QuoteMeta("SET job_title = $1, application_closing_date = $2 WHERE id = $3")).
		WithArgs("Lead", "2024-06-30", int64(3)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(3, "CCCCCCCCCC", "Lead", "Gamma", day(2024, 1, 7), "Applied", nil, nil, day(2024, 6, 30)))

	_, err := repo.Update(context.Background(), 3, patch)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	mock.ExpectQuery("UPDATE job_applications").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Update(context.Background(), 999, models.StatusPatch(999, models.StatusOffer))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_EmptyPatchReadsCurrentRow(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "BBBBBBBBBB", "Dev", "Beta", day(2024, 1, 2), "Applied", nil, nil, nil))

	app, err := repo.Update(context.Background(), 2, &models.ApplicationPatch{ID: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(2), app.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Delete Tests
// ==========================

func TestDeleteMany(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM job_applications WHERE id = ANY($1)")).
		WithArgs(pq.Array([]int64{1, 2, 99})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.DeleteMany(context.Background(), []int64{1, 2, 99})

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMany_EmptyNeverTouchesDatabase(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	deleted, err := repo.DeleteMany(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMany_DatabaseError(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)
	mock.ExpectExec("DELETE").WillReturnError(errors.New("deadlock detected"))

	_, err := repo.DeleteMany(context.Background(), []int64{1})

	assert.ErrorIs(t, err, ErrDatabaseQueryFailed)
}

// ==========================
// Filter Tests
// ==========================

func TestGetFiltered_PassesPredicates(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE company_name ILIKE $1 ESCAPE '\' AND application_status = $2 ORDER BY company_name ASC, id ASC`)).
		WithArgs("%goo%", "Applied").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "AAAAAAAAAA", "Dev", "Google", day(2024, 1, 1), "Applied", nil, nil, nil))

	apps, err := repo.GetFiltered(context.Background(), models.ListFilter{
		CompanyName: "goo",
		Status:      "Applied",
		SortBy:      models.SortByCompanyName,
		SortOrder:   models.SortAsc,
	})

	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Google", apps[0].CompanyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFiltered_InvalidDate(t *testing.T) {
	repo, mock, _ := createTestRepository(t, 1)

	_, err := repo.GetFiltered(context.Background(), models.ListFilter{DateApplied: "yesterday"})

	assert.ErrorIs(t, err, ErrInvalidFilter)
	assert.NoError(t, mock.ExpectationsWereMet())
}
