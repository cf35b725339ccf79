// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobmindr/internal/common/database"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/metrics"
	"jobmindr/internal/models"

	"github.com/lib/pq"
)

const selectColumns = `id, application_number, job_title, company_name, date_applied,
	application_status, employment_type, contact_email, application_closing_date`

const uniqueViolation = "23505"

// PostgresRepository implements Store on the job_applications table.
type PostgresRepository struct {
	db       *sql.DB
	config   *Config
	generate NumberGenerator
	logger   logger.Logger
}

func NewPostgresRepository(config *Config, db *sql.DB, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:       db,
		config:   config,
		generate: GenerateApplicationNumber,
		logger:   log.WithFields(map[string]interface{}{"component": "repository"}),
	}
}

// WithNumberGenerator replaces the application number source.
func (r *PostgresRepository) WithNumberGenerator(gen NumberGenerator) *PostgresRepository {
	r.generate = gen
	return r
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row scanner) (models.JobApplication, error) {
	var (
		app            models.JobApplication
		employmentType sql.NullString
		contactEmail   sql.NullString
		closingDate    models.NullDate
	)
	err := row.Scan(
		&app.ID,
		&app.ApplicationNumber,
		&app.JobTitle,
		&app.CompanyName,
		&app.DateApplied,
		&app.ApplicationStatus,
		&employmentType,
		&contactEmail,
		&closingDate,
	)
	if err != nil {
		return models.JobApplication{}, err
	}
	if employmentType.Valid {
		et := models.EmploymentType(employmentType.String)
		app.EmploymentType = &et
	}
	if contactEmail.Valid {
		email := contactEmail.String
		app.ContactEmail = &email
	}
	app.ApplicationClosingDate = closingDate.Ptr()
	return app, nil
}

func (r *PostgresRepository) queryApplications(ctx context.Context, query string, args ...interface{}) ([]models.JobApplication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseQueryFailed, err)
	}
	defer rows.Close()

	apps := make([]models.JobApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrDatabaseQueryFailed, err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseQueryFailed, err)
	}
	return apps, nil
}

// Create inserts app under a freshly generated application number. A collision
// on the number regenerates it, up to InsertAttempts tries.
func (r *PostgresRepository) Create(ctx context.Context, app *models.NewJobApplication) (*models.JobApplication, error) {
	query := `
		INSERT INTO job_applications (
			application_number, job_title, company_name, date_applied,
			application_status, employment_type, contact_email, application_closing_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + selectColumns

	var lastErr error
	for attempt := 1; attempt <= r.config.InsertAttempts; attempt++ {
		number, err := r.generate()
		if err != nil {
			return nil, fmt.Errorf("%w: generate application number: %v", ErrDatabaseInsertFailed, err)
		}

		created, err := scanApplication(r.db.QueryRowContext(ctx, query,
			number,
			app.JobTitle,
			app.CompanyName,
			app.DateApplied,
			string(app.ApplicationStatus),
			app.EmploymentType,
			app.ContactEmail,
			app.ApplicationClosingDate,
		))
		if err == nil {
			metrics.ApplicationsCreated.Inc()
			r.logger.Info("job application created", map[string]interface{}{
				"id":                created.ID,
				"applicationNumber": created.ApplicationNumber,
				"attempt":           attempt,
			})
			return &created, nil
		}
		if !isApplicationNumberConflict(err) {
			return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
		}

		lastErr = err
		metrics.ApplicationNumberCollisions.Inc()
		r.logger.Warn("application number collision", map[string]interface{}{
			"applicationNumber": number,
			"attempt":           attempt,
		})
	}

	return nil, fmt.Errorf("%w: %d attempts: %v", ErrApplicationNumberExhausted, r.config.InsertAttempts, lastErr)
}

func isApplicationNumberConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return false
	}
	return pqErr.Constraint == database.ApplicationNumberConstraint ||
		strings.Contains(pqErr.Constraint, "application_number")
}

// GetAll returns every row, most recently applied first.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.JobApplication, error) {
	return r.queryApplications(ctx,
		`SELECT `+selectColumns+` FROM job_applications ORDER BY date_applied DESC, id DESC`)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	app, err := scanApplication(r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM job_applications WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseQueryFailed, err)
	}
	return &app, nil
}

// Update writes only the columns the patch supplies. An empty patch returns
// the current row.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch *models.ApplicationPatch) (*models.JobApplication, error) {
	if patch == nil || patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sets, args := patchAssignments(patch)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE job_applications SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), selectColumns)

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update failed: %v", ErrDatabaseQueryFailed, err)
	}

	r.logger.Info("job application updated", map[string]interface{}{
		"id":      id,
		"columns": len(sets),
	})
	return &app, nil
}

func patchAssignments(patch *models.ApplicationPatch) ([]string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.JobTitle != nil {
		set("job_title", *patch.JobTitle)
	}
	if patch.CompanyName != nil {
		set("company_name", *patch.CompanyName)
	}
	if patch.DateApplied != nil {
		set("date_applied", *patch.DateApplied)
	}
	if patch.ApplicationStatus != nil {
		set("application_status", string(*patch.ApplicationStatus))
	}
	if patch.EmploymentType != nil {
		set("employment_type", string(*patch.EmploymentType))
	}
	if patch.ContactEmail != nil {
		set("contact_email", *patch.ContactEmail)
	}
	if patch.ApplicationClosingDate != nil {
		set("application_closing_date", *patch.ApplicationClosingDate)
	}
	return sets, args
}

// DeleteMany removes the rows with the given ids in one statement. Unknown ids
// are ignored and an empty set never reaches the database.
func (r *PostgresRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("%w: delete failed: %v", ErrDatabaseQueryFailed, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %v", ErrDatabaseQueryFailed, err)
	}

	metrics.ApplicationsDeleted.Add(float64(affected))
	r.logger.Info("job applications deleted", map[string]interface{}{
		"requested": len(ids),
		"deleted":   affected,
	})
	return affected, nil
}

// GetFiltered applies the optional predicates and ordering of filter.
func (r *PostgresRepository) GetFiltered(ctx context.Context, filter models.ListFilter) ([]models.JobApplication, error) {
	query, args, err := buildListQuery(filter, r.config.CaseSensitiveCompanyMatch)
	if err != nil {
		return nil, err
	}
	return r.queryApplications(ctx, query, args...)
}
