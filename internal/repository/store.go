// Package repository is the persistence gateway for job applications.
package repository

import (
	"context"
	"errors"

	"jobmindr/internal/models"
)

var (
	ErrNotFound                   = errors.New("APPLICATION_NOT_FOUND")
	ErrInvalidFilter              = errors.New("INVALID_FILTER")
	ErrDatabaseQueryFailed        = errors.New("DATABASE_QUERY_FAILED")
	ErrDatabaseInsertFailed       = errors.New("DATABASE_INSERT_FAILED")
	ErrApplicationNumberExhausted = errors.New("APPLICATION_NUMBER_EXHAUSTED")
)

// Store is the set of operations the API performs on job applications.
type Store interface {
	Create(ctx context.Context, app *models.NewJobApplication) (*models.JobApplication, error)
	GetAll(ctx context.Context) ([]models.JobApplication, error)
	GetByID(ctx context.Context, id int64) (*models.JobApplication, error)
	Update(ctx context.Context, id int64, patch *models.ApplicationPatch) (*models.JobApplication, error)
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
	GetFiltered(ctx context.Context, filter models.ListFilter) ([]models.JobApplication, error)
}
