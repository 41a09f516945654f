package repository

import (
	"context"
	"time"

	"nasa"

	"github.com/jmoiron/sqlx"
)

type Picture interface {
	Upsert(ctx context.Context, records []nasa.APODRecord) (int64, error)
	GetByDate(ctx context.Context, date time.Time) (*nasa.APODRecord, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]nasa.APODRecord, error)
}

type Repository struct {
	Picture
}

// NewRepository returns an empty repository for a nil db, the archive is then disabled.
func NewRepository(db *sqlx.DB) *Repository {
	if db == nil {
		return &Repository{}
	}

	return &Repository{
		Picture: NewPostgres(db),
	}
}
