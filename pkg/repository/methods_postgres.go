package repository

import (
	"context"
	"time"

	"nasa"
	"nasa/pkg/consts"

	"github.com/jmoiron/sqlx"
)

const (
	queryUpsert = `INSERT INTO pictures ("date", title, url, hd_url, explanation)
				   VALUES($1, $2, $3, $4, $5)
				   ON CONFLICT ("date") DO UPDATE
				   SET title = EXCLUDED.title, url = EXCLUDED.url, hd_url = EXCLUDED.hd_url,
				       explanation = EXCLUDED.explanation, fetched_at = now()`

	queryGetByDate = `SELECT to_char("date", 'YYYY-MM-DD') AS "date", title, url, hd_url, explanation
					  FROM pictures WHERE "date" = $1`

	queryGetByDateRange = `SELECT to_char("date", 'YYYY-MM-DD') AS "date", title, url, hd_url, explanation
						   FROM pictures WHERE "date" >= $1 AND "date" <= $2 ORDER BY "date"`
)

type Actions struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Actions {
	return &Actions{db}
}

// Upsert stores the records in one transaction, a date already present is overwritten.
func (r *Actions) Upsert(ctx context.Context, records []nasa.APODRecord) (int64, error) {

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var total int64
	for _, d := range records {

		result, err := tx.ExecContext(ctx, queryUpsert, d.Date, d.Title, d.URL, d.HDURL, d.Explanation)
		if err != nil {
			return 0, err
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *Actions) GetByDate(ctx context.Context, date time.Time) (*nasa.APODRecord, error) {

	var picture []nasa.APODRecord
	if err := r.db.SelectContext(ctx, &picture, queryGetByDate, date.Format(consts.TimeFormat)); err != nil {
		return nil, err
	}

	if len(picture) == 0 {
		return nil, nil
	}

	return &picture[0], nil
}

func (r *Actions) GetByDateRange(ctx context.Context, start, end time.Time) ([]nasa.APODRecord, error) {

	pictures := []nasa.APODRecord{}
	if err := r.db.SelectContext(ctx, &pictures, queryGetByDateRange, start.Format(consts.TimeFormat), end.Format(consts.TimeFormat)); err != nil {
		return nil, err
	}

	return pictures, nil
}
