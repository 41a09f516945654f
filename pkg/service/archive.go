package service

import (
	"context"
	"time"

	"nasa"
	"nasa/pkg/consts"
	"nasa/pkg/metrics"
	"nasa/pkg/repository"

	"github.com/sirupsen/logrus"
)

// ArchiveService keeps normalized APOD records in postgres when a database is configured.
type ArchiveService struct {
	*base
	repo repository.Picture
}

func NewArchiveService(b *base, repo repository.Picture) *ArchiveService {
	return &ArchiveService{base: b, repo: repo}
}

func (s *ArchiveService) History(ctx context.Context, start, end time.Time) ([]nasa.APODRecord, error) {

	if s.repo == nil {
		return nil, ErrArchiveDisabled
	}

	if !start.Equal(end) {
		return s.repo.GetByDateRange(ctx, start, end)
	}

	record, err := s.repo.GetByDate(ctx, start)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return []nasa.APODRecord{}, nil
	}

	return []nasa.APODRecord{*record}, nil
}

// ArchiveToday fetches today's picture and stores it, used by the scheduler.
func (s *ArchiveService) ArchiveToday(ctx context.Context) error {

	if s.repo == nil {
		return ErrArchiveDisabled
	}

	records, err := s.fetchApod(ctx, map[string]string{
		consts.ParamDate:   s.today(),
		consts.ParamThumbs: consts.True,
	})
	if err != nil {
		return err
	}

	_, err = s.repo.Upsert(ctx, records)
	metrics.ObserveArchiveWrite(err == nil)
	return err
}

// store never fails the caller, the archive is a side channel of the APOD route.
func (s *ArchiveService) store(ctx context.Context, records []nasa.APODRecord) {

	if s.repo == nil || len(records) == 0 {
		return
	}

	n, err := s.repo.Upsert(ctx, records)
	metrics.ObserveArchiveWrite(err == nil)
	if err != nil {
		logrus.Errorf("error while archiving %d apod records: %q", len(records), err)
		return
	}

	logrus.Debugf("archived %d/%d apod records", n, len(records))
}
