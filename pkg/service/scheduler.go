package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartScheduler runs ArchiveToday on a standard five field cron spec.
// The caller stops the returned cron on shutdown.
func StartScheduler(spec string, a Archive, timeout time.Duration) (*cron.Cron, error) {

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { archiveJob(a, timeout) }); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

func archiveJob(a Archive, timeout time.Duration) {

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.ArchiveToday(ctx); err != nil {
		logrus.Errorf("scheduled apod archive failed: %q", err)
		return
	}

	logrus.Info("scheduled apod archive done")
}
