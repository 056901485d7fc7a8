package services

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloadScheduler calls Reload on a standard five-field cron schedule. A failed
// reload is logged and retried only at the next tick.
type ReloadScheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	target   Reloader
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewReloadScheduler(spec string, target Reloader, timeout time.Duration, logger *logrus.Logger) (*ReloadScheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid reload schedule %q", spec)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReloadScheduler{
		cron:     cron.New(),
		schedule: schedule,
		target:   target,
		timeout:  timeout,
		log:      logger.WithField("component", "directory-reload"),
	}, nil
}

// Next returns the first activation after t.
func (s *ReloadScheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

func (s *ReloadScheduler) Start() {
	s.cron.Schedule(s.schedule, cron.FuncJob(s.run))
	s.cron.Start()
	s.log.WithField("next", s.Next(time.Now()).Format(time.RFC3339)).Info("reload scheduler started")
}

// Stop halts the scheduler and waits for a running reload to finish.
func (s *ReloadScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ReloadScheduler) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.target.Reload(ctx); err != nil {
		s.log.WithError(err).Warn("scheduled reload failed")
		return
	}
	s.log.Debug("scheduled reload finished")
}
