package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultRefreshSpec = "@every 1m"

// Refresher recomputes the dashboard snapshot on a schedule so the exported
// gauges stay current between requests. Without it a task would only flip to
// pending at midnight once someone loaded the dashboard.
type Refresher struct {
	status  *StatusService
	cron    *cron.Cron
	spec    string
	timeout time.Duration
	logger  *log.Logger
}

// RefresherOption customizes the refresher.
type RefresherOption func(*Refresher)

// WithRefreshSpec overrides the cron spec.
func WithRefreshSpec(spec string) RefresherOption {
	return func(r *Refresher) {
		if spec != "" {
			r.spec = spec
		}
	}
}

// WithRefreshTimeout bounds one refresh pass.
func WithRefreshTimeout(timeout time.Duration) RefresherOption {
	return func(r *Refresher) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithRefreshLogger assigns a logger.
func WithRefreshLogger(logger *log.Logger) RefresherOption {
	return func(r *Refresher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRefresher constructs a refresher around a status service.
func NewRefresher(status *StatusService, opts ...RefresherOption) (*Refresher, error) {
	if status == nil {
		return nil, errors.New("dashboard: nil status service")
	}
	refresher := &Refresher{
		status:  status,
		cron:    cron.New(),
		spec:    defaultRefreshSpec,
		timeout: 30 * time.Second,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(refresher)
	}
	return refresher, nil
}

// Start schedules the refresh job and begins running it.
func (r *Refresher) Start() error {
	if r == nil {
		return errors.New("dashboard: nil refresher")
	}
	if _, err := r.cron.AddFunc(r.spec, r.refresh); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	if r == nil || r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if _, err := r.status.Snapshot(ctx, time.Time{}); err != nil {
		r.logger.Printf("dashboard refresh failed: %v", err)
	}
}
