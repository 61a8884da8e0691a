package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/errs"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/requestid"
	"github.com/google/uuid"
)

// Processor runs a sitemap check on the backend.
type Processor interface {
	ProcessSitemap(ctx context.Context, sitemapURL string) (*model.JobResponse, error)
}

const (
	// staleMargin is how long past the backend timeout a job may still
	// deliver its outcome before the session gives up on it.
	staleMargin = 30 * time.Second

	outcomeAttempts = 3
)

// Controller applies events to stored sessions and runs backend requests
// in the background, delivering their outcome as Succeeded or FailedWith.
type Controller struct {
	store     Store
	processor Processor
	logger    *slog.Logger
	timeout   time.Duration
	newJobID  func() string
	now       func() time.Time

	retryDelay time.Duration

	wg sync.WaitGroup
}

// NewController returns a Controller. Each backend request is bounded by
// timeout.
func NewController(store Store, processor Processor, logger *slog.Logger, timeout time.Duration) *Controller {
	return &Controller{
		store:     store,
		processor: processor,
		logger:    logger,
		timeout:   timeout,
		newJobID:  uuid.NewString,
		now:       time.Now,

		retryDelay: 100 * time.Millisecond,
	}
}

// State returns the session's state; unknown sessions are Idle. A job whose
// outcome is overdue is failed first.
func (c *Controller) State(ctx context.Context, id string) (State, error) {
	s, err := c.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NewState(), nil
	}
	if err != nil {
		return State{}, err
	}
	return c.expire(ctx, id, s)
}

// expire fails a Processing session whose outcome never arrived, for
// example after a store outage or a restart, so it accepts submissions again.
func (c *Controller) expire(ctx context.Context, id string, s State) (State, error) {
	if !s.Stale(c.now(), c.timeout+staleMargin) {
		return s, nil
	}

	c.logger.Warn("sitemap job expired without an outcome",
		"session_id", id,
		"job_id", s.JobID,
		"started_at", s.StartedAt,
		requestid.Attr(ctx),
	)
	next, _, err := c.Dispatch(ctx, id, FailedWith{
		JobID: s.JobID,
		Err:   &errs.AppError{Kind: errs.Timeout, Message: MsgJobExpired},
	})
	return next, err
}

// Dispatch applies ev to session id and returns the resulting state and
// effects.
func (c *Controller) Dispatch(ctx context.Context, id string, ev Event) (State, []Effect, error) {
	var effects []Effect
	next, err := c.store.Update(ctx, id, func(s State) (State, error) {
		var n State
		n, effects = Transition(s, ev)
		return n, nil
	})
	if err != nil {
		return State{}, nil, err
	}
	return next, effects, nil
}

// Submit starts a sitemap check for session id. Blank URLs are rejected
// without contacting the backend, and a submission while one is already
// processing is ignored.
func (c *Controller) Submit(ctx context.Context, id, sitemapURL string) (State, []Effect, error) {
	if _, err := c.State(ctx, id); err != nil {
		return State{}, nil, err
	}

	jobID := c.newJobID()
	next, effects, err := c.Dispatch(ctx, id, Submit{URL: sitemapURL, JobID: jobID, At: c.now()})
	if err != nil {
		return State{}, nil, err
	}

	if slices.Contains(effects, SendRequest) {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.run(context.WithoutCancel(ctx), id, jobID, next.SitemapURL)
		}()
	}
	return next, effects, nil
}

func (c *Controller) run(ctx context.Context, id, jobID, sitemapURL string) {
	logger := c.logger.With(
		"session_id", id,
		"job_id", jobID,
		"sitemap_url", sitemapURL,
		requestid.Attr(ctx),
	)
	logger.Info("sitemap job started")
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	job, err := c.processor.ProcessSitemap(reqCtx, sitemapURL)
	cancel()
	if err == nil && job == nil {
		err = &errs.AppError{Kind: errs.Request, Message: "Failed to process sitemap"}
	}

	var ev Event = Succeeded{JobID: jobID, Job: job}
	if err != nil {
		ev = FailedWith{JobID: jobID, Err: err}
		logger.Error("sitemap job failed",
			"error", err,
			"kind", errs.KindOf(err).String(),
			"duration", time.Since(start).String(),
		)
	} else {
		logger.Info("sitemap job finished",
			"total_urls", job.TotalURLs,
			"processing_time", job.ProcessingTime,
			"duration", time.Since(start).String(),
		)
	}

	for attempt := 1; ; attempt++ {
		_, _, err := c.Dispatch(ctx, id, ev)
		if err == nil {
			return
		}
		if attempt == outcomeAttempts {
			logger.Error("failed to store job outcome", "error", err, "attempts", attempt)
			return
		}
		logger.Warn("retrying job outcome", "error", err, "attempt", attempt)
		time.Sleep(c.retryDelay * time.Duration(attempt))
	}
}

// Wait blocks until every in-flight job has delivered its outcome or ctx is
// done.
func (c *Controller) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
