// Package poller drives a generation job from start to a terminal outcome.
//
// A Poller asks the backend for the job's status until it reports completed or
// failed, then fetches the grouped results exactly once. Transport errors only
// slow the loop down; they never end it unless a bound is configured.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aicreat-gateway/internal/creative"

	"github.com/rs/zerolog"
)

const (
	DefaultRunningDelay = 2 * time.Second
	DefaultErrorDelay   = 5 * time.Second
)

var (
	ErrMissingJobID       = errors.New("poller: job id is required")
	ErrJobFailed          = errors.New("poller: generation job failed")
	ErrResultsUnavailable = errors.New("poller: job completed but results could not be fetched")
	ErrPollTimeout        = errors.New("poller: job did not finish in time")
	ErrTooManyErrors      = errors.New("poller: too many consecutive status errors")
)

// State is the phase a poll loop is in.
type State string

const (
	StateIdle            State = "idle"
	StatePolling         State = "polling"
	StateFetchingResults State = "fetching_results"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
	StateCanceled        State = "canceled"
)

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCanceled
}

// Backend is the part of the generation API a poll loop needs.
type Backend interface {
	GetJobStatus(ctx context.Context, jobID string) (*creative.JobStatus, error)
	GetJobResults(ctx context.Context, jobID string) (creative.JobResults, error)
}

// Snapshot is an intermediate view of a poll loop handed to observers.
type Snapshot struct {
	JobID    string
	State    State
	Status   string
	Progress int
	// Err is set on snapshots emitted after a failed status request and on
	// the terminal failure snapshot.
	Err error
}

// Result is the terminal outcome of Run. Results is only set when State is
// StateCompleted; Err is set for StateFailed and StateCanceled.
type Result struct {
	JobID    string
	State    State
	Progress int
	Results  creative.JobResults
	Err      error
	Polls    int
}

// Observer receives snapshots. It runs on the poll loop's goroutine and
// must not block for long.
type Observer func(Snapshot)

// WaitFunc sleeps for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	RunningDelay time.Duration
	ErrorDelay   time.Duration
	// MaxWait bounds a whole run. Zero waits forever.
	MaxWait time.Duration
	// MaxConsecutiveErrors ends a run after that many failed status requests
	// in a row. Zero retries forever.
	MaxConsecutiveErrors int
	Logger               *zerolog.Logger
	// Wait replaces the timer-based sleep, mostly for tests.
	Wait WaitFunc
}

type Poller struct {
	backend Backend
	opts    Options
	logger  zerolog.Logger
}

func New(backend Backend, opts Options) *Poller {
	if opts.RunningDelay <= 0 {
		opts.RunningDelay = DefaultRunningDelay
	}
	if opts.ErrorDelay <= 0 {
		opts.ErrorDelay = DefaultErrorDelay
	}
	if opts.Wait == nil {
		opts.Wait = sleep
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Poller{
		backend: backend,
		opts:    opts,
		logger:  logger.With().Str("component", "poller").Logger(),
	}
}

// Run polls jobID until it reaches a terminal state.
func (p *Poller) Run(ctx context.Context, jobID string) Result {
	return p.Watch(ctx, jobID, nil)
}

// Watch is Run with an observer that sees every intermediate snapshot. No
// snapshot is delivered once ctx is canceled.
func (p *Poller) Watch(ctx context.Context, jobID string, observe Observer) Result {
	if jobID == "" {
		return p.finish(ctx, observe, Result{State: StateFailed, Err: ErrMissingJobID})
	}

	runCtx := ctx
	if p.opts.MaxWait > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.opts.MaxWait)
		defer cancel()
	}

	log := p.logger.With().Str("job_id", jobID).Logger()
	var (
		status      string
		progress    int
		errorsInRow int
		polls       int
	)

	for {
		if res, stop := p.interrupted(ctx, runCtx, observe, jobID, progress, polls); stop {
			return res
		}

		polls++
		js, err := p.backend.GetJobStatus(runCtx, jobID)
		if res, stop := p.interrupted(ctx, runCtx, observe, jobID, progress, polls); stop {
			return res
		}

		if err != nil {
			errorsInRow++
			log.Warn().Err(err).Int("consecutive_errors", errorsInRow).Msg("job status poll failed")
			if p.opts.MaxConsecutiveErrors > 0 && errorsInRow >= p.opts.MaxConsecutiveErrors {
				return p.finish(ctx, observe, Result{
					JobID:    jobID,
					State:    StateFailed,
					Progress: progress,
					Err:      fmt.Errorf("%w: %w", ErrTooManyErrors, err),
					Polls:    polls,
				})
			}
			p.emit(ctx, observe, Snapshot{JobID: jobID, State: StatePolling, Status: status, Progress: progress, Err: err})
			_ = p.opts.Wait(runCtx, p.opts.ErrorDelay)
			continue
		}

		errorsInRow = 0
		status = js.Status
		progress = clampProgress(js.Progress)

		switch status {
		case creative.JobStatusCompleted:
			log.Debug().Int("polls", polls).Msg("job completed, fetching results")
			return p.fetchResults(ctx, runCtx, observe, jobID, polls)

		case creative.JobStatusFailed:
			log.Info().Int("polls", polls).Msg("job failed")
			return p.finish(ctx, observe, Result{
				JobID:    jobID,
				State:    StateFailed,
				Progress: progress,
				Err:      ErrJobFailed,
				Polls:    polls,
			})

		default:
			p.emit(ctx, observe, Snapshot{JobID: jobID, State: StatePolling, Status: status, Progress: progress})
			_ = p.opts.Wait(runCtx, p.opts.RunningDelay)
		}
	}
}

func (p *Poller) fetchResults(ctx, runCtx context.Context, observe Observer, jobID string, polls int) Result {
	p.emit(ctx, observe, Snapshot{JobID: jobID, State: StateFetchingResults, Status: creative.JobStatusCompleted, Progress: 100})
	if res, stop := p.interrupted(ctx, runCtx, observe, jobID, 100, polls); stop {
		return res
	}

	results, err := p.backend.GetJobResults(runCtx, jobID)
	if res, stop := p.interrupted(ctx, runCtx, observe, jobID, 100, polls); stop {
		return res
	}
	if err != nil {
		p.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to fetch job results")
		return p.finish(ctx, observe, Result{
			JobID:    jobID,
			State:    StateFailed,
			Progress: 100,
			Err:      fmt.Errorf("%w: %w", ErrResultsUnavailable, err),
			Polls:    polls,
		})
	}
	if results == nil {
		results = creative.JobResults{}
	}

	return p.finish(ctx, observe, Result{
		JobID:    jobID,
		State:    StateCompleted,
		Progress: 100,
		Results:  results,
		Polls:    polls,
	})
}

// interrupted reports whether the run must stop: Canceled when the caller's
// ctx is done, Failed with ErrPollTimeout when only MaxWait elapsed.
func (p *Poller) interrupted(ctx, runCtx context.Context, observe Observer, jobID string, progress, polls int) (Result, bool) {
	if err := ctx.Err(); err != nil {
		return Result{JobID: jobID, State: StateCanceled, Progress: progress, Err: err, Polls: polls}, true
	}
	if runCtx.Err() != nil {
		return p.finish(ctx, observe, Result{
			JobID:    jobID,
			State:    StateFailed,
			Progress: progress,
			Err:      fmt.Errorf("%w after %s", ErrPollTimeout, p.opts.MaxWait),
			Polls:    polls,
		}), true
	}
	return Result{}, false
}

func (p *Poller) finish(ctx context.Context, observe Observer, res Result) Result {
	p.emit(ctx, observe, Snapshot{JobID: res.JobID, State: res.State, Progress: res.Progress, Status: statusFor(res.State), Err: res.Err})
	return res
}

func (p *Poller) emit(ctx context.Context, observe Observer, snap Snapshot) {
	if observe == nil || ctx.Err() != nil {
		return
	}
	observe(snap)
}

func statusFor(s State) string {
	switch s {
	case StateCompleted:
		return creative.JobStatusCompleted
	case StateFailed:
		return creative.JobStatusFailed
	}
	return ""
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
