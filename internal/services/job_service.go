package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aicreat-gateway/internal/cache"
	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/database"
	"aicreat-gateway/internal/models"
	"aicreat-gateway/internal/poller"

	"github.com/rs/zerolog"
)

var (
	ErrJobNotFound = errors.New("services: job not found")
	// ErrJobNotLocal is returned when a job is watched by another instance.
	ErrJobNotLocal = errors.New("services: job is watched by another instance")
)

const (
	defaultRetention      = time.Hour
	defaultPersistTimeout = 5 * time.Second
)

// GenerationBackend starts and polls generation jobs on behalf of one user.
type GenerationBackend interface {
	poller.Backend
	StartGeneration(ctx context.Context, req creative.GenerationRequest) (*creative.GenerationJob, error)
}

// Publisher pushes job views to subscribed browsers.
type Publisher interface {
	PublishJob(ctx context.Context, view models.JobView) error
}

// HistoryStore records jobs and their outcomes.
type HistoryStore interface {
	CreateJob(ctx context.Context, jobID, userID, projectID string, formatIDs []string, provider string) (*database.JobRecord, error)
	UpdateJobStatus(ctx context.Context, jobID, status string, progress int) error
	MarkCompleted(ctx context.Context, jobID string, assetCount int) error
	MarkFailed(ctx context.Context, jobID, errorMsg string) error
	MarkCanceled(ctx context.Context, jobID string) error
}

type JobServiceOptions struct {
	Poll poller.Options
	// Cache, Publisher and History are optional.
	Cache     cache.JobCache
	Publisher Publisher
	History   HistoryStore
	// Retention is how long a finished job stays in memory.
	Retention time.Duration
	Logger    zerolog.Logger
}

type watch struct {
	view   models.JobView
	cancel context.CancelFunc
	done   chan struct{}
}

// JobService runs one poll loop per generation job and keeps the latest
// view of each job where the HTTP layer and browsers can see it.
type JobService struct {
	pollOpts  poller.Options
	cache     cache.JobCache
	publisher Publisher
	history   HistoryStore
	retention time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]*watch
}

func NewJobService(opts JobServiceOptions) *JobService {
	if opts.Retention <= 0 {
		opts.Retention = defaultRetention
	}
	logger := opts.Logger.With().Str("component", "job_service").Logger()
	opts.Poll.Logger = &logger

	ctx, stop := context.WithCancel(context.Background())
	return &JobService{
		pollOpts:  opts.Poll,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		history:   opts.History,
		retention: opts.Retention,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		ctx:       ctx,
		stop:      stop,
		jobs:      make(map[string]*watch),
	}
}

// Start enqueues a generation job and begins watching it. Nothing is sent
// to the backend once Shutdown has begun.
func (s *JobService) Start(ctx context.Context, backend GenerationBackend, userID string, req creative.GenerationRequest) (models.JobView, error) {
	if err := s.ctx.Err(); err != nil {
		return models.JobView{}, fmt.Errorf("job service is shut down: %w", err)
	}
	job, err := backend.StartGeneration(ctx, req)
	if err != nil {
		return models.JobView{}, err
	}

	recorded := false
	if s.history != nil {
		if _, err := s.history.CreateJob(ctx, job.JobID, userID, req.ProjectID, req.FormatIDs, req.Provider); err != nil {
			s.logger.Error().Err(err).Str("job_id", job.JobID).Msg("failed to record job")
		} else {
			recorded = true
		}
	}

	view, err := s.Watch(job.JobID, userID, backend)
	if err != nil && recorded {
		// Shutdown won the race; close the row instead of leaving it running.
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultPersistTimeout)
		defer cancel()
		if merr := s.history.MarkFailed(mctx, job.JobID, err.Error()); merr != nil {
			s.logger.Warn().Err(merr).Str("job_id", job.JobID).Msg("failed to record job outcome")
		}
	}
	return view, err
}

// Watch begins polling jobID unless it is already being watched.
func (s *JobService) Watch(jobID, userID string, backend poller.Backend) (models.JobView, error) {
	if jobID == "" {
		return models.JobView{}, poller.ErrMissingJobID
	}

	s.mu.Lock()
	// Checked under mu so wg.Add never races the Wait in Shutdown.
	if err := s.ctx.Err(); err != nil {
		s.mu.Unlock()
		return models.JobView{}, fmt.Errorf("job service is shut down: %w", err)
	}
	if w, ok := s.jobs[jobID]; ok && !w.view.Terminal() {
		view := w.view
		s.mu.Unlock()
		return view, nil
	}

	ctx, cancel := context.WithCancel(s.ctx)
	w := &watch{
		view: models.JobView{
			JobID:     jobID,
			UserID:    userID,
			State:     string(poller.StatePolling),
			Status:    creative.JobStatusRunning,
			UpdatedAt: s.now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.jobs[jobID] = w
	view := w.view
	s.wg.Add(1)
	s.mu.Unlock()

	s.persist(ctx, view)
	s.logger.Info().Str("job_id", jobID).Str("user_id", userID).Msg("watching job")

	go s.run(ctx, w, poller.New(backend, s.pollOpts))
	return view, nil
}

func (s *JobService) run(ctx context.Context, w *watch, p *poller.Poller) {
	defer s.wg.Done()
	defer close(w.done)
	defer w.cancel()

	jobID := w.view.JobID
	lastStatus, lastProgress := "", -1

	res := p.Watch(ctx, jobID, func(snap poller.Snapshot) {
		view := s.apply(w, snap)
		s.persist(ctx, view)
		if s.history != nil && snap.Err == nil && !snap.State.Terminal() &&
			(snap.Status != lastStatus || snap.Progress != lastProgress) {
			lastStatus, lastProgress = snap.Status, snap.Progress
			if err := s.history.UpdateJobStatus(ctx, jobID, statusOrRunning(snap.Status), snap.Progress); err != nil {
				s.logger.Warn().Err(err).Str("job_id", jobID).Msg("failed to update job history")
			}
		}
	})

	s.finish(w, res)
}

// apply stores a snapshot in the job's view and returns the new view.
func (s *JobService) apply(w *watch, snap poller.Snapshot) models.JobView {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.view.State = string(snap.State)
	if snap.Status != "" {
		w.view.Status = snap.Status
	}
	w.view.Progress = snap.Progress
	w.view.Error = ""
	if snap.Err != nil {
		w.view.Error = snap.Err.Error()
	}
	w.view.UpdatedAt = s.now()
	return w.view
}

func (s *JobService) finish(w *watch, res poller.Result) {
	jobID := w.view.JobID
	log := s.logger.With().Str("job_id", jobID).Str("state", string(res.State)).Logger()

	s.mu.Lock()
	w.view.State = string(res.State)
	w.view.Progress = res.Progress
	w.view.UpdatedAt = s.now()
	switch res.State {
	case poller.StateCompleted:
		w.view.Status = creative.JobStatusCompleted
		w.view.Results = res.Results
		w.view.AssetCount = res.Results.Count()
		w.view.Error = ""
	case poller.StateFailed:
		w.view.Status = creative.JobStatusFailed
		w.view.Error = res.Err.Error()
	case poller.StateCanceled:
		w.view.Error = ""
	}
	view := w.view
	s.mu.Unlock()

	if res.State == poller.StateCanceled && s.ctx.Err() != nil {
		// Shutdown, not the user: the backend job goes on and another
		// instance may watch it again.
		log.Info().Msg("watch stopped by shutdown")
		return
	}

	// The watcher's context is done by now; terminal writes get their own.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), defaultPersistTimeout)
	defer cancel()
	s.persist(ctx, view)

	if s.history != nil {
		var err error
		switch res.State {
		case poller.StateCompleted:
			err = s.history.MarkCompleted(ctx, jobID, view.AssetCount)
		case poller.StateFailed:
			err = s.history.MarkFailed(ctx, jobID, view.Error)
		case poller.StateCanceled:
			err = s.history.MarkCanceled(ctx, jobID)
		}
		if err != nil {
			log.Warn().Err(err).Msg("failed to record job outcome")
		}
	}

	if res.State == poller.StateFailed {
		log.Warn().Err(res.Err).Int("polls", res.Polls).Msg("job finished")
	} else {
		log.Info().Int("polls", res.Polls).Int("assets", view.AssetCount).Msg("job finished")
	}

	time.AfterFunc(s.retention, func() { s.forget(jobID, w) })
}

// persist writes a view to the cache and publishes it. Failures are logged;
// the in-memory view stays authoritative for this instance.
func (s *JobService) persist(ctx context.Context, view models.JobView) {
	if ctx.Err() != nil {
		return
	}
	if s.cache != nil {
		if err := s.cache.PutJob(ctx, view); err != nil {
			s.logger.Warn().Err(err).Str("job_id", view.JobID).Msg("failed to cache job view")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishJob(ctx, view); err != nil {
			s.logger.Warn().Err(err).Str("job_id", view.JobID).Msg("failed to publish job view")
		}
	}
}

func (s *JobService) forget(jobID string, w *watch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobs[jobID] == w {
		delete(s.jobs, jobID)
	}
}

// Get returns the latest view of a job owned by userID. Jobs watched by
// another instance are read from the cache.
func (s *JobService) Get(ctx context.Context, jobID, userID string) (models.JobView, error) {
	s.mu.Lock()
	w, ok := s.jobs[jobID]
	var view models.JobView
	if ok {
		view = w.view
	}
	s.mu.Unlock()

	if !ok {
		if s.cache == nil {
			return models.JobView{}, ErrJobNotFound
		}
		cached, found, err := s.cache.GetJob(ctx, jobID)
		if err != nil {
			return models.JobView{}, fmt.Errorf("failed to read job from cache: %w", err)
		}
		if !found {
			return models.JobView{}, ErrJobNotFound
		}
		view = *cached
	}

	if view.UserID != userID {
		return models.JobView{}, ErrJobNotFound
	}
	return view, nil
}

// Cancel stops watching a job and waits for its poll loop to exit.
func (s *JobService) Cancel(ctx context.Context, jobID, userID string) (models.JobView, error) {
	s.mu.Lock()
	w, ok := s.jobs[jobID]
	owned := ok && w.view.UserID == userID
	s.mu.Unlock()

	if !owned {
		view, err := s.Get(ctx, jobID, userID)
		if err != nil {
			return models.JobView{}, err
		}
		if view.Terminal() {
			return view, nil
		}
		return models.JobView{}, ErrJobNotLocal
	}

	w.cancel()
	select {
	case <-w.done:
	case <-ctx.Done():
		return models.JobView{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return w.view, nil
}

// Active returns the number of running poll loops.
func (s *JobService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.jobs {
		if !w.view.Terminal() {
			n++
		}
	}
	return n
}

// Shutdown cancels every poll loop and waits for them to exit or for ctx.
func (s *JobService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stop()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func statusOrRunning(status string) string {
	if status == "" {
		return creative.JobStatusRunning
	}
	return status
}
