package ai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/logger"
)

// errCancelled marks results of cancelled requests; they are never shown.
var errCancelled = errors.New("AI request cancelled")

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithProviderFactory replaces NewProvider, mainly for tests.
func WithProviderFactory(f ProviderFactory) Option {
	return func(c *Coordinator) { c.newProvider = f }
}

// WithEventManager makes the coordinator publish AIRequestChanged events.
func WithEventManager(m *event.Manager) Option {
	return func(c *Coordinator) { c.events = m }
}

// Coordinator owns the request table and the worker goroutines.
//
// Submit, Cancel, CancelAll and Deliver are meant to be called from the
// goroutine that owns the document; events are dispatched from there.
// Workers only update request state and send on the results channel.
type Coordinator struct {
	cfg         config.AIConfig
	prompts     PromptStore
	newProvider ProviderFactory
	events      *event.Manager

	sem       chan struct{}
	results   chan Result
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu       sync.Mutex
	requests map[string]*Request
}

// NewCoordinator creates a coordinator for cfg. prompts may be nil when no
// prompt directory is available.
func NewCoordinator(cfg config.AIConfig, prompts PromptStore, opts ...Option) *Coordinator {
	n := cfg.MaxConcurrent
	if n <= 0 {
		n = config.DefaultAIMaxConcurrent
	}
	c := &Coordinator{
		cfg:         cfg,
		prompts:     prompts,
		newProvider: NewProvider,
		sem:         make(chan struct{}, n),
		results:     make(chan Result, 4*n),
		done:        make(chan struct{}),
		requests:    make(map[string]*Request),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Results is the channel the owner loop reads and passes to Deliver.
func (c *Coordinator) Results() <-chan Result { return c.results }

// Submit validates spec, registers a Queued request and starts its worker.
// The request's timeout covers both the wait for a free slot and the
// provider call.
func (c *Coordinator) Submit(spec Spec) (Request, error) {
	select {
	case <-c.done:
		return Request{}, errs.AIFailure("AI coordinator is closed")
	default:
	}
	if len(c.cfg.Models) == 0 {
		return Request{}, errs.AIFailure("no AI models configured")
	}
	m, ok := c.cfg.FindModel(spec.ModelID)
	if !ok {
		id := spec.ModelID
		if id == "" {
			id = c.cfg.DefaultModel
		}
		return Request{}, errs.AIFailure(fmt.Sprintf("unknown model %q", id))
	}
	if !spec.Prompt.Named() && strings.TrimSpace(spec.Prompt.Text) == "" {
		return Request{}, errs.Invalid("empty prompt")
	}
	p, err := c.newProvider(m)
	if err != nil {
		return Request{}, err
	}

	timeout := c.cfg.Timeout(m)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	req := &Request{
		ID:      uuid.New().String(),
		Kind:    spec.Kind,
		Prompt:  spec.Prompt,
		Model:   m,
		Timeout: timeout,
		State:   StateQueued,
		Target:  spec.Target,
		Issued:  time.Now(),
		cancel:  cancel,
	}

	c.mu.Lock()
	c.requests[req.ID] = req
	snapshot := *req
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(ctx, snapshot, p)

	logger.InfoTagf("ai", "request %s queued: %s %q on %s, lines %d-%d, timeout %s",
		req.ID, req.Kind, req.Prompt, m.ID, req.Target.FirstLine+1, req.Target.LastLine+1, timeout)
	c.changed(snapshot)
	return snapshot, nil
}

func (c *Coordinator) run(ctx context.Context, req Request, p Provider) {
	defer c.wg.Done()
	defer req.cancel()

	start := time.Now()
	res := Result{ID: req.ID, Kind: req.Kind, Model: req.Model.ID, Target: req.Target}

	var err error
	select {
	case c.sem <- struct{}{}:
		c.setState(req.ID, StateInFlight)
		var call Call
		call, err = c.buildCall(req)
		if err == nil {
			logger.DebugTagf("ai", "request %s sent to %s (%s)", req.ID, req.Model.ID, req.Model.Provider)
			res.Response, err = p.Complete(ctx, call)
		}
		<-c.sem
	case <-ctx.Done():
		err = ctx.Err()
	}

	res.Elapsed = time.Since(start)
	res.Err = classify(ctx, err, req.Timeout)
	if res.Err != nil {
		logger.DebugTagf("ai", "request %s ended after %s: %v", req.ID, res.Elapsed, res.Err)
	} else {
		logger.DebugTagf("ai", "request %s answered after %s: %q", req.ID, res.Elapsed, res.Response)
	}

	select {
	case c.results <- res:
	case <-c.done:
	}
}

// buildCall resolves the prompt into the messages sent to the provider.
func (c *Coordinator) buildCall(req Request) (Call, error) {
	call := Call{Model: req.Model}
	if req.Prompt.Named() {
		if c.prompts == nil {
			return call, errs.AIFailure("no prompt directory configured")
		}
		t, err := c.prompts.Load(req.Prompt.Name)
		if err != nil {
			return call, err
		}
		call.System, call.User = t.Render(req.Target.Text)
		return call, nil
	}
	call.System = DefaultSystemPrompt
	if req.Kind == KindAsk {
		call.System = AskSystemPrompt
	}
	call.User = UserMessage(req.Prompt.Text, req.Target.Text)
	return call, nil
}

// classify maps a worker error onto the error kinds the owner reports.
func classify(ctx context.Context, err error, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", errs.ErrAIRequestTimedOut, timeout)
	case errors.Is(err, context.Canceled), errors.Is(ctx.Err(), context.Canceled):
		return errCancelled
	case errors.Is(err, errs.ErrAIRequestFailed):
		return err
	}
	return errs.AIFailure(err.Error())
}

func (c *Coordinator) setState(id string, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if req, ok := c.requests[id]; ok && !req.State.Terminal() {
		req.State = s
	}
}

// Deliver settles the request res belongs to and removes it from the
// table. ok is false when the result must be dropped silently because the
// request was cancelled or is unknown.
func (c *Coordinator) Deliver(res Result) (req Request, ok bool) {
	c.mu.Lock()
	r, found := c.requests[res.ID]
	if found {
		delete(c.requests, res.ID)
	}
	if !found || r.State == StateCancelled || errors.Is(res.Err, errCancelled) {
		c.mu.Unlock()
		logger.DebugTagf("ai", "dropping result for request %s", res.ID)
		return Request{}, false
	}
	switch {
	case res.Err == nil:
		r.State = StateCompleted
	case errors.Is(res.Err, errs.ErrAIRequestTimedOut):
		r.State = StateTimedOut
	default:
		r.State = StateFailed
	}
	req = *r
	c.mu.Unlock()

	logger.InfoTagf("ai", "request %s %s after %s", req.ID, req.State, res.Elapsed)
	c.changed(req)
	return req, true
}

// Cancel cancels a queued or in-flight request.
func (c *Coordinator) Cancel(id string) error {
	c.mu.Lock()
	req, ok := c.requests[id]
	if !ok || req.State == StateCancelled {
		c.mu.Unlock()
		return fmt.Errorf("AI request %s: %w", id, errs.ErrNotFound)
	}
	req.State = StateCancelled
	req.cancel()
	snapshot := *req
	c.mu.Unlock()

	logger.InfoTagf("ai", "request %s cancelled", id)
	c.changed(snapshot)
	return nil
}

// CancelAll cancels every active request and returns how many there were.
// It is called when the document is closed or replaced.
func (c *Coordinator) CancelAll() int {
	n := 0
	for _, req := range c.Active() {
		if c.Cancel(req.ID) == nil {
			n++
		}
	}
	return n
}

// Get returns a copy of a tracked request.
func (c *Coordinator) Get(id string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	req, ok := c.requests[id]
	if !ok {
		return Request{}, false
	}
	return *req, true
}

// Active returns the queued and in-flight requests, oldest first.
func (c *Coordinator) Active() []Request {
	c.mu.Lock()
	out := make([]Request, 0, len(c.requests))
	for _, req := range c.requests {
		if req.State == StateQueued || req.State == StateInFlight {
			out = append(out, *req)
		}
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Issued.Equal(out[j].Issued) {
			return out[i].ID < out[j].ID
		}
		return out[i].Issued.Before(out[j].Issued)
	})
	return out
}

func (c *Coordinator) changed(req Request) {
	if c.events == nil {
		return
	}
	c.events.Dispatch(event.TypeAIRequestChanged, event.AIRequestChangedData{
		ID:     req.ID,
		State:  req.State.String(),
		Active: len(c.Active()),
	})
}

// Close cancels everything and waits for the workers to exit. Results not
// yet delivered are discarded.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.CancelAll()
		close(c.done)
		c.wg.Wait()
	})
}
