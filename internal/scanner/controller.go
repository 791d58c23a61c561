package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/djimit/PhishLens/internal/history"
	"github.com/djimit/PhishLens/internal/inference"
	"github.com/djimit/PhishLens/internal/model"
)

// View is a snapshot of the controller.
type View struct {
	State model.ScanState

	// Content and Config are the input of the current or last scan.
	Content string
	Config  model.ScanConfig

	// Item is the displayed scan; set only in StateCompleted.
	Item *model.HistoryItem

	// Err is the inference failure; set only in StateError.
	// Message is its user-facing text.
	Err     error
	Message string

	// HistoryErr is set when a completed scan could not be persisted.
	HistoryErr error

	Generation uint64
}

// Controller runs scans against an Inferer and records them in a history
// store. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex
	// recordMu is taken while mu is held so records land in completion order.
	recordMu sync.Mutex

	state      model.ScanState
	content    string
	cfg        model.ScanConfig
	item       *model.HistoryItem
	err        error
	historyErr error
	generation uint64
	cancel     context.CancelFunc

	inferer  inference.Inferer
	store    *history.Store
	logger   *slog.Logger
	clock    func() time.Time
	newID    func() (string, error)
	onChange func(View)

	group errgroup.Group
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock sets the time source for history timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithIDGenerator sets the history item id generator.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(c *Controller) {
		c.newID = newID
	}
}

// WithOnChange registers a callback invoked with a fresh View after every
// state change. It runs outside the controller lock.
func WithOnChange(fn func(View)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// New creates an idle Controller. A nil store is replaced by an in-memory one.
func New(inferer inference.Inferer, store *history.Store, opts ...Option) *Controller {
	c := &Controller{
		state:   model.StateIdle,
		cfg:     model.DefaultScanConfig(),
		inferer: inferer,
		store:   store,
		clock:   time.Now,
		newID:   newUUIDv7,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.store == nil {
		c.store = history.NewStore(history.NewMemorySlot(), history.WithLogger(c.logger))
	}
	return c
}

// newUUIDv7 returns a time-ordered id.
func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Store returns the history store.
func (c *Controller) Store() *history.Store {
	return c.store
}

// Submit validates content and starts a scan.
// Invalid input returns the validation error and changes nothing. Outside
// StateIdle it returns ErrScanInProgress or ErrNotIdle and changes nothing.
// The scan runs in the background; use Wait or WithOnChange to observe it.
func (c *Controller) Submit(ctx context.Context, content string, cfg model.ScanConfig) error {
	if err := model.ValidateInput(content); err != nil {
		return err
	}

	c.mu.Lock()
	next, effect := Transition(c.state, EventSubmit)
	if effect != EffectInvoke {
		state := c.state
		c.mu.Unlock()
		c.logger.Debug("submit ignored", "state", state)
		if state == model.StateScanning {
			return ErrScanInProgress
		}
		return fmt.Errorf("%w (state %s)", ErrNotIdle, state)
	}

	c.state = next
	c.content = content
	c.cfg = cfg
	c.item = nil
	c.err = nil
	c.historyErr = nil
	c.startLocked(ctx)
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
	return nil
}

// Retry re-runs the failed scan with the same content and configuration.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	next, effect := Transition(c.state, EventRetry)
	if effect != EffectInvoke {
		c.mu.Unlock()
		return ErrNotRetryable
	}

	c.state = next
	c.err = nil
	c.startLocked(ctx)
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
	return nil
}

// Reset returns to StateIdle and clears the displayed result and error.
// A scan still running is cancelled and its result discarded.
// The input content is kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	next, effect := Transition(c.state, EventReset)
	if effect != EffectClear {
		c.mu.Unlock()
		return
	}

	c.state = next
	c.item = nil
	c.err = nil
	c.historyErr = nil
	c.abandonLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
}

// LoadHistoryItem displays a stored scan without calling the inferer.
func (c *Controller) LoadHistoryItem(item model.HistoryItem) {
	c.mu.Lock()
	next, _ := Transition(c.state, EventLoadHistory)

	restored := item.Clone()
	c.state = next
	c.content = restored.Content
	c.cfg = restored.Config
	c.item = &restored
	c.err = nil
	c.historyErr = nil
	c.abandonLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
}

// LoadHistory displays the stored scan with the given id.
func (c *Controller) LoadHistory(id string) error {
	item, err := c.store.Get(id)
	if err != nil {
		return err
	}
	c.LoadHistoryItem(item)
	return nil
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Wait blocks until every started inference call has been applied or
// discarded.
func (c *Controller) Wait() {
	_ = c.group.Wait() //nolint:errcheck // goroutines always return nil
}

// startLocked bumps the generation and launches one inference call for the
// current content. Callers hold c.mu.
func (c *Controller) startLocked(ctx context.Context) {
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	content, cfg := c.content, c.cfg

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.logger.Debug("scan started", "generation", gen, "adversarial", cfg.AdversarialEnabled)

	c.group.Go(func() error {
		defer cancel()
		result, err := c.inferer.Infer(runCtx, content, cfg)
		c.complete(ctx, gen, content, cfg, result, err)
		return nil
	})
}

// abandonLocked makes any running scan stale. Callers hold c.mu.
func (c *Controller) abandonLocked() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// complete applies the outcome of the scan started at generation gen.
func (c *Controller) complete(ctx context.Context, gen uint64, content string, cfg model.ScanConfig, result model.ScanResult, inferErr error) {
	c.mu.Lock()
	if gen != c.generation || c.state != model.StateScanning {
		c.mu.Unlock()
		c.logger.Debug("discarding stale scan result", "generation", gen)
		return
	}

	var item model.HistoryItem
	if inferErr == nil {
		id, err := c.newID()
		if err != nil {
			inferErr = fmt.Errorf("generate history id: %w", err)
		} else {
			item = model.NewHistoryItem(id, c.clock(), content, cfg, result)
		}
	}

	if inferErr != nil {
		next, _ := Transition(c.state, EventInferenceFailed)
		c.state = next
		c.err = inferErr
		c.cancel = nil
		view := c.viewLocked()
		c.mu.Unlock()

		c.logger.Warn("scan failed", "error", inferErr)
		c.notify(view)
		return
	}

	next, _ := Transition(c.state, EventInferenceSucceeded)
	c.state = next
	c.item = &item
	c.cancel = nil
	c.recordMu.Lock()
	c.mu.Unlock()

	c.logger.Debug("scan completed", "id", item.ID, "phishing", result.IsPhishing)

	// The scan's own context may already be done; persisting must not depend on it.
	historyErr := c.store.Record(context.WithoutCancel(ctx), item)
	c.recordMu.Unlock()

	c.mu.Lock()
	if gen == c.generation {
		c.historyErr = historyErr
	}
	view := c.viewLocked()
	c.mu.Unlock()

	c.notify(view)
}

// viewLocked builds a View. Callers hold c.mu.
func (c *Controller) viewLocked() View {
	v := View{
		State:      c.state,
		Content:    c.content,
		Config:     c.cfg,
		Err:        c.err,
		HistoryErr: c.historyErr,
		Generation: c.generation,
	}
	if c.item != nil {
		item := c.item.Clone()
		v.Item = &item
	}
	if c.err != nil {
		v.Message = inference.UserMessage(c.err)
	}
	return v
}

func (c *Controller) notify(v View) {
	if c.onChange != nil {
		c.onChange(v)
	}
}
