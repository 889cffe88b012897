package spotcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/spotcheck/internal/runtime"
	"github.com/aretw0/spotcheck/pkg/adapters/memory"
	"github.com/aretw0/spotcheck/pkg/domain"
	"github.com/aretw0/spotcheck/pkg/ports"
	"github.com/aretw0/spotcheck/pkg/session"
)

// Engine is the high-level entry point for running usability tests.
// It wraps the flow controller and the session manager behind a single Interact call.
type Engine struct {
	runtime  *runtime.Engine
	sessions *session.Manager

	catalog     ports.Catalog
	recorder    ports.ResultRecorder
	store       ports.StateStore
	locker      ports.DistributedLocker
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	maxTextSize int
}

// Outcome is the result of one interaction.
type Outcome struct {
	// Token is the identity the client must carry on its next request.
	// It differs from the incoming token when a fresh attempt was started or
	// the attempt was completed and its token rotated.
	Token string

	// Rotated is true when the incoming token was retired by this interaction.
	Rotated bool

	View domain.View
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog sets the step catalog (required).
func WithCatalog(c ports.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithRecorder sets the result recorder (required).
func WithRecorder(r ports.ResultRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithStore sets the session state store (default: in memory).
func WithStore(s ports.StateStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker enables distributed locking of identities across replicas.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithTokenGenerator overrides the identity token generator.
func WithTokenGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

// WithMaxTextSize limits the size of each free-text questionnaire answer.
func WithMaxTextSize(n int) Option {
	return func(e *Engine) {
		e.maxTextSize = n
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.catalog == nil {
		return nil, fmt.Errorf("a catalog is required")
	}
	if eng.recorder == nil {
		return nil, fmt.Errorf("a result recorder is required")
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	sessionOpts := []session.Option{
		session.WithLogger(eng.logger),
		session.WithIDGenerator(eng.newID),
	}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	eng.runtime = runtime.NewEngine(eng.catalog, eng.recorder,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.now),
		runtime.WithSanitizer(runtime.NewSanitizer(eng.maxTextSize)),
	)

	return eng, nil
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Interact runs one request for the identity token.
//
// An empty, unknown or expired token starts a fresh attempt under a new token;
// nothing is stored until that attempt records its first event. A completed
// attempt always renders the thank-you view and never records again.
//
// For protocol errors (see domain.IsProtocolError) the returned Outcome is non-nil
// and carries the authoritative current view so the client can resync.
func (e *Engine) Interact(ctx context.Context, token string, in domain.Interaction) (*Outcome, error) {
	steps, err := e.runtime.Steps(ctx)
	if err != nil {
		return nil, err
	}

	if token != "" {
		var out *Outcome
		found := false
		err := e.sessions.WithLock(ctx, token, func(ctx context.Context) error {
			state, err := e.store.Load(ctx, token)
			if errors.Is(err, domain.ErrSessionNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load session: %w", err)
			}
			found = true
			out, err = e.apply(ctx, token, state, steps, in)
			return err
		})
		if found || err != nil {
			return out, err
		}
		e.logger.Debug("unknown or expired session, starting fresh", "session_id", token)
	}

	state, err := e.runtime.Start(steps)
	if err != nil {
		return nil, err
	}

	id := e.sessions.NewID()
	var out *Outcome
	err = e.sessions.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		out, err = e.apply(ctx, id, state, steps, in)
		return err
	})
	return out, err
}

// apply runs the event against state. The caller holds the lock for id.
func (e *Engine) apply(ctx context.Context, id string, state *domain.State, steps []domain.Step, in domain.Interaction) (*Outcome, error) {
	current := &Outcome{Token: id, View: e.runtime.Render(state, steps)}

	if state.Completed() || in.IsRender() {
		return current, nil
	}

	if in.Click != nil {
		next, err := e.runtime.Click(ctx, id, state, steps, *in.Click)
		if err != nil {
			return current, err
		}
		if err := e.store.Save(ctx, id, next); err != nil {
			// The click is already in the log; the participant will repeat this step.
			e.logger.Error("click recorded but session not saved", "session_id", id, "err", err)
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		return &Outcome{Token: id, View: e.runtime.Render(next, steps)}, nil
	}

	next, err := e.runtime.Submit(ctx, id, state, steps, *in.Questionnaire)
	if err != nil {
		return current, err
	}
	newID, err := e.sessions.Rotate(ctx, id, next)
	if err != nil {
		e.logger.Error("questionnaire recorded but session not retired", "session_id", id, "err", err)
		return nil, err
	}
	return &Outcome{Token: newID, Rotated: true, View: e.runtime.Render(next, steps)}, nil
}
