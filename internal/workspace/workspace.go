// Package workspace composes one interactive problem view: the editor, the
// debug panel, the submission gateway and the side panel layout. Instances
// share nothing with each other.
package workspace

import (
	"context"
	"sync"

	"ojspace/internal/judgeclient"
	"ojspace/internal/workspace/debug"
	"ojspace/internal/workspace/editor"
	"ojspace/internal/workspace/layout"
	"ojspace/internal/workspace/notice"
	"ojspace/internal/workspace/sample"
	"ojspace/internal/workspace/submit"
	"ojspace/pkg/errors"
	"ojspace/pkg/utils/contextkey"
	"ojspace/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the part of the judge API a workspace calls.
type Client interface {
	debug.Runner
	submit.Submitter
}

// Navigator moves the host to another view.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Config holds the per-instance presentation settings.
type Config struct {
	Language editor.Language
	Editor   editor.Settings
	Viewport float64
	Ratio    float64
}

// Workspace is one problem view.
type Workspace struct {
	id       string
	nav      Navigator
	notifier notice.Notifier

	Editor *editor.Editor
	Panel  *debug.Panel
	Layout *layout.Controller
	submit *submit.Gateway

	mu         sync.Mutex
	problem    *judgeclient.Problem
	generation uint64
	closed     bool
	inflight   sync.WaitGroup
}

// DebugOutcome is the settled result of an asynchronous debug run.
type DebugOutcome struct {
	Result *judgeclient.DebugResult
	Err    error
}

// SubmitOutcome is the settled result of an asynchronous submit.
type SubmitOutcome struct {
	SubmissionID judgeclient.SubmissionID
	Err          error
}

func New(client Client, pointer layout.PointerSource, nav Navigator, notifier notice.Notifier, cfg Config) (*Workspace, error) {
	if notifier == nil {
		notifier = notice.Discard
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	ctrl, err := layout.NewController(pointer, cfg.Viewport, layout.WithRatio(cfg.Ratio))
	if err != nil {
		return nil, err
	}
	w := &Workspace{
		id:       uuid.NewString(),
		nav:      nav,
		notifier: notifier,
		Editor:   editor.New(cfg.Language, cfg.Editor),
		Panel:    debug.NewPanel(client, notifier),
		Layout:   ctrl,
		submit:   submit.NewGateway(client, notifier),
	}
	return w, nil
}

func (w *Workspace) ID() string {
	return w.id
}

// Context returns ctx carrying the workspace and problem ids for logging.
func (w *Workspace) Context(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, contextkey.WorkspaceID, w.id)
	w.mu.Lock()
	p := w.problem
	w.mu.Unlock()
	if p != nil {
		ctx = context.WithValue(ctx, contextkey.ProblemID, p.ID)
	}
	return ctx
}

// Load shows a problem. Samples are derived again from the descriptor, the
// debug input and result are reset, and calls still pending for the previous
// problem are ignored when they return.
func (w *Workspace) Load(ctx context.Context, p judgeclient.Problem) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errors.New(errors.WorkspaceClosed)
	}
	w.problem = &p
	w.generation++
	w.mu.Unlock()

	ctx = w.Context(ctx)
	samples := sample.FromRaw(ctx, p.SampleCases)
	w.Panel.Load(samples, debug.Limits{TimeLimit: p.TimeLimit, MemoryLimit: p.MemoryLimit})
	logger.Info(ctx, "problem loaded", zap.String("title", p.Title), zap.Int("samples", len(samples)))
	return nil
}

// Problem returns the loaded descriptor.
func (w *Workspace) Problem() (judgeclient.Problem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.problem == nil {
		return judgeclient.Problem{}, false
	}
	return *w.problem, true
}

// Debug runs the buffer against the panel input and waits for the verdict.
// A verdict that arrives after Load or Close is dropped with debug.ErrDebugStale.
func (w *Workspace) Debug(ctx context.Context) (*judgeclient.DebugResult, error) {
	if _, err := w.begin(); err != nil {
		return nil, err
	}
	defer w.inflight.Done()

	return w.Panel.Run(w.Context(ctx), w.Editor.Snapshot())
}

// Submit sends the buffer for grading. On success the host is navigated once
// to the submission view, unless the workspace was closed or switched problem
// in the meantime.
func (w *Workspace) Submit(ctx context.Context) (judgeclient.SubmissionID, error) {
	gen, err := w.begin()
	if err != nil {
		return "", err
	}
	defer w.inflight.Done()

	ctx = w.Context(ctx)
	p, ok := w.Problem()
	if !ok {
		err := errors.New(errors.NoProblemLoaded)
		w.notifier.Notify(notice.FromError(err))
		return "", err
	}
	st := w.Editor.Snapshot()
	id, err := w.submit.Submit(ctx, p.ID, st.Language, st.Code)
	if err != nil {
		return "", err
	}

	if !w.current(gen) {
		logger.Info(ctx, "navigation skipped for stale submission", zap.String("submission_id", id.String()))
		return id, nil
	}
	w.nav.Navigate(id.Path())
	return id, nil
}

// DebugAsync starts Debug in the background. The channel receives exactly one outcome.
func (w *Workspace) DebugAsync(ctx context.Context) <-chan DebugOutcome {
	out := make(chan DebugOutcome, 1)
	go func() {
		res, err := w.Debug(ctx)
		out <- DebugOutcome{Result: res, Err: err}
	}()
	return out
}

// SubmitAsync starts Submit in the background. The channel receives exactly one outcome.
func (w *Workspace) SubmitAsync(ctx context.Context) <-chan SubmitOutcome {
	out := make(chan SubmitOutcome, 1)
	go func() {
		id, err := w.Submit(ctx)
		out <- SubmitOutcome{SubmissionID: id, Err: err}
	}()
	return out
}

// Submitting reports whether a submit is pending.
func (w *Workspace) Submitting() bool {
	return w.submit.Submitting()
}

// Closed reports whether Close was called.
func (w *Workspace) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close tears the instance down: pointer listeners are removed, pending
// results are ignored, and Close returns once in-flight calls settle.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.generation++
	w.mu.Unlock()

	w.Layout.Dispose()
	w.Panel.Invalidate()
	w.inflight.Wait()
	logger.Debug(w.Context(context.Background()), "workspace closed")
}

func (w *Workspace) begin() (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, errors.New(errors.WorkspaceClosed)
	}
	w.inflight.Add(1)
	return w.generation, nil
}

func (w *Workspace) current(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && w.generation == gen
}
