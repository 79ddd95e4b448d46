// Package debug is the run cycle of the workspace: sample selection, custom
// input, one debug call at a time and the rendered verdict.
package debug

import (
	"context"
	"strings"
	"sync"

	"ojspace/internal/judgeclient"
	"ojspace/internal/workspace/editor"
	"ojspace/internal/workspace/notice"
	"ojspace/internal/workspace/sample"
	"ojspace/pkg/errors"
	"ojspace/pkg/utils/logger"

	"go.uber.org/zap"
)

// ErrDebugInFlight is returned by Run while another run is pending. No call is made.
var ErrDebugInFlight = errors.New(errors.DebugInFlight)

// ErrDebugStale is returned by Run when the panel was reloaded or invalidated
// while the call was pending. The result is dropped and nothing is notified.
var ErrDebugStale = errors.New(errors.DebugResultStale)

// Tab is the visible half of the input/output view.
type Tab string

const (
	TabInput  Tab = "input"
	TabOutput Tab = "output"
)

// Runner executes debug requests against the judge.
type Runner interface {
	Debug(ctx context.Context, req judgeclient.DebugRequest) (*judgeclient.DebugResult, error)
}

// Limits are the problem limits forwarded with every run.
type Limits struct {
	TimeLimit   int64 // ms
	MemoryLimit int64 // MB
}

// Panel is the debug panel of one workspace.
type Panel struct {
	mu       sync.Mutex
	runner   Runner
	notifier notice.Notifier

	samples  []sample.Sample
	limits   Limits
	selected int
	input    string
	expected string
	tab      Tab

	running    bool
	generation uint64
	result     *judgeclient.DebugResult
	ranInput   string
}

func NewPanel(runner Runner, notifier notice.Notifier) *Panel {
	if notifier == nil {
		notifier = notice.Discard
	}
	return &Panel{runner: runner, notifier: notifier, selected: -1, tab: TabInput, samples: []sample.Sample{}}
}

// Load resets the panel for a new problem. A run still pending for the
// previous problem is ignored when it returns.
func (p *Panel) Load(samples []sample.Sample, limits Limits) {
	if samples == nil {
		samples = []sample.Sample{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples = samples
	p.limits = limits
	p.selected = -1
	p.input = ""
	p.expected = ""
	p.tab = TabInput
	p.result = nil
	p.ranInput = ""
	p.invalidateLocked()
}

// Invalidate drops any pending run: its result will be ignored when it
// returns. The guard stays set until then.
func (p *Panel) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidateLocked()
}

func (p *Panel) invalidateLocked() {
	p.generation++
}

// Samples returns the sample list the chips are rendered from.
func (p *Panel) Samples() []sample.Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samples
}

// SelectSample copies sample i into the input and expected output fields and
// shows the input tab. It does not run.
func (p *Panel) SelectSample(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.samples) {
		return errors.New(errors.SampleIndexOutOfRange).
			WithDetail("index", i).
			WithDetail("count", len(p.samples))
	}
	p.selected = i
	p.input = p.samples[i].Input
	p.expected = p.samples[i].Output
	p.tab = TabInput
	return nil
}

// SetInput replaces the input with custom text. The sample selection and its
// expected output no longer apply.
func (p *Panel) SetInput(input string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = input
	p.selected = -1
	p.expected = ""
	p.tab = TabInput
}

// SetExpectedOutput sets the output the run is judged against.
func (p *Panel) SetExpectedOutput(expected string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expected = expected
}

// SetTab switches the visible tab.
func (p *Panel) SetTab(tab Tab) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tab == TabInput || tab == TabOutput {
		p.tab = tab
	}
}

// Input returns the current input field.
func (p *Panel) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// ExpectedOutput returns the current expected output field.
func (p *Panel) ExpectedOutput() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expected
}

// Selected returns the selected sample index, or -1.
func (p *Panel) Selected() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Running reports whether a run is pending; hosts disable "run" while it is.
func (p *Panel) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Result returns the last successful result, if any.
func (p *Panel) Result() *judgeclient.DebugResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Run sends the buffer with the current input. A transport or service failure
// keeps the previous result and is reported through the notifier. A result
// that outlives a Load or Invalidate is dropped with ErrDebugStale.
func (p *Panel) Run(ctx context.Context, code editor.State) (*judgeclient.DebugResult, error) {
	if strings.TrimSpace(code.Code) == "" {
		err := errors.RequiredError("code")
		p.notifier.Notify(notice.FromError(err))
		return nil, err
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrDebugInFlight
	}
	p.running = true
	gen := p.generation
	req := judgeclient.DebugRequest{
		Language:       string(code.Language),
		Code:           code.Code,
		Input:          p.input,
		ExpectedOutput: p.expected,
		TimeLimit:      p.limits.TimeLimit,
		MemoryLimit:    p.limits.MemoryLimit,
	}
	p.mu.Unlock()

	logger.Debug(ctx, "debug run started", zap.String("language", req.Language), zap.Int("input_bytes", len(req.Input)))
	result, err := p.runner.Debug(ctx, req)
	if err == nil && result == nil {
		err = errors.Newf(errors.MalformedResponse, "debug: empty result")
	}

	p.mu.Lock()
	p.running = false
	if gen != p.generation {
		p.mu.Unlock()
		logger.Debug(ctx, "stale debug result dropped")
		return nil, ErrDebugStale
	}
	if err != nil {
		p.mu.Unlock()
		logger.Warn(ctx, "debug run failed", zap.Error(err))
		p.notifier.Notify(notice.FromError(err))
		return nil, err
	}
	p.result = result
	p.ranInput = req.Input
	p.tab = TabOutput
	p.mu.Unlock()

	logger.Info(ctx, "debug run finished", zap.String("status", result.Status), zap.Bool("is_correct", result.IsCorrect))
	return result, nil
}
