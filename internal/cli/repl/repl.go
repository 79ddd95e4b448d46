package repl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"ojspace/internal/cli/command"
	"ojspace/internal/cli/config"
	"ojspace/internal/cli/state"
	"ojspace/internal/cli/view"
	"ojspace/internal/judgeclient"
	"ojspace/internal/workspace"
	"ojspace/internal/workspace/debug"
	"ojspace/internal/workspace/editor"
	"ojspace/internal/workspace/layout"
	"ojspace/internal/workspace/notice"
	"ojspace/pkg/errors"
	"ojspace/pkg/utils/logger"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
)

// Session holds REPL state. It hosts one workspace at a time.
type Session struct {
	client   *judgeclient.Client
	problems judgeclient.ProblemGetter
	commands map[string]command.Command
	cfg      config.Config
	viewport float64
	out      io.Writer
	render   *view.Renderer
	bus      *layout.Bus

	ws *workspace.Workspace

	navMu     sync.Mutex
	navigated string

	statePath string
	state     *state.State
}

func New(client *judgeclient.Client, cfg config.Config, viewport float64, out io.Writer) *Session {
	return &Session{
		client:   client,
		problems: client,
		commands: command.Registry(),
		cfg:      cfg,
		viewport: viewport,
		out:      out,
		render:   view.NewRenderer(out, cfg.Color != nil && *cfg.Color),
		bus:      layout.NewBus(),
	}
}

// UseProblems replaces where Open reads problems from.
func (s *Session) UseProblems(p judgeclient.ProblemGetter) {
	s.problems = p
}

// Persist makes the session remember opened problems and submissions in st,
// saved to path after every change.
func (s *Session) Persist(path string, st *state.State) {
	s.statePath = path
	s.state = st
}

func (s *Session) saveState(ctx context.Context, update func(st *state.State)) {
	if s.state == nil {
		return
	}
	update(s.state)
	if err := state.Save(s.statePath, *s.state); err != nil {
		logger.Warn(ctx, "save state failed", zap.String("path", s.statePath), zap.Error(err))
	}
}

// Navigate records the view the workspace asked to move to.
func (s *Session) Navigate(path string) {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	s.navigated = path
}

// Notify prints workspace toasts.
func (s *Session) Notify(n notice.Notice) {
	s.render.Notice(n)
}

// Workspace returns the workspace currently hosted.
func (s *Session) Workspace() *workspace.Workspace {
	return s.ws
}

// Open fetches a problem and hosts a fresh workspace for it. The previous
// workspace, if any, is closed.
func (s *Session) Open(ctx context.Context, problemID int64) error {
	problem, err := s.problems.GetProblem(ctx, problemID)
	if err != nil {
		return err
	}

	lang, err := editor.ParseLanguage(s.cfg.Editor.Language)
	if err != nil {
		lang = editor.LanguageCPP
	}
	ws, err := workspace.New(s.client, s.bus, s, s, workspace.Config{
		Language: lang,
		Editor: editor.Settings{
			Theme:    s.cfg.Editor.Theme,
			FontSize: s.cfg.Editor.FontSize,
			TabSize:  s.cfg.Editor.TabSize,
		},
		Viewport: s.viewport,
		Ratio:    s.cfg.Layout.Ratio,
	})
	if err != nil {
		return err
	}
	if err := ws.Load(ctx, *problem); err != nil {
		ws.Close()
		return err
	}
	if s.viewport >= layout.NarrowViewport {
		ws.Layout.Open()
	}

	if s.ws != nil {
		s.ws.Close()
	}
	s.ws = ws
	logger.Info(ws.Context(ctx), "workspace opened")
	s.saveState(ctx, func(st *state.State) { st.LastProblemID = problem.ID })

	s.printLine("problem %d: %s (time %d ms, memory %d MB, %d samples)",
		problem.ID, problem.Title, problem.TimeLimit, problem.MemoryLimit, len(ws.Panel.Samples()))
	return nil
}

// Close tears down the hosted workspace.
func (s *Session) Close() {
	if s.ws != nil {
		s.ws.Close()
	}
}

// Run reads commands until exit or EOF.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ojspace> ",
		HistoryFile:     s.cfg.HistoryFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          s.out,
	})
	if err != nil {
		return fmt.Errorf("init readline failed: %w", err)
	}
	defer func() { _ = rl.Close() }()
	defer s.Close()

	for {
		line, err := rl.Readline()
		if stderrors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input failed: %w", err)
		}

		exit, err := s.Exec(ctx, line)
		if err != nil {
			s.printLine("error: %v", err)
		}
		if exit {
			s.printLine("bye")
			return nil
		}
	}
}

// Exec runs one command line. It reports whether the session should end.
func (s *Session) Exec(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	inv, err := command.Parse(s.commands, line)
	if err != nil {
		return false, err
	}

	switch inv.Command.Name {
	case "exit":
		return true, nil
	case "help":
		s.printHelp()
		return false, nil
	case "open":
		id, err := command.ParseInt64(inv.Arg(0))
		if err != nil {
			return false, fmt.Errorf("invalid problem id: %s", inv.Arg(0))
		}
		return false, s.Open(ctx, id)
	}

	if s.ws == nil {
		return false, errors.New(errors.NoProblemLoaded).WithMessage("no problem open, use: open <problem-id>")
	}
	return false, s.dispatch(ctx, inv)
}

func (s *Session) dispatch(ctx context.Context, inv command.Invocation) error {
	switch inv.Command.Name {
	case "code":
		return s.handleCode(inv)
	case "lang":
		return s.handleLang(inv)
	case "theme":
		return s.handleTheme(inv)
	case "font":
		n, err := command.ParseInt(inv.Arg(0))
		if err != nil {
			return errors.New(errors.FontSizeInvalid).WithDetail("font", inv.Arg(0))
		}
		s.printLine("font size %d", s.ws.Editor.SetFontSize(n))
	case "tab":
		n, err := command.ParseInt(inv.Arg(0))
		if err != nil {
			return errors.New(errors.TabSizeInvalid)
		}
		if err := s.ws.Editor.SetTabSize(n); err != nil {
			return err
		}
		s.printLine("tab size %d", n)
	case "samples":
		s.render.Samples(s.ws.Panel.Samples(), s.ws.Panel.Selected())
	case "sample":
		i, err := command.ParseInt(inv.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid sample index: %s", inv.Arg(0))
		}
		if err := s.ws.Panel.SelectSample(i); err != nil {
			return err
		}
		s.render.Debug(s.ws.Panel.View())
	case "input":
		text, err := command.TextArg(inv.Rest(0))
		if err != nil {
			return err
		}
		s.ws.Panel.SetInput(text)
	case "expect":
		text, err := command.TextArg(inv.Rest(0))
		if err != nil {
			return err
		}
		s.ws.Panel.SetExpectedOutput(text)
	case "run":
		return s.handleRun(ctx)
	case "submit":
		return s.handleSubmit(ctx)
	case "result":
		switch inv.Arg(0) {
		case "input":
			s.ws.Panel.SetTab(debug.TabInput)
		case "output":
			s.ws.Panel.SetTab(debug.TabOutput)
		}
		s.showPanel()
	case "layout":
		return s.handleLayout(inv)
	}
	return nil
}

func (s *Session) handleCode(inv command.Invocation) error {
	switch inv.Arg(0) {
	case "load":
		if inv.Arg(1) == "" {
			return &command.UsageError{Usage: inv.Command.Usage}
		}
		code, err := command.ReadFile(inv.Arg(1))
		if err != nil {
			return err
		}
		s.ws.Editor.SetCode(code)
		s.printLine("loaded %d bytes", len(code))
	case "show":
		s.render.Editor(s.ws.Editor.Snapshot(), true)
	case "reset":
		s.ws.Editor.Reset()
		s.printLine("buffer reset to the %s template", s.ws.Editor.Snapshot().Language)
	default:
		return &command.UsageError{Usage: inv.Command.Usage}
	}
	return nil
}

func (s *Session) handleLang(inv command.Invocation) error {
	if inv.Arg(0) != "" {
		lang, err := editor.ParseLanguage(inv.Arg(0))
		if err != nil {
			return err
		}
		if err := s.ws.Editor.SetLanguage(lang); err != nil {
			return err
		}
	}
	s.render.Editor(s.ws.Editor.Snapshot(), false)
	return nil
}

func (s *Session) handleTheme(inv command.Invocation) error {
	if inv.Arg(0) == "" {
		s.printLine("themes: %s", strings.Join(editor.Themes, ", "))
		s.render.Editor(s.ws.Editor.Snapshot(), false)
		return nil
	}
	if err := s.ws.Editor.SetTheme(inv.Arg(0)); err != nil {
		return err
	}
	s.render.Editor(s.ws.Editor.Snapshot(), false)
	return nil
}

// handleRun reports only failures the workspace did not already toast.
func (s *Session) handleRun(ctx context.Context) error {
	_, err := s.ws.Debug(ctx)
	if err != nil {
		if errors.Is(err, errors.DebugInFlight) || errors.Is(err, errors.WorkspaceClosed) {
			return err
		}
		return nil
	}
	s.showPanel()
	return nil
}

func (s *Session) handleSubmit(ctx context.Context) error {
	s.Navigate("")
	id, err := s.ws.Submit(ctx)
	if err != nil {
		if errors.Is(err, errors.SubmitInFlight) || errors.Is(err, errors.WorkspaceClosed) {
			return err
		}
		return nil
	}

	if p, ok := s.ws.Problem(); ok {
		lang := string(s.ws.Editor.Snapshot().Language)
		s.saveState(ctx, func(st *state.State) {
			st.Remember(state.Recent{ID: id, ProblemID: p.ID, Language: lang, SubmittedAt: time.Now()})
		})
	}

	s.navMu.Lock()
	path := s.navigated
	s.navMu.Unlock()
	if path == "" {
		return nil
	}
	s.printLine("submitted, opening %s", path)
	return s.showSubmission(ctx, id)
}

// showSubmission is the submission detail view: it follows the verdict
// until it settles, the follow timeout passes, or ctx is cancelled.
func (s *Session) showSubmission(ctx context.Context, id judgeclient.SubmissionID) error {
	followCtx, cancel := context.WithTimeout(ctx, s.cfg.FollowTimeout)
	defer cancel()

	final, err := view.Follow(followCtx, s.client, id, s.cfg.FollowInterval, func(d *judgeclient.SubmissionDetail) {
		s.printLine("  %s", s.render.Status(d.Status))
	})
	if err != nil {
		if ctx.Err() == nil && stderrors.Is(err, context.DeadlineExceeded) {
			s.printLine("verdict not final after %s, check later with: ojspace status %s", s.cfg.FollowTimeout, id)
			return nil
		}
		logger.Warn(ctx, "follow submission failed", zap.String("submission_id", id.String()), zap.Error(err))
		return err
	}
	s.render.SubmissionDetail(final)
	return nil
}

func (s *Session) handleLayout(inv command.Invocation) error {
	ctrl := s.ws.Layout
	switch inv.Arg(0) {
	case "toggle":
		ctrl.Toggle()
	case "show":
	case "drag":
		from, err1 := command.ParseFloat(inv.Arg(1))
		to, err2 := command.ParseFloat(inv.Arg(2))
		if err1 != nil || err2 != nil {
			return &command.UsageError{Usage: inv.Command.Usage}
		}
		if !ctrl.BeginResize(from) {
			return fmt.Errorf("panel is closed")
		}
		s.bus.Move(to)
		s.bus.Up(to)
	case "viewport":
		w, err := command.ParseFloat(inv.Arg(1))
		if err != nil {
			return &command.UsageError{Usage: inv.Command.Usage}
		}
		if _, err := ctrl.ViewportResized(w); err != nil {
			return err
		}
		s.viewport = w
	default:
		return &command.UsageError{Usage: inv.Command.Usage}
	}
	s.render.Layout(ctrl.State())
	return nil
}

// showPanel draws the debug panel when the side panel is visible.
func (s *Session) showPanel() {
	v := s.ws.Panel.View()
	if !s.ws.Layout.State().Open {
		if v.HasResult {
			s.printLine("%s (panel closed, use: layout toggle)", s.render.Paint(v.Status.Color, v.Status.Label))
		} else {
			s.printLine("panel closed, use: layout toggle")
		}
		return
	}
	s.render.Debug(v)
}

func (s *Session) completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(s.commands))
	for _, cmd := range command.List(s.commands) {
		items = append(items, readline.PcItem(cmd.Name))
	}
	return readline.NewPrefixCompleter(items...)
}

func (s *Session) printHelp() {
	for _, cmd := range command.List(s.commands) {
		s.printLine("  %-52s %s", cmd.Usage, cmd.Summary)
	}
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}
