package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"ojspace/internal/cli/config"
	"ojspace/internal/cli/state"
	"ojspace/internal/cli/view"
	"ojspace/internal/common/cache"
	"ojspace/internal/judgeclient"
	"ojspace/pkg/utils/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const defaultConfigPath = "configs/ojspace.yaml"

// pixelsPerColumn converts a terminal width into a layout viewport.
const pixelsPerColumn = 8

type globalOptions struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	token      string
	logLevel   string
	noColor    bool
}

// app is what every subcommand needs once flags and config are resolved.
type app struct {
	cfg      config.Config
	client   *judgeclient.Client
	problems judgeclient.ProblemGetter
	closers  []func() error
	state    state.State
	render   *view.Renderer
	out      io.Writer
}

// NewRootCommand builds the ojspace command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "ojspace",
		Short: "Terminal workspace for online judge problems",
		Long: `ojspace opens a problem in an interactive workspace: edit code, debug it
against samples or custom input, and submit it for grading.

Examples:
  ojspace open 1001
  ojspace open 1001 --exec "code load main.cpp" --exec run
  ojspace status 42 --follow
  ojspace list --problem 1001`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "path to config file")
	flags.StringVar(&opts.baseURL, "base", "", "override judge base URL")
	flags.DurationVar(&opts.timeout, "timeout", 0, "override HTTP timeout (e.g. 10s)")
	flags.StringVar(&opts.token, "token", "", "override access token")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newOpenCommand(opts),
		newStatusCommand(opts),
		newListCommand(opts),
		newRecentCommand(opts),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure. An interrupt
// cancels the command context, which ends a pending follow or call.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, err := config.LoadOptional(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.token != "" {
		cfg.Token = opts.token
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	st, err := state.Load(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	useColor := !opts.noColor && *cfg.Color && isTerminal(out)
	enabled := useColor
	cfg.Color = &enabled

	token := cfg.Token
	client := judgeclient.New(cfg.BaseURL,
		judgeclient.WithTimeout(cfg.Timeout),
		judgeclient.WithTokenProvider(func() string { return token }),
	)
	a := &app{cfg: cfg, client: client, problems: client, state: st, render: view.NewRenderer(out, useColor), out: out}
	if cfg.Cache.Redis.Addr != "" {
		rc, err := cache.NewRedisCacheWithConfig(&cfg.Cache.Redis)
		if err != nil {
			logger.Warn(cmd.Context(), "problem cache unavailable", zap.String("addr", cfg.Cache.Redis.Addr), zap.Error(err))
		} else {
			a.problems = judgeclient.NewCachedProblems(client, rc, cfg.Cache.ProblemTTL)
			a.closers = append(a.closers, rc.Close)
		}
	}
	return a, nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		_ = closeFn()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// viewport picks the layout width: the flag, then config, then the
// terminal, then the default.
func viewport(flagValue float64, cfg config.Config, out io.Writer) float64 {
	if flagValue > 0 {
		return flagValue
	}
	if cfg.Layout.Viewport > 0 {
		return cfg.Layout.Viewport
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return float64(cols * pixelsPerColumn)
		}
	}
	return config.DefaultViewport
}
