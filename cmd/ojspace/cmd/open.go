package cmd

import (
	"fmt"
	"strconv"

	"ojspace/internal/cli/repl"

	"github.com/spf13/cobra"
)

func newOpenCommand(opts *globalOptions) *cobra.Command {
	var (
		exec     []string
		width    float64
		language string
	)
	cmd := &cobra.Command{
		Use:   "open [problem-id]",
		Short: "Open a problem in the workspace",
		Long: `Open a problem in the workspace and start the interactive prompt.
Without an id the last opened problem is reopened. With --exec the given
commands run in order and the prompt is skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			problemID := a.state.LastProblemID
			if len(args) == 1 {
				problemID, err = strconv.ParseInt(args[0], 10, 64)
				if err != nil || problemID <= 0 {
					return fmt.Errorf("invalid problem id: %s", args[0])
				}
			}
			if problemID <= 0 {
				return fmt.Errorf("no problem id given and none opened before")
			}
			if language != "" {
				a.cfg.Editor.Language = language
			}

			session := repl.New(a.client, a.cfg, viewport(width, a.cfg, a.out), a.out)
			session.Persist(a.cfg.StatePath, &a.state)
			session.UseProblems(a.problems)
			defer session.Close()

			ctx := cmd.Context()
			if err := session.Open(ctx, problemID); err != nil {
				return err
			}
			if len(exec) == 0 {
				return session.Run(ctx)
			}
			for _, line := range exec {
				exit, err := session.Exec(ctx, line)
				if err != nil {
					return fmt.Errorf("%s: %w", line, err)
				}
				if exit {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&exec, "exec", "e", nil, "run a workspace command instead of the prompt (repeatable)")
	cmd.Flags().Float64Var(&width, "viewport", 0, "viewport width in pixels (default: terminal width)")
	cmd.Flags().StringVar(&language, "lang", "", "initial language (cpp, c, java, python)")
	return cmd
}
