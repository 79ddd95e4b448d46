package cmd

import (
	"ojspace/internal/cli/state"
	"ojspace/internal/judgeclient"

	"github.com/spf13/cobra"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	var q judgeclient.ListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions on the judge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			if q.PageSize <= 0 {
				q.PageSize = a.cfg.PageSize
			}
			page, err := a.client.ListSubmissions(cmd.Context(), q)
			if err != nil {
				return err
			}
			a.render.SubmissionList(page)
			return nil
		},
	}
	cmd.Flags().Int64Var(&q.ProblemID, "problem", 0, "only submissions for this problem")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 0, "page size (default from config)")
	return cmd
}

func newRecentCommand(opts *globalOptions) *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List submissions made from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			if forget {
				return state.Clear(a.cfg.StatePath)
			}
			a.render.Recent(a.state.Recent)
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "clear", false, "forget remembered problems and submissions")
	return cmd
}
