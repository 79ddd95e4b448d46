package cmd

import (
	"context"

	"ojspace/internal/cli/view"
	"ojspace/internal/judgeclient"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentFetches = 4

func newStatusCommand(opts *globalOptions) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "status <submission-id>...",
		Short: "Show submission verdicts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			details := make([]*judgeclient.SubmissionDetail, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentFetches)
			for i, raw := range args {
				id := judgeclient.SubmissionID(raw)
				g.Go(func() error {
					d, err := fetchSubmission(ctx, a, id, follow)
					if err != nil {
						return err
					}
					details[i] = d
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for _, d := range details {
				a.render.SubmissionDetail(d)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "poll until the verdict is final")
	return cmd
}

func fetchSubmission(ctx context.Context, a *app, id judgeclient.SubmissionID, follow bool) (*judgeclient.SubmissionDetail, error) {
	if !follow {
		return a.client.GetSubmission(ctx, id)
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.FollowTimeout)
	defer cancel()
	return view.Follow(ctx, a.client, id, a.cfg.FollowInterval, nil)
}
