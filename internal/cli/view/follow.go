package view

import (
	"context"
	"time"

	"ojspace/internal/judgeclient"
	"ojspace/internal/workspace/status"
	"ojspace/pkg/utils/logger"

	"go.uber.org/zap"
)

// SubmissionFetcher reads one submission.
type SubmissionFetcher interface {
	GetSubmission(ctx context.Context, id judgeclient.SubmissionID) (*judgeclient.SubmissionDetail, error)
}

// Follow polls a submission until its status is terminal, calling onChange
// whenever the status differs from the previous poll. Unknown statuses are
// treated as final so an unfamiliar judge cannot keep the loop alive.
func Follow(ctx context.Context, fetcher SubmissionFetcher, id judgeclient.SubmissionID, interval time.Duration, onChange func(*judgeclient.SubmissionDetail)) (*judgeclient.SubmissionDetail, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := ""
	for {
		detail, err := fetcher.GetSubmission(ctx, id)
		if err != nil {
			return nil, err
		}
		if detail.Status != last {
			last = detail.Status
			if onChange != nil {
				onChange(detail)
			}
		}
		c := status.Classify(detail.Status)
		if !c.Known() || c.Status.Terminal() {
			logger.Debug(ctx, "submission settled", zap.String("submission_id", id.String()), zap.String("status", detail.Status))
			return detail, nil
		}

		select {
		case <-ctx.Done():
			return detail, ctx.Err()
		case <-ticker.C:
		}
	}
}
