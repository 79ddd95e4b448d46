// Package submit sends the editor buffer to the judge for scored grading.
package submit

import (
	"context"
	"strings"
	"sync"

	"ojspace/internal/judgeclient"
	"ojspace/internal/workspace/editor"
	"ojspace/internal/workspace/notice"
	"ojspace/pkg/errors"
	"ojspace/pkg/utils/logger"

	"go.uber.org/zap"
)

// ErrSubmitInFlight is returned while another submit is pending. No call is made.
var ErrSubmitInFlight = errors.New(errors.SubmitInFlight)

// Submitter creates submissions on the judge.
type Submitter interface {
	Submit(ctx context.Context, req judgeclient.SubmitRequest) (judgeclient.SubmissionID, error)
}

// Gateway allows one outstanding submit and keeps nothing once it returns.
type Gateway struct {
	mu         sync.Mutex
	client     Submitter
	notifier   notice.Notifier
	submitting bool
}

func NewGateway(client Submitter, notifier notice.Notifier) *Gateway {
	if notifier == nil {
		notifier = notice.Discard
	}
	return &Gateway{client: client, notifier: notifier}
}

// Submitting reports whether a submit is pending.
func (g *Gateway) Submitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitting
}

// Submit validates locally, then creates the submission. There is no retry;
// failures are reported through the notifier and returned.
func (g *Gateway) Submit(ctx context.Context, problemID int64, language editor.Language, code string) (judgeclient.SubmissionID, error) {
	if err := validate(problemID, language, code); err != nil {
		g.notifier.Notify(notice.FromError(err))
		return "", err
	}

	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	g.submitting = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.submitting = false
		g.mu.Unlock()
	}()

	id, err := g.client.Submit(ctx, judgeclient.SubmitRequest{
		ProblemID: problemID,
		Language:  string(language),
		Code:      code,
	})
	if err != nil {
		logger.Warn(ctx, "submit failed", zap.Int64("problem_id", problemID), zap.Error(err))
		g.notifier.Notify(notice.FromError(err))
		return "", err
	}

	logger.Info(ctx, "submission created", zap.Int64("problem_id", problemID), zap.String("submission_id", id.String()))
	return id, nil
}

func validate(problemID int64, language editor.Language, code string) error {
	if problemID <= 0 {
		return errors.New(errors.NoProblemLoaded)
	}
	if _, err := editor.ParseLanguage(string(language)); err != nil || editor.Template(language) == "" {
		return errors.Newf(errors.LanguageNotSupported, "unsupported language: %s", language).
			WithDetail("language", string(language))
	}
	if strings.TrimSpace(code) == "" {
		return errors.RequiredError("code")
	}
	return nil
}
