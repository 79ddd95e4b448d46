package judgeclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ojspace/pkg/errors"

	"github.com/google/uuid"
)

// Debug runs code against a custom input without scoring it.
func (c *Client) Debug(ctx context.Context, req DebugRequest) (*DebugResult, error) {
	return doRequest[DebugResult](ctx, c, call{
		op:     "debug",
		method: http.MethodPost,
		path:   "/submissions/debug",
		body:   req,
	})
}

// Submit creates a scored submission. Every call carries a fresh idempotency key.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (SubmissionID, error) {
	resp, err := doRequest[SubmitResponse](ctx, c, call{
		op:      "submit",
		method:  http.MethodPost,
		path:    "/submissions",
		body:    req,
		headers: map[string]string{idempotencyHeader: uuid.NewString()},
	})
	if err != nil {
		return "", err
	}
	if resp.SubmissionID == "" {
		return "", errors.Newf(errors.MalformedResponse, "submit: response has no submission_id")
	}
	return resp.SubmissionID, nil
}

// GetProblem fetches a problem descriptor.
func (c *Client) GetProblem(ctx context.Context, id int64) (*Problem, error) {
	return doRequest[Problem](ctx, c, call{
		op:     "get problem",
		method: http.MethodGet,
		path:   "/problems/" + strconv.FormatInt(id, 10),
	})
}

// GetSubmission fetches a submission detail.
func (c *Client) GetSubmission(ctx context.Context, id SubmissionID) (*SubmissionDetail, error) {
	if id == "" {
		return nil, errors.RequiredError("submission_id")
	}
	return doRequest[SubmissionDetail](ctx, c, call{
		op:     "get submission",
		method: http.MethodGet,
		path:   "/submissions/" + url.PathEscape(string(id)),
	})
}

// ListSubmissions fetches one page of submissions, optionally for one problem.
func (c *Client) ListSubmissions(ctx context.Context, q ListQuery) (*SubmissionPage, error) {
	query := url.Values{}
	if q.ProblemID > 0 {
		query.Set("problem_id", strconv.FormatInt(q.ProblemID, 10))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return doRequest[SubmissionPage](ctx, c, call{
		op:     "list submissions",
		method: http.MethodGet,
		path:   "/submissions",
		query:  query,
	})
}
