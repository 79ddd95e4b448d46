package judgeclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Problem is the descriptor the workspace is opened with. It is read-only to
// the workspace; SampleCases is kept in its wire form and normalized by the
// sample store.
type Problem struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	SampleCases json.RawMessage `json:"sample_cases,omitempty"`
	TimeLimit   int64           `json:"time_limit"`   // ms
	MemoryLimit int64           `json:"memory_limit"` // MB
}

// DebugRequest is an ungraded run of the buffer against one input.
type DebugRequest struct {
	Language       string `json:"language"`
	Code           string `json:"code"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	TimeLimit      int64  `json:"time_limit"`
	MemoryLimit    int64  `json:"memory_limit"`
}

// DebugResult is the verdict of a debug run. Status is the raw judge string.
type DebugResult struct {
	Status         string  `json:"status"`
	TimeUsed       int64   `json:"time_used"`   // ms
	MemoryUsed     float64 `json:"memory_used"` // MB
	Output         string  `json:"output"`
	ExpectedOutput string  `json:"expected_output"`
	ErrorMessage   string  `json:"error_message"`
	IsCorrect      bool    `json:"is_correct"`
}

// SubmitRequest creates a scored submission.
type SubmitRequest struct {
	ProblemID int64  `json:"problem_id"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// SubmitResponse carries the id of the created submission.
type SubmitResponse struct {
	SubmissionID SubmissionID `json:"submission_id"`
}

// SubmissionID accepts both numeric and string ids on the wire.
type SubmissionID string

func (id *SubmissionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SubmissionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid submission id %s: %w", data, err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("invalid submission id %s", data)
	}
	*id = SubmissionID(n.String())
	return nil
}

func (id SubmissionID) String() string {
	return string(id)
}

// Path is the location of the submission detail view.
func (id SubmissionID) Path() string {
	return "/submissions/" + string(id)
}

// SubmissionRecord is one row of the submission list.
type SubmissionRecord struct {
	SubmissionID SubmissionID `json:"submission_id"`
	ProblemID    int64        `json:"problem_id"`
	Language     string       `json:"language"`
	Status       string       `json:"status"`
	TimeUsed     int64        `json:"time_used"`
	MemoryUsed   float64      `json:"memory_used"`
	CreatedAt    string       `json:"created_at"`
}

// CaseResult is the verdict of one test case.
type CaseResult struct {
	Index      int     `json:"index"`
	Status     string  `json:"status"`
	TimeUsed   int64   `json:"time_used"`
	MemoryUsed float64 `json:"memory_used"`
}

// SubmissionDetail is the full record behind /submissions/{id}.
type SubmissionDetail struct {
	SubmissionRecord
	Code         string       `json:"code"`
	Score        int          `json:"score"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Cases        []CaseResult `json:"cases,omitempty"`
}

// ListQuery filters the submission list.
type ListQuery struct {
	ProblemID int64
	Page      int
	PageSize  int
}

// SubmissionPage is one page of the submission list.
type SubmissionPage struct {
	Items    []SubmissionRecord `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
