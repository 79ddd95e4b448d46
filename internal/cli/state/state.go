package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ojspace/internal/judgeclient"
)

// MaxRecent bounds the remembered submissions.
const MaxRecent = 20

// State is what the CLI remembers between runs.
type State struct {
	LastProblemID int64    `json:"last_problem_id,omitempty"`
	Recent        []Recent `json:"recent,omitempty"`
}

// Recent is one submission made from this machine.
type Recent struct {
	ID          judgeclient.SubmissionID `json:"id"`
	ProblemID   int64                    `json:"problem_id"`
	Language    string                   `json:"language"`
	SubmittedAt time.Time                `json:"submitted_at"`
}

// Remember records a submission, newest first.
func (s *State) Remember(r Recent) {
	s.Recent = append([]Recent{r}, s.Recent...)
	if len(s.Recent) > MaxRecent {
		s.Recent = s.Recent[:MaxRecent]
	}
}

func Load(path string) (State, error) {
	var st State
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read state failed: %w", err)
	}
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse state failed: %w", err)
	}
	return st, nil
}

func Save(path string, st State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir failed: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write state failed: %w", err)
	}
	return nil
}

func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove state failed: %w", err)
	}
	return nil
}
