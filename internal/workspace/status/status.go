// Package status classifies raw verdict strings from debug runs and submissions
// into one closed set of labels and colors. Every view renders statuses through
// Classify so a verdict looks the same wherever it appears.
package status

import (
	"fmt"
	"strings"
)

// Status is the closed set of submission states.
type Status int

const (
	Pending Status = iota + 1
	Running
	Accepted
	WrongAnswer
	TimeLimitExceeded
	MemoryLimitExceeded
	CompilationError
	RuntimeError
	SystemError
)

// Color is a presentation class; hosts map it to their own palette.
type Color string

const (
	ColorSuccess   Color = "success"
	ColorDanger    Color = "danger"
	ColorWarning   Color = "warning"
	ColorInfo      Color = "info"
	ColorPrimary   Color = "primary"
	ColorSecondary Color = "secondary"
	ColorNeutral   Color = "neutral"
)

type descriptor struct {
	wire  string
	label string
	color Color
}

var descriptors = map[Status]descriptor{
	Pending:             {wire: "pending", label: "Pending", color: ColorInfo},
	Running:             {wire: "running", label: "Running", color: ColorPrimary},
	Accepted:            {wire: "accepted", label: "Accepted", color: ColorSuccess},
	WrongAnswer:         {wire: "wrong_answer", label: "Wrong Answer", color: ColorDanger},
	TimeLimitExceeded:   {wire: "time_limit_exceeded", label: "Time Limit Exceeded", color: ColorWarning},
	MemoryLimitExceeded: {wire: "memory_limit_exceeded", label: "Memory Limit Exceeded", color: ColorWarning},
	CompilationError:    {wire: "compile_error", label: "Compilation Error", color: ColorSecondary},
	RuntimeError:        {wire: "runtime_error", label: "Runtime Error", color: ColorDanger},
	SystemError:         {wire: "system_error", label: "System Error", color: ColorDanger},
}

// aliases is keyed by normalized tokens. Short codes and the spellings used by
// common judges (DOMjudge, Judge0, HUSTOJ) resolve to the same status.
var aliases = map[string]Status{
	"pending":   Pending,
	"queued":    Pending,
	"queueing":  Pending,
	"waiting":   Pending,
	"submitted": Pending,
	"inqueue":   Pending,

	"running":    Running,
	"judging":    Running,
	"compiling":  Running,
	"processing": Running,
	"inprogress": Running,

	"accepted": Accepted,
	"ac":       Accepted,
	"correct":  Accepted,
	"ok":       Accepted,

	"wronganswer": WrongAnswer,
	"wa":          WrongAnswer,

	"timelimitexceeded": TimeLimitExceeded,
	"tle":               TimeLimitExceeded,
	"timelimit":         TimeLimitExceeded,

	"memorylimitexceeded": MemoryLimitExceeded,
	"mle":                 MemoryLimitExceeded,
	"memorylimit":         MemoryLimitExceeded,

	"compilationerror": CompilationError,
	"compileerror":     CompilationError,
	"compilererror":    CompilationError,
	"ce":               CompilationError,

	"runtimeerror": RuntimeError,
	"runerror":     RuntimeError,
	"re":           RuntimeError,

	"systemerror":   SystemError,
	"internalerror": SystemError,
	"judgeerror":    SystemError,
	"se":            SystemError,
}

// Classification is what a view needs to render a status.
type Classification struct {
	Label  string
	Color  Color
	Status Status // zero when the raw status is not recognized
}

// Known reports whether the raw status mapped onto the closed set.
func (c Classification) Known() bool {
	return c.Status != 0
}

// Normalize folds case and drops underscores, hyphens and whitespace,
// so "wrong_answer", "Wrong Answer" and "WRONG-ANSWER" share one key.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch r {
		case '_', '-', ' ', '\t', '\n', '\r':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Parse resolves a raw status string onto the closed set.
func Parse(raw string) (Status, bool) {
	s, ok := aliases[Normalize(raw)]
	return s, ok
}

// Classify maps a raw status to its label and color. Unrecognized input is
// rendered as-is with the neutral color; it never fails.
func Classify(raw string) Classification {
	s, ok := Parse(raw)
	if !ok {
		return Classification{Label: raw, Color: ColorNeutral}
	}
	d := descriptors[s]
	return Classification{Label: d.label, Color: d.color, Status: s}
}

// Terminal reports whether the status is final. Pending and Running are not.
func (s Status) Terminal() bool {
	if _, ok := descriptors[s]; !ok {
		return false
	}
	return s != Pending && s != Running
}

// Label returns the human label of a known status.
func (s Status) Label() string {
	if d, ok := descriptors[s]; ok {
		return d.label
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// String returns the wire spelling.
func (s Status) String() string {
	if d, ok := descriptors[s]; ok {
		return d.wire
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText encodes the wire spelling.
func (s Status) MarshalText() ([]byte, error) {
	d, ok := descriptors[s]
	if !ok {
		return nil, fmt.Errorf("invalid status: %d", int(s))
	}
	return []byte(d.wire), nil
}

// UnmarshalText accepts any spelling Parse accepts.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("invalid status: %q", string(text))
	}
	*s = parsed
	return nil
}

// All lists the closed set in lifecycle order.
func All() []Status {
	return []Status{
		Pending, Running, Accepted, WrongAnswer, TimeLimitExceeded,
		MemoryLimitExceeded, CompilationError, RuntimeError, SystemError,
	}
}
