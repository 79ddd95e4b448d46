// Package notice carries transient user-facing messages (toasts) from the
// workspace to its host.
package notice

import (
	stderrors "errors"
	"sync"

	"ojspace/pkg/errors"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is one transient message.
type Notice struct {
	Level   Level
	Message string
	Code    errors.ErrorCode
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// Func adapts a function to a Notifier.
type Func func(n Notice)

func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// FromError turns a failed call into a notice. Validation failures are
// warnings; everything else is an error.
func FromError(err error) Notice {
	code := errors.GetCode(err)
	level := LevelError
	var coded *errors.Error
	if stderrors.As(err, &coded) && code >= errors.ValidationFailed && code <= errors.RequiredFieldEmpty {
		level = LevelWarning
	}
	return Notice{Level: level, Message: err.Error(), Code: code}
}

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
