package notice

import (
	stderrors "errors"
	"testing"

	"ojspace/pkg/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level Level
		code  errors.ErrorCode
	}{
		{"required", errors.RequiredError("code"), LevelWarning, errors.RequiredFieldEmpty},
		{"validation", errors.ValidationError("input", "too long"), LevelWarning, errors.ValidationFailed},
		{"remote", errors.RemoteError(stderrors.New("dial tcp: refused"), "submit"), LevelError, errors.RemoteCallFailed},
		{"plain", stderrors.New("boom"), LevelError, errors.InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FromError(tt.err)
			if n.Level != tt.level || n.Code != tt.code {
				t.Errorf("FromError = {%s %d}, want {%s %d}", n.Level, n.Code, tt.level, tt.code)
			}
			if n.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	if _, ok := r.Last(); ok {
		t.Fatal("empty recorder has no last notice")
	}
	var n Notifier = r
	n.Notify(Notice{Level: LevelInfo, Message: "a"})
	n.Notify(Notice{Level: LevelError, Message: "b"})

	if got := r.Notices(); len(got) != 2 || got[0].Message != "a" {
		t.Fatalf("unexpected notices: %+v", got)
	}
	if last, _ := r.Last(); last.Message != "b" {
		t.Fatalf("unexpected last notice: %+v", last)
	}
	Discard.Notify(Notice{Message: "dropped"})
}
