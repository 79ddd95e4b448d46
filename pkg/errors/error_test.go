package errors_test

import (
	"errors"
	"fmt"
	"testing"

	. "ojspace/pkg/errors"
)

func TestErrorCode_Message(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{Success, "Success"},
		{RequiredFieldEmpty, "Required field is empty"},
		{DebugInFlight, "A debug run is already in progress"},
		{ErrorCode(99999), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.Message(); got != tt.want {
				t.Errorf("Message() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code       ErrorCode
		wantStatus int
	}{
		{Success, 200},
		{InvalidParams, 400},
		{RequiredFieldEmpty, 400},
		{Unauthorized, 401},
		{SubmissionNotFound, 404},
		{SubmitTooFrequently, 429},
		{JudgeSystemError, 500},
	}

	for _, tt := range tests {
		t.Run(tt.code.Message(), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %v, want %v", got, tt.wantStatus)
			}
		})
	}
}

func TestErrorCode_Transient(t *testing.T) {
	if !RemoteCallFailed.Transient() {
		t.Error("transport failures should be transient")
	}
	if RequiredFieldEmpty.Transient() {
		t.Error("validation failures should not be transient")
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("connection refused")
	wrappedErr := Wrap(originalErr, RemoteCallFailed)

	if wrappedErr.Code != RemoteCallFailed {
		t.Errorf("Code = %v, want %v", wrappedErr.Code, RemoteCallFailed)
	}
	if wrappedErr.Unwrap() != originalErr {
		t.Error("Unwrap() should return original error")
	}
	if Wrap(nil, RemoteCallFailed) != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestWrap_KeepsCodedError(t *testing.T) {
	inner := New(SubmitInFlight)
	outer := fmt.Errorf("submit: %w", inner)

	if got := Wrap(outer, InternalServerError); got.Code != SubmitInFlight {
		t.Errorf("Code = %v, want %v", got.Code, SubmitInFlight)
	}
}

type codedErr struct{ code ErrorCode }

func (e codedErr) Error() string        { return "coded" }
func (e codedErr) ErrorCode() ErrorCode { return e.code }

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "nil error", err: nil, want: Success},
		{name: "custom error", err: New(DebugInFlight), want: DebugInFlight},
		{name: "wrapped custom error", err: fmt.Errorf("ctx: %w", New(NoProblemLoaded)), want: NoProblemLoaded},
		{name: "standard error", err: errors.New("standard error"), want: InternalServerError},
		{name: "coder", err: fmt.Errorf("call: %w", codedErr{code: SubmitTooFrequently}), want: SubmitTooFrequently},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(SubmitInFlight)

	if !Is(err, SubmitInFlight) {
		t.Error("Is() should return true for matching code")
	}
	if Is(err, DebugInFlight) {
		t.Error("Is() should return false for non-matching code")
	}
	if Is(nil, SubmitInFlight) {
		t.Error("Is() should return false for nil error")
	}
}

func TestConstructors(t *testing.T) {
	t.Run("ValidationError", func(t *testing.T) {
		err := ValidationError("font_size", "must be within [8,32]")
		if err.Code != ValidationFailed {
			t.Error("ValidationError should use ValidationFailed code")
		}
		if err.Details["field"] != "font_size" {
			t.Error("Field detail not set")
		}
	})

	t.Run("RequiredError", func(t *testing.T) {
		err := RequiredError("code")
		if err.Code != RequiredFieldEmpty {
			t.Error("RequiredError should use RequiredFieldEmpty code")
		}
		if err.Error() != "code is required" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("RemoteError", func(t *testing.T) {
		cause := errors.New("dial tcp: refused")
		err := RemoteError(cause, "debug")
		if err.Code != RemoteCallFailed {
			t.Error("RemoteError should use RemoteCallFailed code")
		}
		if !errors.Is(err, cause) {
			t.Error("RemoteError should keep the cause in the chain")
		}
	})
}
