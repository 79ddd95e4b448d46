package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 200:         Success (matches the judge API envelope)
// 10000-10999: System, transport & validation errors
// 12000-12999: Problem errors
// 13000-13999: Submission & debug errors
// 17000-17999: Workspace (editor/layout) errors

const (
	// Success is the envelope code the judge API returns for a successful call.
	Success ErrorCode = 200

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Transport errors (10400-10499)
	RemoteCallFailed  ErrorCode = 10400
	RemoteRejected    ErrorCode = 10401
	MalformedResponse ErrorCode = 10402

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// Problem (12000-12099)
	ProblemNotFound ErrorCode = 12000
	NoProblemLoaded ErrorCode = 12001

	// Samples (12100-12199)
	SampleIndexOutOfRange ErrorCode = 12100

	// Submission (13000-13099)
	SubmissionNotFound     ErrorCode = 13000
	SubmissionCreateFailed ErrorCode = 13001
	CodeTooLarge           ErrorCode = 13002
	LanguageNotSupported   ErrorCode = 13003
	SubmitTooFrequently    ErrorCode = 13004
	SubmitInFlight         ErrorCode = 13006

	// Judge (13100-13199)
	JudgeSystemError ErrorCode = 13101

	// Debug runs (13200-13299)
	DebugRunFailed      ErrorCode = 13200
	CustomInputTooLarge ErrorCode = 13201
	DebugInFlight       ErrorCode = 13202
	DebugResultStale    ErrorCode = 13203

	// Workspace (17000-17099)
	WorkspaceClosed ErrorCode = 17000
	FontSizeInvalid ErrorCode = 17001
	TabSizeInvalid  ErrorCode = 17002
	ThemeInvalid    ErrorCode = 17003
	ViewportInvalid ErrorCode = 17004
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	RemoteCallFailed:  "Judge service call failed",
	RemoteRejected:    "Judge service rejected the request",
	MalformedResponse: "Judge service returned a malformed response",

	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	ProblemNotFound: "Problem not found",
	NoProblemLoaded: "No problem is loaded in the workspace",

	SampleIndexOutOfRange: "Sample index out of range",

	SubmissionNotFound:     "Submission not found",
	SubmissionCreateFailed: "Failed to create submission",
	CodeTooLarge:           "Code is too large",
	LanguageNotSupported:   "Programming language not supported",
	SubmitTooFrequently:    "Submitting too frequently, please wait",
	SubmitInFlight:         "A submission is already in progress",

	JudgeSystemError: "Judge system error",

	DebugRunFailed:      "Debug run failed",
	CustomInputTooLarge: "Custom input is too large",
	DebugInFlight:       "A debug run is already in progress",
	DebugResultStale:    "Debug result arrived after the panel was reset",

	WorkspaceClosed: "Workspace is closed",
	FontSizeInvalid: "Font size out of range",
	TabSizeInvalid:  "Tab size must be 2, 4, 6 or 8",
	ThemeInvalid:    "Unknown editor theme",
	ViewportInvalid: "Viewport width must be positive",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == Unauthorized:
		return 401
	case c == Forbidden:
		return 403
	case c == NotFound, c == ProblemNotFound, c == SubmissionNotFound:
		return 404
	case c == TooManyRequests, c == SubmitTooFrequently:
		return 429
	case c == ServiceUnavailable:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == LanguageNotSupported, c == CodeTooLarge, c == CustomInputTooLarge:
		return 400
	default:
		return 500
	}
}

// Transient reports whether the failure leaves the caller free to retry by hand.
// Validation failures are not transient: retrying without changing input fails again.
func (c ErrorCode) Transient() bool {
	switch c {
	case RemoteCallFailed, MalformedResponse, ServiceUnavailable, Timeout, TooManyRequests,
		SubmitTooFrequently, JudgeSystemError, InternalServerError:
		return true
	}
	return false
}
