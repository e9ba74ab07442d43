// Package errs defines the closed result-code enumeration returned by every
// public dawcore operation, plus the error-handler seam the realtime and
// control contexts use to report failures that cannot surface as a return
// value (the mix callback itself never fails — see scene/mixer).
package errs

import "fmt"

// Code is the signed result code returned by every public operation. The
// set is closed and stable: front-ends in other languages mirror these
// values across their own interop boundary, so existing values never change
// meaning and new values are only ever appended.
type Code int32

const (
	OK           Code = 0
	NotInit      Code = -1
	AlreadyInit  Code = -2
	AudioDevice  Code = -3
	InvalidTrack Code = -4
	FileNotFound Code = -5
	OutOfMemory  Code = -6
	InvalidParam Code = -7
	ClipFull     Code = -8
)

var messages = map[Code]string{
	OK:           "ok",
	NotInit:      "engine not initialized",
	AlreadyInit:  "engine already initialized",
	AudioDevice:  "audio device error",
	InvalidTrack: "invalid track id",
	FileNotFound: "file not found",
	OutOfMemory:  "out of memory",
	InvalidParam: "invalid parameter",
	ClipFull:     "clip table full",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	return Strerror(c)
}

// Strerror maps a Code to a stable, human-readable message. Unknown codes
// return "unknown error" rather than panicking, since this also serves
// foreign callers that may pass out-of-range values across the ABI.
func Strerror(c Code) string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return "unknown error"
}

// Err adapts a Code into a Go error for callers that prefer the `error`
// idiom internally; the public Control API keeps returning Code directly
// across its ABI boundary, but internal packages compose more naturally
// over `error`.
type Err struct {
	Code Code
	Op   string
}

func (e *Err) Error() string {
	if e.Op == "" {
		return Strerror(e.Code)
	}
	return e.Op + ": " + Strerror(e.Code)
}

// New builds an *Err for the given code and operation name.
func New(code Code, op string) *Err {
	return &Err{Code: code, Op: op}
}

// ErrorHandler receives errors that arise outside the synchronous call
// path — backend/decoder adapter failures surfaced asynchronously, device
// hot-unplug notifications, and similar. The mix callback never calls this;
// it always either mixes or emits silence.
type ErrorHandler interface {
	HandleError(error)
}

// DefaultErrorHandler prints errors to stdout. Front-ends are expected to
// supply their own handler in anything beyond a demo.
type DefaultErrorHandler struct{}

// HandleError implements ErrorHandler.
func (DefaultErrorHandler) HandleError(err error) {
	if err == nil {
		return
	}
	fmt.Println("dawcore: " + err.Error())
}
