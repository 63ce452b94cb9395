package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vocdoni/zkage/log"
)

// Error is an API failure with a stable numeric code, see
// errors_definition.go. Session failures (invalid date, age requirement not
// met...) are not API errors: they are part of the session view.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// errorBody is the JSON sent to clients, {"error":"session busy...","code":40012}.
// The HTTP status travels in the response status line only.
type errorBody struct {
	Err  string `json:"error"`
	Code int    `json:"code"`
}

func (e Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorBody{Err: e.Err.Error(), Code: e.Code})
}

func (e Error) Error() string {
	return e.Err.Error()
}

// Unwrap allows errors.Is against the package level errors.
func (e Error) Unwrap() error {
	return e.Err
}

// Write sends the error to the client with its HTTP status.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	log.Debugw("API error response", "error", e.Error(), "code", e.Code, "httpStatus", e.HTTPstatus)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPstatus)
	_, _ = fmt.Fprintln(w, string(msg))
}

// Withf appends a formatted detail, keeping code and status.
func (e Error) Withf(format string, args ...any) Error {
	return e.With(fmt.Sprintf(format, args...))
}

// With appends a detail, such as the unknown session id, keeping code and
// status.
func (e Error) With(detail string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %s", e.Err, detail),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr appends the message of err. Only the text is kept, err is not
// wrapped.
func (e Error) WithErr(err error) Error {
	return e.With(err.Error())
}
