//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// If you notice there's a gap, DON'T fill it in: that code was used in the past and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound   = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody      = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrMalformedSessionID = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed session ID")}
	ErrSessionNotFound    = Error{Code: 40011, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("session not found")}
	ErrSessionBusy        = Error{Code: 40012, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("session busy, an operation is in progress")}
	ErrNoProof            = Error{Code: 40013, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("no proof to verify, generate a proof first")}
	ErrMalformedBundle    = Error{Code: 40014, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed proof bundle")}
	ErrTooManySessions    = Error{Code: 40015, HTTPstatus: http.StatusTooManyRequests, Err: fmt.Errorf("too many open sessions")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
	ErrMarshalingServerCBORFailed = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) CBOR failed")}
)
