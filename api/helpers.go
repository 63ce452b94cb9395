package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vocdoni/zkage/log"
)

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data any) {
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteCBOR helper function allows to write a CBOR response.
func httpWriteCBOR(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/cbor")
	w.WriteHeader(http.StatusOK)
	n, err := w.Write(data)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "contentType", "cbor")
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}
