package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vocdoni/mpcvote/log"
)

// WriteJSON writes data as a 200 JSON response; collector/mediator/
// orchestrator handlers use this directly since they live outside this
// package.
func WriteJSON(w http.ResponseWriter, data interface{}) {
	httpWriteJSON(w, data)
}

// WriteOK writes a bare 200 response with no body, for endpoints whose
// contract is "200 -> empty" (spec §6.1).
func WriteOK(w http.ResponseWriter) {
	httpWriteOK(w)
}

// httpWriteJSON helper function allows to write a JSON response.
func httpWriteJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	n, err := w.Write(jdata)
	if err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
	log.Debugw("api response", "bytes", n, "data", strings.ReplaceAll(string(jdata), "\"", ""))
}

// httpWriteOK helper function allows to write an OK response.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}
