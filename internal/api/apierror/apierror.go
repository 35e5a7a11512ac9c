// Package apierror writes the API's JSON error envelope. Every error
// response has the shape {"error": "<message>"} with the HTTP status
// carrying the error class.
package apierror

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type body struct {
	Error string `json:"error"`
}

// Write renders an error response and logs it through the request-scoped
// logger. Internal error details are only exposed outside of the message
// in development and test environments.
func Write(w http.ResponseWriter, r *http.Request, status int, message string, err error, env string) {
	if message == "" {
		message = http.StatusText(status)
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}

	// Never leak internal error strings to clients outside dev/test.
	if status >= 500 && env != "development" && env != "test" {
		message = http.StatusText(status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body{Error: message})
}
