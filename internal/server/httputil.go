package server

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-formdesigner/pkg/binding"
	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes bounds design and value payloads.
const maxBodyBytes = 4 << 20

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON marshals v as JSON and writes it with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

// writeError writes a structured JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeFailure maps domain errors to HTTP responses.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound), errors.Is(err, binding.ErrModelNotFound):
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, library.ErrMissingID), errors.Is(err, library.ErrInvalidID):
		s.writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
	case orchestrator.IsLintError(err):
		s.writeError(w, http.StatusUnprocessableEntity, "LINT_FAILED", err.Error())
	case errors.Is(err, orchestrator.ErrNoStore):
		s.writeError(w, http.StatusServiceUnavailable, "NO_STORE", err.Error())
	case errors.Is(err, orchestrator.ErrThemeNotFound):
		s.writeError(w, http.StatusBadRequest, "UNKNOWN_THEME", err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
