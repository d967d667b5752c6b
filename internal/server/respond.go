package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/sprintboard/pkg/errors"
)

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors onto HTTP statuses. Errors without a code are
// internal and their text is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusOf(code)

	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		if code == "" {
			body.Error.Code = errors.ErrCodeInternal
			body.Error.Message = "internal error"
		}
	}
	writeJSON(w, status, body)
}

func statusOf(code errors.Code) int {
	switch {
	case code == errors.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeLayoutConflict:
		return http.StatusConflict
	case code == errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case code.Invalid():
		return http.StatusBadRequest
	case code == errors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// decode reads a JSON request body into v. An empty body leaves v alone.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err)
	}
	return nil
}

// wantsYAML reports whether the client asked for YAML.
func wantsYAML(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.EqualFold(f, "yaml") || strings.EqualFold(f, "yml")
	}
	return strings.Contains(r.Header.Get("Accept"), "yaml")
}
