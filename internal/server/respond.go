package server

import (
	"encoding/json"
	"errors"
	"net/http"

	kerrors "github.com/kintreehq/kintree/pkg/errors"
	"github.com/kintreehq/kintree/pkg/store"
	"github.com/kintreehq/kintree/pkg/tree"
)

// errorBody is the JSON envelope for error responses.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.cfg.Logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.cfg.Logger.Error("request failed", "error", err)
	} else {
		s.cfg.Logger.Debug("request rejected", "error", err)
	}

	code := kerrors.GetCode(err)
	if code == "" {
		code = kerrors.ErrCodeInternal
	}
	s.writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: kerrors.UserMessage(err),
	}})
}

// statusFor maps error codes to HTTP status: validation failures are 400,
// missing resources 404, structural data errors 422, store and blob failures
// 502, everything else 500.
func statusFor(err error) int {
	if errors.Is(err, tree.ErrCycle) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	switch kerrors.GetCode(err) {
	case kerrors.ErrCodeInvalidInput, kerrors.ErrCodeInvalidPerson,
		kerrors.ErrCodeInvalidImage, kerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case kerrors.ErrCodeNotFound, kerrors.ErrCodePersonNotFound:
		return http.StatusNotFound
	case kerrors.ErrCodeCycle:
		return http.StatusUnprocessableEntity
	case kerrors.ErrCodeStoreRead, kerrors.ErrCodeStoreWrite, kerrors.ErrCodeBlob:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
