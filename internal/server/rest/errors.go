package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps an error kind to its status and body. Unknown errors are
// reported as internal without their text.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation_failed", Message: verr.Message, Fields: verr.Fields})
		return
	}

	status, kind := classify(err)
	msg := common.Message(err)
	if status == http.StatusInternalServerError {
		msg = "internal server error"
		var typed *common.Error
		if !errors.As(err, &typed) {
			s.logger.Error(r.Context(), "unhandled error", "error", err)
		}
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
