package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/kunall-01/crowdspark-frontend/internal/adapters/wire"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/fundraising"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	er := wire.ErrorBody{Code: code, Message: message}
	if details != nil {
		er.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.RequestID = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeServiceError maps application errors onto their status; anything else is a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae := (*accounts.Error)(nil); errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	if fe := (*fundraising.Error)(nil); errors.As(err, &fe) {
		writeError(w, r, fe.Status, fe.Code, fe.Message, fe.Details)
		return
	}
	s.log.Error(err, "request failed", "method", r.Method, "path", r.URL.Path, "requestId", middleware.GetReqID(r.Context()))
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "Server error", nil)
}

func writeBadBody(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
}

func writeUnauthenticated(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated", nil)
}
