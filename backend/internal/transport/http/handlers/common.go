package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/pkg/validate"
	authsvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
	ratesvc "github.com/NetworklyINC/Networkly-Main/backend/internal/services/rate"
	httperrors "github.com/NetworklyINC/Networkly-Main/backend/internal/transport/http/errors"
)

const maxJSONBodyBytes = 1 << 20

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// writeServiceError maps the errors shared by every service. It reports false when err is none of them.
func writeServiceError(w http.ResponseWriter, err error) bool {
	if errors.Is(err, authsvc.ErrUnauthorized) {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return true
	}

	if le, ok := ratesvc.IsLimited(err); ok {
		httperrors.WriteRateLimited(w, httperrors.RateLimitError{
			Code:          "RATE_LIMITED",
			Message:       le.Error(),
			RetryAfterSec: le.RetryAfter(),
		})
		return true
	}

	if ve, ok := validate.AsError(err); ok {
		httperrors.Write(w, http.StatusBadRequest, httperrors.ValidationError{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  ve.Fields,
		})
		return true
	}

	return false
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func parseIDParam(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func parseIntOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// clientIP reads RemoteAddr, which chi's RealIP middleware has already replaced with the forwarded address.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
