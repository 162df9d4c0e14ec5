package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type RateLimitError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteRateLimited(w http.ResponseWriter, payload RateLimitError) {
	w.Header().Set("Retry-After", strconv.FormatInt(payload.RetryAfterSec, 10))
	Write(w, http.StatusTooManyRequests, payload)
}
