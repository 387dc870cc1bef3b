package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/logger"
)

// apiError is the JSON error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("Failed to marshal JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Debug("Failed to write JSON response: %v", err)
	}
}

// respondError maps a service error to the JSON error envelope. Known domain
// sentinels get stable codes and statuses; everything else is a 500.
func respondError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidConfig):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrNoHandler):
		status, code = http.StatusBadRequest, "UNKNOWN_SOURCE_TYPE"
	case errors.Is(err, domain.ErrJewelRequired):
		status, code = http.StatusBadRequest, "CREDENTIALS_REQUIRED"
	case errors.Is(err, domain.ErrJewelInUse):
		status, code = http.StatusConflict, "JEWEL_IN_USE"
	case errors.Is(err, domain.ErrSyncInProgress):
		status, code = http.StatusConflict, "SYNC_IN_PROGRESS"
	case errors.Is(err, domain.ErrSourceDisabled):
		status, code = http.StatusConflict, "SOURCE_DISABLED"
	case errors.Is(err, domain.ErrAlreadyExists):
		status, code = http.StatusConflict, "ALREADY_EXISTS"
	}

	respondJSON(w, status, errorResponse{Error: apiError{Code: code, Message: err.Error()}})
}

func respondErrorCode(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// decodeBody unmarshals the request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// errorsIsAny reports whether err matches any of the given sentinels.
func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
