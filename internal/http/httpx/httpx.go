package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/symptom"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrBadRequest marks malformed or invalid request bodies.
var ErrBadRequest = errors.New("bad request")

// Decode reads a JSON body into dst and runs its validate tags.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", ErrBadRequest, err)
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}

		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}

		return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(msgs, ", "))
	}

	return nil
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status maps a domain error to the HTTP status it is reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, cycle.ErrValidation),
		errors.Is(err, savings.ErrInvalidAmount),
		errors.Is(err, symptom.ErrNoSymptoms),
		errors.Is(err, symptom.ErrUnknownSymptom),
		errors.Is(err, state.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.Is(err, savings.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, state.ErrBusy), errors.Is(err, savings.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, savings.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// Error writes err with its mapped status. Unexpected errors are logged and
// hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
