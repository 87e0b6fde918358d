package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
)

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

type Responder struct {
	logger *slog.Logger
}

func NewResponder(logger *slog.Logger) Responder {
	return Responder{logger: logger}
}

func (rs Responder) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode response", "error", err)
	}
}

// Error maps err onto a status code. Validation errors become 400 with their
// reason; everything else is logged and returned as 500 with the error text.
func (rs Responder) Error(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		rs.JSON(w, http.StatusBadRequest, map[string]string{"error": ve.Reason})
		return
	}

	rs.logger.Error(msg, "error", err, "request_id", RequestIDFrom(r.Context()))
	rs.JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// Page reads limit and offset from the query string.
func Page(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()

	limit = DefaultLimit
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			return 0, 0, domain.Invalidf("limit must be a positive integer")
		}
	}

	offset = DefaultOffset
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, domain.Invalidf("offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}
