package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
)

const MaxBodyBytes = 1 << 20

// Decode reads a JSON body of at most MaxBodyBytes into dst. Oversized or
// malformed bodies and type mismatches are client faults.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Invalidf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return domain.Invalidf("invalid request body")
	}
	return nil
}
