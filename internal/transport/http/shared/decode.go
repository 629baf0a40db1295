package shared

import (
	"encoding/json"
	"io"
	"net/http"

	dErrors "mediconnect/pkg/domain-errors"
)

// maxBodyBytes caps request bodies well above any legitimate payload.
const maxBodyBytes = 1 << 20

// Decode parses a JSON request body into T. On failure it writes the error
// envelope and returns ok=false; the handler just returns.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var payload T

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if err == io.EOF {
			WriteError(w, r, dErrors.New(dErrors.CodeValidation, "Request body is required"))
		} else {
			WriteError(w, r, dErrors.New(dErrors.CodeValidation, "Request body is not valid JSON"))
		}
		return payload, false
	}
	return payload, true
}
