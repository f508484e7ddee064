package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-offline-sync/internal/utils"
)

// maxBodyBytes caps request bodies of the control API.
const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

// decodeOptions decodes raw into dst, rejecting unknown keys when strict.
func decodeOptions(raw json.RawMessage, dst any, strict bool) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if strict && !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %w", ErrUnknownOption, err)
		}
		return fmt.Errorf("%w: options: %w", ErrInvalidJSON, err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_, _ = utils.WriteJSON(w, errorResponse{Error: msg}, status)
}
