package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/store"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:        http.StatusBadRequest,
	ErrUnknownOption:      http.StatusBadRequest,
	ErrNegativeExpiration: http.StatusBadRequest,

	service.ErrInvalidRequest: http.StatusBadRequest,
	service.ErrEmptyCacheKey:  http.StatusBadRequest,
	service.ErrEmptyTag:       http.StatusBadRequest,

	store.ErrCorruptedRecord: http.StatusInternalServerError,
	store.ErrStorage:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error string `json:"error"`
}
