package service

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/models"
)

// Classification tells whether a failed delivery may be retried.
type Classification int

const (
	Transient Classification = iota + 1
	Permanent
)

func (c Classification) String() string {
	switch c {
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Action is what the synchronizer does with a failed request.
type Action int

const (
	ActionRetry Action = iota + 1
	ActionDrop
)

// Decision pairs an Action with the reason reported in SyncResult.Errors.
type Decision struct {
	Action Action
	Reason string
}

// Classifier maps delivery errors to a Classification. It looks only at
// the error, never at the request.
//
// 429, 5xx and failures without a response (network errors, timeouts,
// cancelled contexts) are transient. Every other status is permanent unless
// it was added as an extra transient code.
type Classifier struct {
	extra map[int]struct{}
}

func NewClassifier(extraTransient ...int) Classifier {
	extra := make(map[int]struct{}, len(extraTransient))
	for _, code := range extraTransient {
		extra[code] = struct{}{}
	}
	return Classifier{extra: extra}
}

func (c Classifier) Classify(err error) Classification {
	status, ok := adapter.StatusCode(err)
	if !ok {
		return Transient
	}
	return c.ClassifyStatus(status)
}

func (c Classifier) ClassifyStatus(status int) Classification {
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return Transient
	}
	if _, ok := c.extra[status]; ok {
		return Transient
	}
	return Permanent
}

// Wrap annotates err with ErrTransientRequest or ErrPermanentRequest.
func (c Classifier) Wrap(err error) error {
	if err == nil {
		return nil
	}
	if c.Classify(err) == Transient {
		return fmt.Errorf("%w: %w", ErrTransientRequest, err)
	}
	return fmt.Errorf("%w: %w", ErrPermanentRequest, err)
}

// NextAction decides the fate of req after a failure of class. A request
// that already used maxRetries attempts is dropped whatever the error.
func NextAction(req models.QueuedRequest, class Classification, maxRetries int) Decision {
	switch {
	case class == Permanent:
		return Decision{Action: ActionDrop, Reason: models.ReasonPermanent}
	case req.RetryCount >= maxRetries:
		return Decision{Action: ActionDrop, Reason: models.ReasonMaxRetries}
	default:
		return Decision{Action: ActionRetry, Reason: models.ReasonWillRetry}
	}
}
