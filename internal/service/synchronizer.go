package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/metrics"
	"github.com/MKhiriev/go-offline-sync/models"
)

// Synchronizer drains the queue against the transport. It is not safe to
// run two passes at once; SyncEngine guards that.
type Synchronizer struct {
	queue      QueueStore
	transport  adapter.Transport
	classifier Classifier
	maxRetries int
	limiter    *rate.Limiter
	metrics    *metrics.Recorder
	logger     *logger.Logger
}

func NewSynchronizer(queue QueueStore, transport adapter.Transport, cfg config.Engine, recorder *metrics.Recorder, logger *logger.Logger) *Synchronizer {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Synchronizer{
		queue:      queue,
		transport:  transport,
		classifier: NewClassifier(cfg.TransientStatusCodes...),
		maxRetries: cfg.MaxRetryAttempts,
		limiter:    limiter,
		metrics:    recorder,
		logger:     logger,
	}
}

// errNotAttempted marks a request the pass gave up on before sending.
var errNotAttempted = errors.New("request not attempted")

// Run attempts every queued request once, in FIFO order, and writes the
// surviving requests back in a single update. Success is false only when
// the queue could not be read or written; per-request failures are counted
// in the result.
//
// Cancelling ctx ends the pass between requests. Requests not yet sent keep
// their retry count, and the results gathered so far are still persisted.
func (s *Synchronizer) Run(ctx context.Context) models.SyncResult {
	snapshot, err := s.queue.List(ctx)
	if err != nil {
		s.logger.Err(err).Msg("sync: failed to read queue")
		return storageFailure(err)
	}
	if len(snapshot) == 0 {
		return models.SyncResult{Success: true}
	}

	var (
		result  = models.SyncResult{Success: true}
		removed = make(map[string]struct{}, len(snapshot))
		retried = make(map[string]int)
	)

	for _, req := range snapshot {
		if ctx.Err() != nil {
			s.interrupted(&result, ctx.Err())
			break
		}

		err := s.send(ctx, req)
		if errors.Is(err, errNotAttempted) || (err != nil && ctx.Err() != nil) {
			s.interrupted(&result, err)
			break
		}
		if err == nil {
			removed[req.ID] = struct{}{}
			result.SyncedCount++
			s.metrics.IncRequest(metrics.OutcomeSynced)
			s.logger.Debug().Str("request_id", req.ID).Str("endpoint", req.Endpoint).Msg("sync: request delivered")
			continue
		}

		class := s.classifier.Classify(err)
		decision := NextAction(req, class, s.maxRetries)
		result.Errors = append(result.Errors, s.syncError(req, err, decision.Reason))

		if decision.Action == ActionDrop {
			removed[req.ID] = struct{}{}
			result.FailedCount++
			s.metrics.IncRequest(metrics.OutcomeDropped)
			s.logger.Warn().Err(err).
				Str("request_id", req.ID).
				Str("endpoint", req.Endpoint).
				Str("reason", decision.Reason).
				Msg("sync: request dropped")
			continue
		}

		retried[req.ID] = req.RetryCount + 1
		s.metrics.IncRequest(metrics.OutcomeRetried)
		s.logger.Debug().Err(err).
			Str("request_id", req.ID).
			Int("retry_count", req.RetryCount+1).
			Msg("sync: request kept for retry")
	}

	err = s.queue.Update(context.WithoutCancel(ctx), func(current []models.QueuedRequest) []models.QueuedRequest {
		next := make([]models.QueuedRequest, 0, len(current))
		for _, r := range current {
			if _, ok := removed[r.ID]; ok {
				continue
			}
			if n, ok := retried[r.ID]; ok {
				r.RetryCount = n
			}
			next = append(next, r)
		}
		return next
	})
	if err != nil {
		s.logger.Err(err).Msg("sync: failed to persist queue")
		result.Success = false
		result.Errors = append(result.Errors, models.SyncError{Reason: models.ReasonStorage, Error: err.Error()})
	}

	s.logger.Info().
		Int("synced", result.SyncedCount).
		Int("failed", result.FailedCount).
		Int("retrying", len(retried)).
		Msg("sync pass finished")

	return result
}

func (s *Synchronizer) send(ctx context.Context, req models.QueuedRequest) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", errNotAttempted, err)
		}
	}
	_, err := s.transport.Send(ctx, req.Outbound())
	return err
}

func (s *Synchronizer) interrupted(result *models.SyncResult, err error) {
	s.logger.Warn().Err(err).Int("synced", result.SyncedCount).Msg("sync: pass interrupted")
	result.Errors = append(result.Errors, models.SyncError{Reason: models.ReasonInterrupted, Error: err.Error()})
}

func (s *Synchronizer) syncError(req models.QueuedRequest, err error, reason string) models.SyncError {
	status, _ := adapter.StatusCode(err)
	return models.SyncError{
		RequestID:  req.ID,
		Endpoint:   req.Endpoint,
		Method:     req.Method,
		StatusCode: status,
		Reason:     reason,
		Error:      s.classifier.Wrap(err).Error(),
	}
}

func storageFailure(err error) models.SyncResult {
	return models.SyncResult{
		Success: false,
		Errors:  []models.SyncError{{Reason: models.ReasonStorage, Error: err.Error()}},
	}
}
