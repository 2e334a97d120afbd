package service

import (
	"context"
	"errors"
	"time"

	"doctech-be/internal/dto"
	"doctech-be/internal/metrics"
	"doctech-be/internal/pkg/logger"
	"doctech-be/pkg/ai/router"
	"doctech-be/pkg/events"
	"doctech-be/pkg/llm/structured"
	"doctech-be/pkg/search"

	"github.com/google/uuid"
)

const queryModule = "QueryService"

// ErrNonDeterminable is returned when the classifier could not map the
// utterance to any action.
var ErrNonDeterminable = errors.New("could not determine action")

type IQueryService interface {
	Resolve(ctx context.Context, req dto.QueryRequest) (*router.Record, error)
}

// QueryRouter is the slice of *router.Router the service depends on.
type QueryRouter interface {
	Execute(ctx context.Context, query string, viewer router.ViewerContext) (*router.Record, error)
}

type queryService struct {
	router    QueryRouter
	publisher IEventPublisher
	logger    logger.ILogger
}

func NewQueryService(r QueryRouter, publisher IEventPublisher, log logger.ILogger) IQueryService {
	return &queryService{
		router:    r,
		publisher: publisher,
		logger:    log,
	}
}

func (s *queryService) Resolve(ctx context.Context, req dto.QueryRequest) (*router.Record, error) {
	requestID := uuid.NewString()
	start := time.Now()

	record, err := s.router.Execute(ctx, req.Query, router.ViewerContext{CurrentPage: req.CurrentPage})
	if err == nil && record.NonDeterm {
		err = ErrNonDeterminable
	}
	elapsed := time.Since(start)

	if err != nil {
		kind := ErrorKind(err)
		intent := string(router.IntentNone)
		if record != nil {
			intent = string(record.Intent())
		}

		s.logger.Error(queryModule, "Query failed", map[string]interface{}{
			"request_id":   requestID,
			"query":        req.Query,
			"current_page": req.CurrentPage,
			"error_kind":   kind,
			"error":        err.Error(),
			"duration_ms":  elapsed.Milliseconds(),
		})
		metrics.ObserveQuery(intent, metrics.OutcomeError, elapsed.Seconds())
		s.publish(ctx, events.New(events.QueryFailed, map[string]interface{}{
			"request_id":   requestID,
			"query":        req.Query,
			"current_page": req.CurrentPage,
			"error_kind":   kind,
		}))
		return nil, err
	}

	intent := string(record.Intent())
	s.logger.Info(queryModule, "Query resolved", map[string]interface{}{
		"request_id":   requestID,
		"query":        req.Query,
		"current_page": req.CurrentPage,
		"intent":       intent,
		"duration_ms":  elapsed.Milliseconds(),
	})
	metrics.ObserveQuery(intent, metrics.OutcomeSuccess, elapsed.Seconds())

	data := map[string]interface{}{
		"request_id":   requestID,
		"query":        req.Query,
		"current_page": req.CurrentPage,
		"intent":       intent,
	}
	if record.PDF != nil {
		data["pdf"] = *record.PDF
	}
	if record.Page != nil {
		data["page"] = *record.Page
	}
	s.publish(ctx, events.New(events.QueryResolved, data))

	return record, nil
}

// publish never fails the request; a broken bus only shows up in the logs.
func (s *queryService) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn(queryModule, "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}

// ErrorKind names the failure class for logs, metrics and audit events.
func ErrorKind(err error) string {
	var llmErr *structured.RemoteServiceError
	var searchErr *search.RemoteServiceError
	switch {
	case errors.Is(err, ErrNonDeterminable):
		return "non_determinable"
	case errors.Is(err, search.ErrEmptyResult):
		return "empty_result"
	case errors.As(err, &llmErr):
		return "llm_remote"
	case errors.As(err, &searchErr):
		return "search_remote"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
