package router

import (
	"context"
	"fmt"

	"doctech-be/internal/constant"
	"doctech-be/internal/pkg/logger"
	"doctech-be/pkg/llm"
	"doctech-be/pkg/llm/structured"
	"doctech-be/pkg/search"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const module = "Router"

// Router resolves one utterance into a Record
type Router struct {
	classifier structured.Classifier
	search     search.Client
	logger     logger.ILogger
	tracer     trace.Tracer
}

// NewRouter creates a new query router
func NewRouter(classifier structured.Classifier, searchClient search.Client, log logger.ILogger) *Router {
	return &Router{
		classifier: classifier,
		search:     searchClient,
		logger:     log,
		tracer:     otel.Tracer("doctech-be/router"),
	}
}

// Execute classifies the query, performs at most one follow-up and returns
// the assembled record. Steps run strictly in sequence; any failure is
// returned as-is.
func (r *Router) Execute(ctx context.Context, query string, viewer ViewerContext) (*Record, error) {
	ctx, span := r.tracer.Start(ctx, "router.Execute")
	defer span.End()

	// 1. What does the user want?
	action, err := r.ClassifyAction(ctx, query)
	if err != nil {
		return nil, r.fail(span, "classify action", err)
	}

	// 2. Nothing resolved yet
	record := &Record{Action: action}

	// 3. One follow-up, chosen by priority
	intent := action.Intent()
	span.SetAttributes(attribute.String("doctech.intent", string(intent)))
	r.logger.Debug(module, "Action classified", map[string]interface{}{
		"intent":     intent,
		"true_count": action.TrueCount(),
	})

	switch intent {
	case IntentSnapPage:
		page, err := r.ExtractSnapPage(ctx, query, viewer)
		if err != nil {
			return nil, r.fail(span, "extract snap page", err)
		}
		record.Page = &page

	case IntentFindFig:
		hit, err := r.searchFigure(ctx, query)
		if err != nil {
			return nil, r.fail(span, "search figure", err)
		}
		record.PDF = &hit.SourceURL
		record.Page = &hit.PageNumber

	case IntentFindPDF:
		url, err := r.searchDocument(ctx, query)
		if err != nil {
			return nil, r.fail(span, "search document", err)
		}
		record.PDF = &url
	}

	return record, nil
}

// ClassifyAction runs the action classifier on the raw utterance
func (r *Router) ClassifyAction(ctx context.Context, query string) (Action, error) {
	ctx, span := r.tracer.Start(ctx, "router.ClassifyAction")
	defer span.End()

	var action Action
	err := r.classifier.Classify(ctx, ActionSchema, constant.ActionParseInstruction, []llm.Message{
		{Role: llm.RoleAssistant, Content: constant.ActionPreamble},
		{Role: llm.RoleUser, Content: query},
	}, &action)
	return action, err
}

// ExtractSnapPage asks for the target page, resolving relative requests
// against the viewer context
func (r *Router) ExtractSnapPage(ctx context.Context, query string, viewer ViewerContext) (int, error) {
	ctx, span := r.tracer.Start(ctx, "router.ExtractSnapPage")
	defer span.End()

	var res SnapPageResult
	err := r.classifier.Classify(ctx, SnapPageSchema, constant.SnapPageParseInstruction, []llm.Message{
		{Role: llm.RoleAssistant, Content: fmt.Sprintf(constant.SnapPagePreamble, viewer.String())},
		{Role: llm.RoleUser, Content: query},
	}, &res)
	return res.SnapPage, err
}

// ExtractFigureDescription is not part of Execute: search receives the raw
// utterance.
func (r *Router) ExtractFigureDescription(ctx context.Context, query string) (string, error) {
	var res FigureDescription
	err := r.classifier.Classify(ctx, FigureDescriptionSchema, constant.FigureDescriptionParseInstruction, []llm.Message{
		{Role: llm.RoleAssistant, Content: constant.FigureDescriptionPreamble},
		{Role: llm.RoleUser, Content: query},
	}, &res)
	return res.FigureDescription, err
}

// ExtractDocumentDescription is the document counterpart of
// ExtractFigureDescription and is likewise unused by Execute.
func (r *Router) ExtractDocumentDescription(ctx context.Context, query string) (string, error) {
	var res DocumentDescription
	err := r.classifier.Classify(ctx, DocumentDescriptionSchema, constant.DocumentDescriptionParseInstruction, []llm.Message{
		{Role: llm.RoleAssistant, Content: constant.DocumentDescriptionPreamble},
		{Role: llm.RoleUser, Content: query},
	}, &res)
	return res.DocDescription, err
}

func (r *Router) searchFigure(ctx context.Context, query string) (search.FigureHit, error) {
	ctx, span := r.tracer.Start(ctx, "search.Figure")
	defer span.End()
	return r.search.SearchFigure(ctx, query)
}

func (r *Router) searchDocument(ctx context.Context, query string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "search.Document")
	defer span.End()
	return r.search.SearchDocument(ctx, query)
}

func (r *Router) fail(span trace.Span, step string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, step)
	return fmt.Errorf("%s: %w", step, err)
}
