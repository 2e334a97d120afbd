// Package search resolves free-text figure and document queries against a
// semantic search index.
package search

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyResult is returned when the index has no hit, or the top hit
// carries no bounding box for a figure lookup.
var ErrEmptyResult = errors.New("search returned no usable result")

// FigureHit locates a figure: the source document and its 1-based page.
type FigureHit struct {
	SourceURL  string `json:"source_url"`
	PageNumber int    `json:"page_number"`
}

// Client is the read-only lookup surface the router depends on.
type Client interface {
	SearchFigure(ctx context.Context, query string) (FigureHit, error)
	SearchDocument(ctx context.Context, query string) (string, error)
}

// RemoteServiceError wraps transport and provider failures.
type RemoteServiceError struct {
	Provider string
	Err      error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s search failed: %v", e.Provider, e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// Result is one ranked hit, normalized across backends.
type Result struct {
	SourceURL   string
	PageNumbers []int
}

// Searcher is implemented by backends: one ranked query per call.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// TopHitClient turns any Searcher into a Client by trusting the first hit.
type TopHitClient struct {
	searcher Searcher
}

var _ Client = &TopHitClient{}

func NewTopHitClient(searcher Searcher) *TopHitClient {
	return &TopHitClient{searcher: searcher}
}

func (c *TopHitClient) SearchFigure(ctx context.Context, query string) (FigureHit, error) {
	top, err := c.top(ctx, query)
	if err != nil {
		return FigureHit{}, err
	}
	if len(top.PageNumbers) == 0 {
		return FigureHit{}, fmt.Errorf("figure %q: top hit has no bounding boxes: %w", query, ErrEmptyResult)
	}
	return FigureHit{SourceURL: top.SourceURL, PageNumber: top.PageNumbers[0]}, nil
}

func (c *TopHitClient) SearchDocument(ctx context.Context, query string) (string, error) {
	top, err := c.top(ctx, query)
	if err != nil {
		return "", err
	}
	return top.SourceURL, nil
}

func (c *TopHitClient) top(ctx context.Context, query string) (Result, error) {
	results, err := c.searcher.Search(ctx, query)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return Result{}, fmt.Errorf("query %q: %w", query, ErrEmptyResult)
	}
	return results[0], nil
}
