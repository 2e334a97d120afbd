package groundx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"doctech-be/pkg/search"
)

const (
	DefaultBaseURL = "https://api.groundx.ai/api/v1"

	// DefaultBucketID is the pre-provisioned bucket holding the ingested PDFs.
	DefaultBucketID = 11795
)

// Searcher is a minimal REST client for GroundX content search.
type Searcher struct {
	baseURL  string
	apiKey   string
	bucketID int
	client   *http.Client
}

type Config struct {
	BaseURL  string
	APIKey   string
	BucketID int
	Timeout  time.Duration
}

var _ search.Searcher = &Searcher{}

func NewSearcher(cfg Config) (*Searcher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GROUNDX_API_KEY")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	bucketID := cfg.BucketID
	if bucketID == 0 {
		bucketID = DefaultBucketID
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Searcher{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		bucketID: bucketID,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Search struct {
		Count   int `json:"count"`
		Results []struct {
			SourceURL     string  `json:"sourceUrl"`
			Score         float64 `json:"score"`
			BoundingBoxes []struct {
				PageNumber int `json:"pageNumber"`
			} `json:"boundingBoxes"`
		} `json:"results"`
	} `json:"search"`
	Message string `json:"message,omitempty"`
}

func (s *Searcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	body, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/search/%d", s.baseURL, s.bucketID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, s.fail(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.fail(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.fail(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, s.fail(fmt.Errorf("status %d: %s", resp.StatusCode, string(data)))
	}

	var out searchResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, s.fail(fmt.Errorf("decode response: %w", err))
	}

	results := make([]search.Result, 0, len(out.Search.Results))
	for _, r := range out.Search.Results {
		pages := make([]int, 0, len(r.BoundingBoxes))
		for _, bb := range r.BoundingBoxes {
			pages = append(pages, bb.PageNumber)
		}
		results = append(results, search.Result{SourceURL: r.SourceURL, PageNumbers: pages})
	}
	return results, nil
}

func (s *Searcher) fail(err error) error {
	return &search.RemoteServiceError{Provider: "groundx", Err: err}
}
