package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"doctech-be/pkg/search"

	"github.com/elastic/go-elasticsearch/v8"
)

// Searcher queries an Elasticsearch index of page-level passages.
// Each document carries source_url, page_number and text.
type Searcher struct {
	es      *elasticsearch.Client
	index   string
	timeout time.Duration
}

type Config struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
	Timeout   time.Duration
}

var _ search.Searcher = &Searcher{}

func NewSearcher(cfg Config) (*Searcher, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "documents"
	}
	return &Searcher{es: es, index: index, timeout: cfg.Timeout}, nil
}

type hitSource struct {
	SourceURL  string `json:"source_url"`
	PageNumber int    `json:"page_number"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64   `json:"_score"`
			Source hitSource `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *Searcher) Search(ctx context.Context, query string) ([]search.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body := map[string]interface{}{
		"size": 1,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"text": query,
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, s.fail(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, s.fail(fmt.Errorf("%s: %s", res.Status(), string(msg)))
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, s.fail(fmt.Errorf("decode response: %w", err))
	}

	results := make([]search.Result, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		r := search.Result{SourceURL: h.Source.SourceURL}
		if h.Source.PageNumber > 0 {
			r.PageNumbers = []int{h.Source.PageNumber}
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *Searcher) fail(err error) error {
	return &search.RemoteServiceError{Provider: "elasticsearch", Err: err}
}
