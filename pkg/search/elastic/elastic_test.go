package elastic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"doctech-be/pkg/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_MapsHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pdf-pages/_search", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		match := body["query"].(map[string]interface{})["match"].(map[string]interface{})
		assert.Equal(t, "quarterly revenue table", match["text"])

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hits":{"hits":[{"_score":4.2,"_source":{"source_url":"q3.pdf","page_number":5}}]}}`))
	}))
	defer srv.Close()

	s, err := NewSearcher(Config{Addresses: []string{srv.URL}, Index: "pdf-pages"})
	require.NoError(t, err)

	hit, err := search.NewTopHitClient(s).SearchFigure(context.Background(), "quarterly revenue table")
	require.NoError(t, err)
	assert.Equal(t, search.FigureHit{SourceURL: "q3.pdf", PageNumber: 5}, hit)
}

func TestSearch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	}))
	defer srv.Close()

	s, err := NewSearcher(Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "anything")
	var rse *search.RemoteServiceError
	assert.ErrorAs(t, err, &rse)
}
