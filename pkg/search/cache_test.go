package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	figureCalls int
	docCalls    int
	err         error
}

func (c *countingClient) SearchFigure(context.Context, string) (FigureHit, error) {
	c.figureCalls++
	if c.err != nil {
		return FigureHit{}, c.err
	}
	return FigureHit{SourceURL: "doc.pdf", PageNumber: 3}, nil
}

func (c *countingClient) SearchDocument(context.Context, string) (string, error) {
	c.docCalls++
	if c.err != nil {
		return "", c.err
	}
	return "report.pdf", nil
}

func TestCachedClient_MemoryStore(t *testing.T) {
	next := &countingClient{}
	c := NewCachedClient(next, NewMemoryStore(time.Minute), time.Minute, nil)

	for i := 0; i < 3; i++ {
		hit, err := c.SearchFigure(context.Background(), "chart")
		require.NoError(t, err)
		assert.Equal(t, FigureHit{SourceURL: "doc.pdf", PageNumber: 3}, hit)

		url, err := c.SearchDocument(context.Background(), "chart")
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", url)
	}
	assert.Equal(t, 1, next.figureCalls)
	assert.Equal(t, 1, next.docCalls)
}

func TestCachedClient_RedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	next := &countingClient{}
	c := NewCachedClient(next, NewRedisStore(rdb), time.Minute, nil)

	_, err = c.SearchFigure(context.Background(), "chart")
	require.NoError(t, err)
	_, err = c.SearchFigure(context.Background(), "chart")
	require.NoError(t, err)
	assert.Equal(t, 1, next.figureCalls)

	assert.True(t, mr.Exists(cacheKey("figure", "chart")))

	mr.FastForward(2 * time.Minute)
	_, err = c.SearchFigure(context.Background(), "chart")
	require.NoError(t, err)
	assert.Equal(t, 2, next.figureCalls)
}

func TestCachedClient_DoesNotCacheErrors(t *testing.T) {
	next := &countingClient{err: ErrEmptyResult}
	c := NewCachedClient(next, NewMemoryStore(time.Minute), time.Minute, nil)

	_, err := c.SearchDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEmptyResult)
	_, err = c.SearchDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, 2, next.docCalls)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}

func TestCachedClient_StoreFailureFallsThrough(t *testing.T) {
	var ops []string
	next := &countingClient{}
	c := NewCachedClient(next, brokenStore{}, time.Minute, func(op string, err error) {
		ops = append(ops, op)
	})

	url, err := c.SearchDocument(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", url)
	assert.Equal(t, []string{"get", "set"}, ops)
}

type staticSearcher struct {
	results []Result
	err     error
}

func (s staticSearcher) Search(context.Context, string) ([]Result, error) {
	return s.results, s.err
}

func TestTopHitClient(t *testing.T) {
	c := NewTopHitClient(staticSearcher{results: []Result{
		{SourceURL: "first.pdf", PageNumbers: []int{8, 9}},
		{SourceURL: "second.pdf", PageNumbers: []int{1}},
	}})
	hit, err := c.SearchFigure(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, FigureHit{SourceURL: "first.pdf", PageNumber: 8}, hit)

	remote := &RemoteServiceError{Provider: "x", Err: errors.New("boom")}
	_, err = NewTopHitClient(staticSearcher{err: remote}).SearchDocument(context.Background(), "q")
	var rse *RemoteServiceError
	assert.ErrorAs(t, err, &rse)
}
