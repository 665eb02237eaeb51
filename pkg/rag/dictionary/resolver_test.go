package dictionary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legal-analysis-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeFetcher struct {
	fetchResult  string
	fetchErr     error
	searchResult string
	searchErr    error
	fetchCalls   int
	searchCalls  int
}

func (f *fakeFetcher) Fetch(ctx context.Context, term string) (string, error) {
	f.fetchCalls++
	return f.fetchResult, f.fetchErr
}

func (f *fakeFetcher) Search(ctx context.Context, query string) (string, error) {
	f.searchCalls++
	return f.searchResult, f.searchErr
}

type fakeProvider struct {
	response      string
	err           error
	generateCalls int
	prompts       []string
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.response, p.err
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.generateCalls++
	p.prompts = append(p.prompts, prompt)
	return p.response, p.err
}

type mapCache struct {
	entries map[string]Result
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]Result)}
}

func (c *mapCache) Get(ctx context.Context, term string) (Result, bool) {
	r, ok := c.entries[strings.ToLower(term)]
	return r, ok
}

func (c *mapCache) Set(ctx context.Context, result Result) {
	c.sets++
	c.entries[strings.ToLower(result.Term)] = result
}

func TestResolveSpecializedTierShortCircuits(t *testing.T) {
	fetcher := &fakeFetcher{fetchResult: "a short dictionary definition"}
	provider := &fakeProvider{}
	r := NewResolver(fetcher, provider, nil, noopLogger{})

	result := r.Resolve(context.Background(), "estoppel")

	assert.Equal(t, TierSpecialized, result.Tier)
	assert.Equal(t, "a short dictionary definition", result.Definition)
	assert.Equal(t, 0, fetcher.searchCalls, "search tier must not run")
	assert.Equal(t, 0, provider.generateCalls, "model tier must not run")
}

func TestResolveFallsBackToSearch(t *testing.T) {
	fetcher := &fakeFetcher{fetchErr: errors.New("scrape failed"), searchResult: "a web definition"}
	r := NewResolver(fetcher, &fakeProvider{}, nil, noopLogger{})

	result := r.Resolve(context.Background(), "estoppel")

	assert.Equal(t, TierSearch, result.Tier)
	assert.Equal(t, "a web definition", result.Definition)
	assert.Equal(t, 1, fetcher.fetchCalls)
	assert.Equal(t, 1, fetcher.searchCalls)
}

func TestResolveFallsBackToModelKnowledge(t *testing.T) {
	fetcher := &fakeFetcher{}
	provider := &fakeProvider{response: "a model definition"}
	r := NewResolver(fetcher, provider, nil, noopLogger{})

	result := r.Resolve(context.Background(), "estoppel")

	assert.Equal(t, TierModelKnowledge, result.Tier)
	assert.Equal(t, "a model definition", result.Definition)
	assert.Equal(t, 1, provider.generateCalls)
}

func TestResolveAllTiersExhausted(t *testing.T) {
	fetcher := &fakeFetcher{fetchErr: errors.New("down"), searchErr: errors.New("down")}
	provider := &fakeProvider{err: errors.New("down")}
	r := NewResolver(fetcher, provider, nil, noopLogger{})

	result := r.Resolve(context.Background(), "estoppel")

	assert.Equal(t, TierNone, result.Tier)
	assert.Empty(t, result.Definition)
}

func TestResolveSimplifiesLongDefinitions(t *testing.T) {
	long := strings.Repeat("x", SimplifyThreshold+1)
	fetcher := &fakeFetcher{fetchResult: long}
	provider := &fakeProvider{response: "a simpler version"}
	r := NewResolver(fetcher, provider, nil, noopLogger{})

	result := r.Resolve(context.Background(), "estoppel")

	require.Equal(t, TierSpecialized, result.Tier)
	assert.Equal(t, "a simpler version", result.Definition)
	assert.Equal(t, 1, provider.generateCalls)
}

func TestResolveTruncatesAtCap(t *testing.T) {
	long := strings.Repeat("y", MaxDefinitionLength+500)
	fetcher := &fakeFetcher{fetchResult: long}
	// Simplification fails; the raw definition must still be capped.
	provider := &fakeProvider{err: errors.New("down")}
	r := NewResolver(fetcher, provider, nil, noopLogger{})

	result := r.Resolve(context.Background(), "estoppel")

	assert.Len(t, []rune(result.Definition), MaxDefinitionLength)
}

func TestResolveUsesCache(t *testing.T) {
	cache := newMapCache()
	cache.Set(context.Background(), Result{Term: "estoppel", Tier: TierSpecialized, Definition: "cached"})

	fetcher := &fakeFetcher{fetchResult: "fresh"}
	r := NewResolver(fetcher, &fakeProvider{}, cache, noopLogger{})

	result := r.Resolve(context.Background(), "estoppel")

	assert.Equal(t, "cached", result.Definition)
	assert.Equal(t, 0, fetcher.fetchCalls)
}

func TestResolveStoresInCache(t *testing.T) {
	cache := newMapCache()
	fetcher := &fakeFetcher{fetchResult: "fresh definition"}
	r := NewResolver(fetcher, &fakeProvider{}, cache, noopLogger{})

	r.Resolve(context.Background(), "estoppel")

	cached, ok := cache.Get(context.Background(), "estoppel")
	require.True(t, ok)
	assert.Equal(t, "fresh definition", cached.Definition)
}

func TestResolveEmptyTerm(t *testing.T) {
	r := NewResolver(&fakeFetcher{}, &fakeProvider{}, nil, noopLogger{})

	result := r.Resolve(context.Background(), "   ")

	assert.Equal(t, TierNone, result.Tier)
}
