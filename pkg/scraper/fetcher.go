package scraper

import "context"

// Fetcher resolves a term against external sources. Fetch hits the
// specialized legal dictionary; Search hits a broad web-search backend.
// An empty string with a nil error means the source had nothing; callers
// treat failures and misses identically and move on to the next tier.
type Fetcher interface {
	Fetch(ctx context.Context, term string) (string, error)
	Search(ctx context.Context, query string) (string, error)
}
