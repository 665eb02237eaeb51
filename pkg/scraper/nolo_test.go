package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchExtractsDefinition(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		fmt.Fprint(w, `<html><body>
			<div class="sidebar">unrelated</div>
			<div class="definition content"><p>A legal bar against contradicting prior conduct.</p></div>
		</body></html>`)
	}))
	defer server.Close()

	f := NewNoloFetcher(server.URL, "")
	got, err := f.Fetch(context.Background(), "Promissory Estoppel")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if got != "A legal bar against contradicting prior conduct." {
		t.Errorf("Fetch() = %q", got)
	}
	if requestedPath != "/dictionary/promissory-estoppel-term.html" {
		t.Errorf("requested path = %q", requestedPath)
	}
}

func TestFetchMissingDefinitionDiv(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>no dictionary entry here</p></body></html>`)
	}))
	defer server.Close()

	f := NewNoloFetcher(server.URL, "")
	got, err := f.Fetch(context.Background(), "estoppel")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if got != "" {
		t.Errorf("Fetch() = %q, want empty", got)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewNoloFetcher(server.URL, "")
	if _, err := f.Fetch(context.Background(), "estoppel"); err == nil {
		t.Fatal("Fetch() expected error on 404")
	}
}

func TestSearchJoinsTopSnippets(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"results":[
			{"title":"one","content":"first snippet"},
			{"title":"two","content":"  "},
			{"title":"three","content":"third snippet"},
			{"title":"four","content":"never included"}
		]}`)
	}))
	defer server.Close()

	f := NewNoloFetcher("", server.URL)
	got, err := f.Search(context.Background(), "estoppel legal definition")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if got != "first snippet\nthird snippet" {
		t.Errorf("Search() = %q", got)
	}
	if query != "estoppel legal definition" {
		t.Errorf("query param = %q", query)
	}
}

func TestSearchUnconfigured(t *testing.T) {
	f := NewNoloFetcher("", "")
	got, err := f.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if got != "" {
		t.Errorf("Search() = %q, want empty for unconfigured endpoint", got)
	}
}

func TestSearchBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	f := NewNoloFetcher("", server.URL)
	if _, err := f.Search(context.Background(), "estoppel"); err == nil {
		t.Fatal("Search() expected error on malformed body")
	}
}
