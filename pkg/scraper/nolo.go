package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// NoloFetcher scrapes definitions from a Nolo-style legal dictionary
// (pages at /dictionary/{term}-term.html with the definition inside a
// div carrying the "definition" class) and falls back to a SearxNG-style
// JSON search endpoint for the broad tier.
type NoloFetcher struct {
	DictionaryBaseURL string
	SearchURL         string
	Client            *http.Client
}

var _ Fetcher = &NoloFetcher{}

func NewNoloFetcher(dictionaryBaseURL, searchURL string) *NoloFetcher {
	return &NoloFetcher{
		DictionaryBaseURL: dictionaryBaseURL,
		SearchURL:         searchURL,
		Client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Fetch looks a term up in the legal dictionary. The term is lowercased to
// match the dictionary's URL scheme.
func (f *NoloFetcher) Fetch(ctx context.Context, term string) (string, error) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(term)), " ", "-")
	pageURL := fmt.Sprintf("%s/dictionary/%s-term.html", strings.TrimRight(f.DictionaryBaseURL, "/"), slug)

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dictionary returned status %d for %q", resp.StatusCode, term)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", err
	}

	return extractDefinition(doc), nil
}

// Search queries the configured search endpoint and joins the top snippets.
func (f *NoloFetcher) Search(ctx context.Context, query string) (string, error) {
	if f.SearchURL == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, "GET", f.SearchURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Results []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}

	var snippets []string
	for i, r := range parsed.Results {
		if i >= 3 {
			break
		}
		if s := strings.TrimSpace(r.Content); s != "" {
			snippets = append(snippets, s)
		}
	}

	return strings.Join(snippets, "\n"), nil
}

// extractDefinition walks the parsed page for the definition container and
// returns its text content.
func extractDefinition(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "div" {
		for _, attr := range n.Attr {
			if attr.Key == "class" && strings.Contains(attr.Val, "definition") {
				var sb strings.Builder
				collectText(n, &sb)
				return strings.TrimSpace(sb.String())
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := extractDefinition(c); found != "" {
			return found
		}
	}
	return ""
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
