package dictionary

import (
	"context"
	"strings"

	"legal-analysis-be/internal/pkg/logger"
	"legal-analysis-be/pkg/llm"
	"legal-analysis-be/pkg/rag/prompt"
	"legal-analysis-be/pkg/scraper"
)

const (
	// MaxDefinitionLength is the hard cap on any returned definition.
	MaxDefinitionLength = 1500

	// SimplifyThreshold is the length past which a definition from an
	// external source gets rewritten in plainer words.
	SimplifyThreshold = 1000
)

// Resolver looks a term up through a tiered chain of sources: the
// specialized legal dictionary first, then web search, then the model's own
// knowledge. Each tier is tried only when the previous one returned nothing.
type Resolver struct {
	fetcher  scraper.Fetcher
	provider llm.LLMProvider
	cache    Cache
	log      logger.ILogger
}

func NewResolver(fetcher scraper.Fetcher, provider llm.LLMProvider, cache Cache, log logger.ILogger) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		provider: provider,
		cache:    cache,
		log:      log,
	}
}

// Resolve returns the first non-empty definition the tier chain produces.
// Tier errors are logged and treated as misses so one flaky source never
// takes the whole chain down. A fully exhausted chain returns TierNone.
func (r *Resolver) Resolve(ctx context.Context, term string) Result {
	term = strings.TrimSpace(term)
	if term == "" {
		return Result{Term: term, Tier: TierNone}
	}

	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, term); ok {
			return cached
		}
	}

	result := r.resolveUncached(ctx, term)
	if r.cache != nil {
		r.cache.Set(ctx, result)
	}
	return result
}

func (r *Resolver) resolveUncached(ctx context.Context, term string) Result {
	if definition := r.fromSpecialized(ctx, term); definition != "" {
		return Result{Term: term, Tier: TierSpecialized, Definition: r.finalize(ctx, term, definition)}
	}

	if definition := r.fromSearch(ctx, term); definition != "" {
		return Result{Term: term, Tier: TierSearch, Definition: r.finalize(ctx, term, definition)}
	}

	if definition := r.fromModel(ctx, term); definition != "" {
		return Result{Term: term, Tier: TierModelKnowledge, Definition: truncate(definition)}
	}

	return Result{Term: term, Tier: TierNone}
}

func (r *Resolver) fromSpecialized(ctx context.Context, term string) string {
	definition, err := r.fetcher.Fetch(ctx, term)
	if err != nil {
		r.log.Warn("dictionary", "dictionary lookup failed, falling through", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
		return ""
	}
	return strings.TrimSpace(definition)
}

func (r *Resolver) fromSearch(ctx context.Context, term string) string {
	definition, err := r.fetcher.Search(ctx, term+" legal definition")
	if err != nil {
		r.log.Warn("dictionary", "web search failed, falling through", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
		return ""
	}
	return strings.TrimSpace(definition)
}

func (r *Resolver) fromModel(ctx context.Context, term string) string {
	response, err := r.provider.Generate(ctx, prompt.KnowledgePrompt(term))
	if err != nil {
		r.log.Warn("dictionary", "model definition failed", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
		return ""
	}
	return strings.TrimSpace(response)
}

// finalize simplifies definitions that are too long for a layperson, then
// applies the hard length cap.
func (r *Resolver) finalize(ctx context.Context, term, definition string) string {
	if len([]rune(definition)) > SimplifyThreshold {
		simplified, err := r.provider.Generate(ctx, prompt.SimplifyPrompt(term, definition))
		if err == nil && strings.TrimSpace(simplified) != "" {
			definition = strings.TrimSpace(simplified)
		}
	}
	return truncate(definition)
}

func truncate(definition string) string {
	runes := []rune(definition)
	if len(runes) <= MaxDefinitionLength {
		return definition
	}
	return string(runes[:MaxDefinitionLength])
}
