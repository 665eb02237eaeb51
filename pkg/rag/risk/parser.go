package risk

import (
	"regexp"
	"strings"
)

// Breakdown carries the severity and category distribution parsed out of a
// structured risk summary. It feeds the visualization stage as data, not as
// prose to re-derive.
type Breakdown struct {
	SeverityCounts map[string]int `json:"severity_counts"`
	CategoryCounts map[string]int `json:"category_counts"`
}

var (
	Severities = []string{"High", "Medium", "Low"}
	Categories = []string{"Contract", "Compliance", "Intellectual Property", "Privacy", "Litigation"}
)

var severityPattern = regexp.MustCompile(`(?i)\b(high|medium|low)\b`)

// ParseBreakdown scans a structured summary for severity and category
// mentions. Severity words only count on lines that talk about risk or
// severity, which keeps prose like "low cost" out of the tally.
func ParseBreakdown(summary string) Breakdown {
	b := Breakdown{
		SeverityCounts: make(map[string]int),
		CategoryCounts: make(map[string]int),
	}
	for _, s := range Severities {
		b.SeverityCounts[s] = 0
	}
	for _, c := range Categories {
		b.CategoryCounts[c] = 0
	}

	for _, line := range strings.Split(summary, "\n") {
		lower := strings.ToLower(line)

		if strings.Contains(lower, "risk") || strings.Contains(lower, "severity") {
			for _, match := range severityPattern.FindAllString(lower, -1) {
				switch strings.ToLower(match) {
				case "high":
					b.SeverityCounts["High"]++
				case "medium":
					b.SeverityCounts["Medium"]++
				case "low":
					b.SeverityCounts["Low"]++
				}
			}
		}

		for _, category := range Categories {
			keyword := strings.ToLower(category)
			if keyword == "litigation" {
				// Lawsuits and disputes count toward litigation
				if strings.Contains(lower, "litigation") || strings.Contains(lower, "lawsuit") || strings.Contains(lower, "dispute") {
					b.CategoryCounts[category]++
				}
				continue
			}
			if strings.Contains(lower, keyword) {
				b.CategoryCounts[category]++
			}
		}
	}

	return b
}

// Total returns the sum of all severity counts.
func (b Breakdown) Total() int {
	total := 0
	for _, n := range b.SeverityCounts {
		total += n
	}
	return total
}

var (
	sectionHeaderPattern = regexp.MustCompile(`^\s*(#{1,6}\s+|\*\*|\d+\s*[\.\)]\s*)`)
	bulletPattern        = regexp.MustCompile(`^\s*[-*•]\s+(.+)$`)
	markupTrimmer        = strings.NewReplacer("**", "", "*", "", "`", "", "\"", "")
)

const maxDifficultTerms = 10

// ExtractDifficultTerms pulls the term list out of the summary's
// difficult-terms section. Terms are taken from bullet or numbered lines,
// using the text before the first colon or dash separator. Extraction stops
// at the next section header.
func ExtractDifficultTerms(summary string) []string {
	lines := strings.Split(summary, "\n")

	inSection := false
	seen := make(map[string]bool)
	var terms []string

	for _, line := range lines {
		lower := strings.ToLower(line)

		if !inSection {
			if strings.Contains(lower, "difficult term") || strings.Contains(lower, "difficult or uncommon") {
				inSection = true
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			term := splitTerm(m[1])
			if term == "" || len(term) > 80 {
				continue
			}
			key := strings.ToLower(term)
			if seen[key] {
				continue
			}
			seen[key] = true
			terms = append(terms, term)
			if len(terms) >= maxDifficultTerms {
				break
			}
			continue
		}

		// A new section header ends the term list
		if sectionHeaderPattern.MatchString(line) {
			break
		}
	}

	return terms
}

func splitTerm(s string) string {
	for _, sep := range []string{":", " - ", " – ", " — "} {
		if idx := strings.Index(s, sep); idx > 0 {
			s = s[:idx]
			break
		}
	}
	return strings.TrimSpace(markupTrimmer.Replace(s))
}
