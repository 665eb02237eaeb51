package risk

import (
	"reflect"
	"testing"
)

func TestParseBreakdownSeverities(t *testing.T) {
	summary := `1. Risk Categorization:
- High risk: unlimited liability clause
- The indemnification risk is medium severity
- Low risk of regulatory exposure
The low fee structure is favorable.`

	b := ParseBreakdown(summary)

	if b.SeverityCounts["High"] != 1 {
		t.Errorf("High = %d, want 1", b.SeverityCounts["High"])
	}
	if b.SeverityCounts["Medium"] != 1 {
		t.Errorf("Medium = %d, want 1", b.SeverityCounts["Medium"])
	}
	// "low fee structure" is not on a risk line and must not count
	if b.SeverityCounts["Low"] != 1 {
		t.Errorf("Low = %d, want 1", b.SeverityCounts["Low"])
	}
}

func TestParseBreakdownCategories(t *testing.T) {
	summary := `The contract contains a non-compete clause.
Compliance obligations under GDPR raise privacy concerns.
A pending lawsuit over intellectual property is disclosed.`

	b := ParseBreakdown(summary)

	tests := []struct {
		category string
		want     int
	}{
		{"Contract", 1},
		{"Compliance", 1},
		{"Privacy", 1},
		{"Intellectual Property", 1},
		{"Litigation", 1}, // lawsuit counts toward litigation
	}
	for _, tt := range tests {
		if got := b.CategoryCounts[tt.category]; got != tt.want {
			t.Errorf("CategoryCounts[%q] = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestParseBreakdownEmptySummary(t *testing.T) {
	b := ParseBreakdown("")

	if b.Total() != 0 {
		t.Errorf("Total() = %d, want 0", b.Total())
	}
	for _, s := range Severities {
		if _, ok := b.SeverityCounts[s]; !ok {
			t.Errorf("SeverityCounts missing key %q", s)
		}
	}
	for _, c := range Categories {
		if _, ok := b.CategoryCounts[c]; !ok {
			t.Errorf("CategoryCounts missing key %q", c)
		}
	}
}

func TestExtractDifficultTerms(t *testing.T) {
	summary := `2. Lawsuits & Breaches:
No lawsuits disclosed.

3. Difficult Terms & Explanations:
- Indemnification: an obligation to compensate another party for loss
- **Force Majeure** - unforeseeable circumstances preventing fulfillment
- Liquidated Damages: a pre-agreed compensation amount
- indemnification: duplicate entry with different case

4. Overall Summary:
The agreement carries material risk.`

	terms := ExtractDifficultTerms(summary)

	want := []string{"Indemnification", "Force Majeure", "Liquidated Damages"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("ExtractDifficultTerms() = %v, want %v", terms, want)
	}
}

func TestExtractDifficultTermsStopsAtNextSection(t *testing.T) {
	summary := `3. Difficult Terms:
- Estoppel: being barred from asserting a claim

4. Overall Summary:
- High risk overall`

	terms := ExtractDifficultTerms(summary)

	if len(terms) != 1 || terms[0] != "Estoppel" {
		t.Errorf("ExtractDifficultTerms() = %v, want [Estoppel]", terms)
	}
}

func TestExtractDifficultTermsNoSection(t *testing.T) {
	if terms := ExtractDifficultTerms("Just a plain summary with no term list."); len(terms) != 0 {
		t.Errorf("expected no terms, got %v", terms)
	}
}

func TestExtractDifficultTermsCap(t *testing.T) {
	summary := "Difficult Terms:\n"
	for i := 0; i < 15; i++ {
		summary += "- Term" + string(rune('A'+i)) + ": some definition\n"
	}

	terms := ExtractDifficultTerms(summary)
	if len(terms) != maxDifficultTerms {
		t.Errorf("got %d terms, want cap of %d", len(terms), maxDifficultTerms)
	}
}
