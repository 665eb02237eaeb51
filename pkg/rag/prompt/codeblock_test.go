package prompt

import (
	"strings"
	"testing"
)

func TestExtractCodeBlock(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantCode      string
		wantRemainder string
	}{
		{
			name:          "javascript fence",
			text:          "Here are the charts.\n```javascript\nPlotly.newPlot();\n```",
			wantCode:      "Plotly.newPlot();",
			wantRemainder: "Here are the charts.",
		},
		{
			name:          "js fence",
			text:          "```js\nconst x = 1;\n```\ntrailing note",
			wantCode:      "const x = 1;",
			wantRemainder: "trailing note",
		},
		{
			name:          "no fence",
			text:          "plain prose only",
			wantCode:      "",
			wantRemainder: "plain prose only",
		},
		{
			name:          "other language ignored",
			text:          "```python\nprint('hi')\n```",
			wantCode:      "",
			wantRemainder: "```python\nprint('hi')\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, remainder := ExtractCodeBlock(tt.text)
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
			if remainder != tt.wantRemainder {
				t.Errorf("remainder = %q, want %q", remainder, tt.wantRemainder)
			}
		})
	}
}

func TestExtractCodeBlockTakesFirst(t *testing.T) {
	text := "```javascript\nfirst();\n```\nmiddle\n```javascript\nsecond();\n```"

	code, remainder := ExtractCodeBlock(text)
	if code != "first();" {
		t.Errorf("code = %q, want first block", code)
	}
	if !strings.Contains(remainder, "second();") {
		t.Errorf("remainder should keep the second block, got %q", remainder)
	}
}

func TestWrapCodeBlockRoundTrip(t *testing.T) {
	code, remainder := ExtractCodeBlock(WrapCodeBlock("Plotly.newPlot(plot, data);"))
	if code != "Plotly.newPlot(plot, data);" {
		t.Errorf("round trip lost code: %q", code)
	}
	if remainder != "" {
		t.Errorf("round trip left remainder: %q", remainder)
	}
}
