package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var codeBlockPattern = regexp.MustCompile("(?s)```(?:javascript|js)\\s*\\n(.*?)```")

// ExtractCodeBlock pulls the first fenced javascript block out of model
// output. It returns the code and the remaining text with the block removed.
func ExtractCodeBlock(text string) (code string, remainder string) {
	m := codeBlockPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return "", text
	}

	code = strings.TrimSpace(text[m[2]:m[3]])
	remainder = strings.TrimSpace(text[:m[0]] + text[m[1]:])
	return code, remainder
}

// WrapCodeBlock renders code as a fenced javascript block, the delimiter
// convention callers use to extract executable visualization code.
func WrapCodeBlock(code string) string {
	return fmt.Sprintf("```javascript\n%s\n```", code)
}
