// Package normalizer extracts a diet plan from raw model output. Model text
// is untrusted input: the parser is strictly pass/fail and never returns a
// partially recovered plan.
package normalizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgonzalez/nutrify/internal/domain"
)

// snippetLimit bounds how much offending text is attached to an error.
const snippetLimit = 200

// Parser implements domain.PlanParser.
type Parser struct{}

// NewParser creates a new plan parser (DI constructor).
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts, sanitizes and validates a diet plan from raw model
// output. All failures are domain.ErrInvalidPlanFormat with a bounded
// snippet of the offending text attached for diagnostics.
func (p *Parser) Parse(raw string) (domain.Plan, error) {
	candidate, err := extract(raw)
	if err != nil {
		return nil, err
	}

	cleaned := sanitize(candidate)

	var plan domain.Plan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v (text: %q)", domain.ErrInvalidPlanFormat, err, snippet(cleaned))
	}

	if _, ok := plan.Meals(); !ok {
		return nil, fmt.Errorf("%w: meals must be present and be an array", domain.ErrInvalidPlanFormat)
	}

	return plan, nil
}

// extract slices the JSON object out of surrounding prose. Models sometimes
// wrap the object in a code fence or add text despite instructions.
func extract(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found (text: %q)", domain.ErrInvalidPlanFormat, snippet(raw))
	}

	return text[start : end+1], nil
}

// sanitize removes raw control bytes and lowercases bare true/false/null
// tokens. Both defend against models emitting almost-JSON: literal unescaped
// newlines inside string values and capitalized literals are the two
// failure modes seen in practice.
func sanitize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			if isRawControl(c) {
				continue
			}
			sb.WriteByte(c)
			continue
		}

		switch {
		case c == '"':
			inString = true
			sb.WriteByte(c)
		case isRawControl(c):
			// dropped
		case matchToken(text, i, "true"), matchToken(text, i, "false"), matchToken(text, i, "null"):
			n := tokenLen(text, i)
			sb.WriteString(strings.ToLower(text[i : i+n]))
			i += n - 1
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func isRawControl(c byte) bool {
	return c == '\r' || c == '\n' || c == '\t' || c == '\f'
}

// matchToken reports whether text at offset i spells the given literal,
// ignoring case, with no word character on either side.
func matchToken(text string, i int, token string) bool {
	if i+len(token) > len(text) {
		return false
	}
	if !strings.EqualFold(text[i:i+len(token)], token) {
		return false
	}
	if i > 0 && isWordByte(text[i-1]) {
		return false
	}
	if i+len(token) < len(text) && isWordByte(text[i+len(token)]) {
		return false
	}
	return true
}

func tokenLen(text string, i int) int {
	for _, token := range []string{"false", "true", "null"} {
		if matchToken(text, i, token) {
			return len(token)
		}
	}
	return 1
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func snippet(text string) string {
	if len(text) <= snippetLimit {
		return text
	}
	return text[:snippetLimit] + "..."
}
