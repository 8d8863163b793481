// Package validate implements the Input Validator: prompt sanitisation and category
// enumeration membership at ingress, applied before any role call is made.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/meridianai/promptforge/internal/agents"
	"github.com/meridianai/promptforge/internal/errs"
)

// MaxPromptLength bounds raw_text after normalisation.
const MaxPromptLength = 10_000

var controlChars = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Result is the validated, normalised prompt request.
type Result struct {
	RawText  string
	Category agents.Category
}

// Validate applies the §4.10 rules: control-character stripping, newline collapsing,
// word-boundary truncation with an explicit ellipsis, length bounds, and case-insensitive
// category membership with canonical-case storage. A non-nil error is always a
// Validation-kind errs.Error.
func Validate(rawText, category string) (Result, error) {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return Result{}, errs.New(errs.Validation, fmt.Errorf("prompt cannot be empty"), false)
	}

	sanitized := controlChars.ReplaceAllString(trimmed, "")
	sanitized = excessNewlines.ReplaceAllString(sanitized, "\n\n")
	sanitized = truncate(sanitized)

	length := len([]rune(sanitized))
	if length < 1 || length > MaxPromptLength {
		return Result{}, errs.New(errs.Validation, fmt.Errorf("prompt length %d out of bounds [1,%d]", length, MaxPromptLength), false)
	}

	canonical, ok := canonicalCategory(category)
	if !ok {
		return Result{}, errs.New(errs.Validation, fmt.Errorf("unknown category %q", category), false)
	}

	return Result{RawText: sanitized, Category: canonical}, nil
}

const ellipsis = "..."

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxPromptLength {
		return s
	}
	limit := MaxPromptLength - len([]rune(ellipsis))
	cut := string(runes[:limit])
	lastSpace := strings.LastIndex(cut, " ")
	lastTenPercent := int(float64(limit) * 0.9)
	if lastSpace > lastTenPercent {
		return cut[:lastSpace] + ellipsis
	}
	return cut + ellipsis
}

func canonicalCategory(category string) (agents.Category, bool) {
	lower := strings.ToLower(strings.TrimSpace(category))
	for c := range agents.ValidCategories {
		if strings.ToLower(string(c)) == lower {
			return c, true
		}
	}
	return "", false
}
