package validate

import (
	"strings"
	"testing"

	"github.com/meridianai/promptforge/internal/errs"
)

func TestValidateEmptyPromptFails(t *testing.T) {
	_, err := Validate("", "creative")
	if err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if !errs.Is(err, errs.Validation) {
		t.Errorf("expected Validation kind, got %v", err)
	}
}

func TestValidateStripsControlCharacters(t *testing.T) {
	result, err := Validate("hello\x01\x02 world", "technical")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.ContainsAny(result.RawText, "\x01\x02") {
		t.Errorf("expected control characters stripped, got %q", result.RawText)
	}
}

func TestValidateCollapsesExcessNewlines(t *testing.T) {
	result, err := Validate("line one\n\n\n\n\nline two", "technical")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(result.RawText, "\n\n\n") {
		t.Errorf("expected newlines collapsed to at most two, got %q", result.RawText)
	}
}

func TestValidateCategoryCaseInsensitiveCanonicalStore(t *testing.T) {
	result, err := Validate("a valid prompt", "CREATIVE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Category) != "creative" {
		t.Errorf("expected canonical-case category, got %q", result.Category)
	}
}

func TestValidateUnknownCategoryFails(t *testing.T) {
	_, err := Validate("a valid prompt", "not_a_real_category")
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestValidateTruncatesAtWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 3000)
	result, err := Validate(long, "creative")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(result.RawText, "...") {
		t.Errorf("expected truncation ellipsis, got suffix %q", result.RawText[len(result.RawText)-10:])
	}
	if len([]rune(result.RawText)) > MaxPromptLength {
		t.Errorf("expected truncated length <= %d, got %d", MaxPromptLength, len([]rune(result.RawText)))
	}
}
