package parser

import "testing"

func TestExtractScoreOverallPattern(t *testing.T) {
	got := ExtractScore("Overall score: 85/100")
	if got != 85 {
		t.Errorf("expected 85, got %d", got)
	}
}

func TestExtractScoreFallbackDefault(t *testing.T) {
	got := ExtractScore("...the output is strong, we judge this a solid effort.")
	if got != DefaultScore {
		t.Errorf("expected default %d, got %d", DefaultScore, got)
	}
}

func TestExtractScoreEmptyContent(t *testing.T) {
	if got := ExtractScore(""); got != DefaultScore {
		t.Errorf("expected default %d for empty content, got %d", DefaultScore, got)
	}
}

func TestExtractScoreClampsOutOfRange(t *testing.T) {
	if got := ExtractScore("total score: 140"); got != 100 {
		t.Errorf("expected clamp to 100, got %d", got)
	}
}

func TestExtractScoreOrderedFirstMatch(t *testing.T) {
	// "overall" pattern should win over the bare "score:" pattern since it is tried first.
	got := ExtractScore("overall: 90, score: 10")
	if got != 90 {
		t.Errorf("expected ordered-first-match to yield 90, got %d", got)
	}
}

func TestExtractOptimizedPromptWithMarker(t *testing.T) {
	content := "Here is the improved version.\n\nOptimized Prompt:\nWrite a 500-word blog post about AI safety for a general audience.\n\nKey improvements: added audience and length."
	got := ExtractOptimizedPrompt(content)
	if got != "Write a 500-word blog post about AI safety for a general audience." {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractOptimizedPromptWithRefinedMarker(t *testing.T) {
	content := "Analysis complete.\n\nRefined Prompt:\nWrite a persuasive product page for a smart thermostat targeting homeowners.\n\nRationale follows."
	got := ExtractOptimizedPrompt(content)
	if got != "Write a persuasive product page for a smart thermostat targeting homeowners." {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractOptimizedPromptWithImprovedMarker(t *testing.T) {
	content := "Here is the result.\n\nImproved Prompt:\nDraft a concise incident postmortem for an internal audience.\n\nNotes below."
	got := ExtractOptimizedPrompt(content)
	if got != "Draft a concise incident postmortem for an internal audience." {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractOptimizedPromptFencedBlock(t *testing.T) {
	content := "Improvements below.\n\n```\nWrite a technical spec for a rate limiter.\n```\n\nExplanation follows."
	got := ExtractOptimizedPrompt(content)
	if got != "Write a technical spec for a rate limiter." {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractOptimizedPromptFallsBackToLongestParagraph(t *testing.T) {
	content := "Write a compelling product description for a smart thermostat.\n\nThis covers tone and audience."
	got := ExtractOptimizedPrompt(content)
	if got != "Write a compelling product description for a smart thermostat." {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractOptimizedPromptEmptyInput(t *testing.T) {
	if got := ExtractOptimizedPrompt(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
