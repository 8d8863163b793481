package agents

import (
	"context"
	"fmt"

	"github.com/meridianai/promptforge/internal/llm"
	"github.com/meridianai/promptforge/internal/parser"
	"github.com/meridianai/promptforge/internal/retry"
)

const evaluatorSystemPrompt = `Your role is to assess prompt quality on multiple dimensions.

Evaluate both prompts on:
1. Clarity and specificity (0-25 points)
2. Completeness and context (0-25 points)
3. Actionability and structure (0-25 points)
4. Likely output quality (0-25 points)

Provide scores for both original and optimized prompts, plus an overall improvement assessment.`

// EvaluationResult carries the Evaluator's free-form content plus the extracted score
// and a note on whether the score had to fall back to the parser default.
type EvaluationResult struct {
	Output          llm.RoleOutput
	QualityScore    int
	ScoreDefaulted  bool
}

// Evaluate scores the optimized prompt against the original, given the sample output it
// produced. Score extraction is total: a missing or unparseable score yields
// parser.DefaultScore and ScoreDefaulted=true rather than a failure.
func (rt *Runtime) Evaluate(ctx context.Context, originalPrompt, optimizedPrompt, sampleOutput string, category Category, retryCfg *retry.Config) EvaluationResult {
	userPrompt := fmt.Sprintf(`Original Prompt:
%s

Optimized Prompt:
%s

Sample Output from Optimized Prompt:
%s

Evaluate both prompts and provide detailed scores (0-100 total) for each dimension.`, originalPrompt, optimizedPrompt, sampleOutput)

	out := rt.Invoke(ctx, Call{
		Role:         RoleEvaluator,
		UserPrompt:   userPrompt,
		SystemPrompt: evaluatorSystemPrompt,
		Category:     string(category),
		RetryCfg:     retryCfg,
		Operation:    "evaluate",
	})

	if !out.Success {
		return EvaluationResult{Output: out}
	}

	score := parser.ExtractScore(out.Content)
	return EvaluationResult{
		Output:         out,
		QualityScore:   score,
		ScoreDefaulted: score == parser.DefaultScore,
	}
}
