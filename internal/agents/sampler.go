package agents

import (
	"context"

	"github.com/meridianai/promptforge/internal/llm"
	"github.com/meridianai/promptforge/internal/retry"
)

const sampleSystemPrompt = "You are a helpful assistant. Respond directly and naturally to the instructions given to you."

// Sample issues a single model call using the redesigned prompt as user input and a
// neutral system prompt, producing the example output that Evaluate will judge.
func (rt *Runtime) Sample(ctx context.Context, optimizedPrompt string, category Category, retryCfg *retry.Config) llm.RoleOutput {
	return rt.Invoke(ctx, Call{
		Role:         RoleSampler,
		UserPrompt:   optimizedPrompt,
		SystemPrompt: sampleSystemPrompt,
		Category:     string(category),
		RetryCfg:     retryCfg,
		Operation:    "sample",
	})
}
