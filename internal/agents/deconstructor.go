package agents

import (
	"context"
	"fmt"

	"github.com/meridianai/promptforge/internal/llm"
)

// Deconstruct breaks a raw prompt into its component parts: intent, entities, desired
// output format, ambiguities, and context requirements.
func (rt *Runtime) Deconstruct(ctx context.Context, rawPrompt string, category Category) llm.RoleOutput {
	systemPrompt := fmt.Sprintf(`Your role is to break down vague or unstructured prompts into clear, analyzable components.

Analyze the following %s prompt and identify:
1. Core intent/purpose
2. Key entities and concepts
3. Desired output format
4. Missing information or ambiguities
5. Context requirements

%s

Provide a structured breakdown in a clear, organized format.`, category, CategoryContext(category))

	userPrompt := "Deconstruct the following prompt:\n\n" + rawPrompt

	return rt.Invoke(ctx, Call{
		Role:         RoleDeconstructor,
		UserPrompt:   userPrompt,
		SystemPrompt: systemPrompt,
		Category:     string(category),
		Operation:    "deconstruct",
	})
}
