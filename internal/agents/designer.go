package agents

import (
	"context"
	"fmt"

	"github.com/meridianai/promptforge/internal/llm"
)

// RAGHints carries the two optional external retrieval collaborators described for the
// Designer role. Both are advisory; their absence is never an error.
type RAGHints struct {
	// Examples holds example text retrieved directly by a retrieval function.
	Examples string
	// Tools, when non-empty, is passed through to the upstream tools field (e.g. a
	// file_search tool backed by a curated collection of prompt examples).
	Tools []llm.ToolDefinition
}

// Design produces a refined, optimized prompt addressing every issue raised by
// Diagnose, optionally informed by retrieved examples or a search tool.
func (rt *Runtime) Design(ctx context.Context, rawPrompt, deconstruction, diagnosis string, category Category, hints RAGHints) llm.RoleOutput {
	systemPrompt := fmt.Sprintf(`Your role is to create refined, optimized prompts that address all identified issues.

Design an improved version of the prompt that:
1. Eliminates ambiguities
2. Adds necessary context
3. Specifies desired output format
4. Includes best practices for %s prompts
5. Maintains the original intent
6. Improves clarity and actionability

%s

Provide the optimized prompt and explain key improvements.`, category, CategoryContext(category))

	userPrompt := fmt.Sprintf(`Original Prompt:
%s

Deconstruction:
%s

Diagnosis:
%s

Design an optimized version of this prompt. Include both the optimized prompt and a brief explanation of improvements.`, rawPrompt, deconstruction, diagnosis)

	if hints.Examples != "" {
		userPrompt += fmt.Sprintf(`

Reference Examples (from knowledge base):
%s

Use these examples as inspiration while creating the optimized prompt.`, hints.Examples)
	} else if len(hints.Tools) > 0 {
		systemPrompt += `

You have access to a knowledge base of high-quality prompt examples via the file_search tool.
Use it to find examples of well-structured prompts in this domain and reference successful
structures when creating the optimized version.`
	}

	return rt.Invoke(ctx, Call{
		Role:         RoleDesigner,
		UserPrompt:   userPrompt,
		SystemPrompt: systemPrompt,
		Category:     string(category),
		Tools:        hints.Tools,
		Operation:    "design",
	})
}
