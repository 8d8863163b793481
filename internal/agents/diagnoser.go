package agents

import (
	"context"
	"fmt"

	"github.com/meridianai/promptforge/internal/llm"
)

// Diagnose identifies weaknesses, ambiguities, and best-practice violations in a prompt,
// given its deconstruction.
func (rt *Runtime) Diagnose(ctx context.Context, rawPrompt, deconstruction string, category Category) llm.RoleOutput {
	systemPrompt := fmt.Sprintf(`Your role is to identify weaknesses and issues in prompts.

Analyze the prompt and its deconstruction to identify:
1. Ambiguities and unclear instructions
2. Missing context or information
3. Potential misinterpretations
4. Lack of specificity
5. Formatting or structure issues
6. Best practices violations

%s`, CategoryContext(category))

	userPrompt := fmt.Sprintf(`Original Prompt:
%s

Deconstruction:
%s

Identify all issues and weaknesses in this prompt. Be specific and actionable.`, rawPrompt, deconstruction)

	return rt.Invoke(ctx, Call{
		Role:         RoleDiagnoser,
		UserPrompt:   userPrompt,
		SystemPrompt: systemPrompt,
		Category:     string(category),
		Operation:    "diagnose",
	})
}

// PreliminaryDiagnose runs a quick, context-free diagnosis that can execute concurrently
// with Deconstruct in the parallel dispatch branch. Its output is advisory and discarded
// once the full Diagnose runs.
func (rt *Runtime) PreliminaryDiagnose(ctx context.Context, rawPrompt string, category Category) llm.RoleOutput {
	systemPrompt := fmt.Sprintf(`Provide a quick preliminary analysis of this %s prompt.

Identify obvious issues like:
- Missing critical information
- Unclear instructions
- Lack of specificity

Keep it brief and actionable.`, category)

	userPrompt := "Quick preliminary analysis of this prompt:\n\n" + rawPrompt

	return rt.Invoke(ctx, Call{
		Role:         RolePreliminaryDiagnoser,
		UserPrompt:   userPrompt,
		SystemPrompt: systemPrompt,
		Category:     string(category),
		Operation:    "diagnose_preliminary",
	})
}
