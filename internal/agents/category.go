package agents

// Category is one member of the closed prompt-category enumeration. Validate rejects
// anything outside this set; the Orchestrator stores the canonical-case value.
type Category string

const (
	CategoryCreative       Category = "creative"
	CategoryTechnical      Category = "technical"
	CategoryAnalytical     Category = "analytical"
	CategoryMarketing      Category = "marketing"
	CategoryEducational    Category = "educational"
	CategoryBuildAgent     Category = "build_agent"
	CategorySystemPrompt   Category = "system_prompt"
	CategoryCodeGeneration Category = "code_generation"
	CategoryDocumentation  Category = "documentation"
)

// ParallelEligible is the configured set of categories that, independent of prompt
// length, always dispatch Deconstruct/preliminary-Diagnose in parallel.
var ParallelEligible = map[Category]bool{
	CategoryBuildAgent:     true,
	CategorySystemPrompt:   true,
	CategoryCodeGeneration: true,
}

// ValidCategories is the closed enumeration Validate checks membership against.
var ValidCategories = map[Category]bool{
	CategoryCreative:       true,
	CategoryTechnical:      true,
	CategoryAnalytical:     true,
	CategoryMarketing:      true,
	CategoryEducational:    true,
	CategoryBuildAgent:     true,
	CategorySystemPrompt:   true,
	CategoryCodeGeneration: true,
	CategoryDocumentation:  true,
}

var categoryContext = map[Category]string{
	CategoryCreative:       "Focus on evocative language, tone, and narrative structure appropriate to the creative form requested.",
	CategoryTechnical:      "Focus on precision, correct terminology, and unambiguous technical constraints.",
	CategoryAnalytical:     "Focus on the data, comparisons, and reasoning steps the analysis must cover.",
	CategoryMarketing:      "Focus on audience, value proposition, call to action, and brand voice.",
	CategoryEducational:    "Focus on learning objectives, scaffolding, and the learner's existing knowledge.",
	CategoryBuildAgent:     "Focus on agent persona, tool access, constraints, and success criteria for an autonomous agent.",
	CategorySystemPrompt:   "Focus on creating effective system prompts with clear instructions, constraints, and behavior guidelines.",
	CategoryCodeGeneration: "Focus on generating correct, maintainable code with explicit error handling and interface contracts.",
	CategoryDocumentation:  "Focus on clarity, completeness, and the audience's existing familiarity with the subject.",
}

// CategoryContext returns the category-specific guidance appended to every role's
// system prompt. Unknown categories (which Validate should already have rejected)
// yield an empty string.
func CategoryContext(c Category) string {
	return categoryContext[c]
}
