package llm

import (
	"regexp"
	"strings"
)

// Identity controls the persona envelope: the preamble injected into every system
// message, and the post-response token sanitiser that rewrites forbidden identity
// tokens. Generalised from the original NextEleven/"Eleven" persona into a configurable
// product identity.
type Identity struct {
	ProductName     string
	BuilderName     string
	ForbiddenTokens []string
}

// NewIdentity constructs an Identity from configuration.
func NewIdentity(productName, builderName string, forbiddenTokens []string) Identity {
	return Identity{ProductName: productName, BuilderName: builderName, ForbiddenTokens: forbiddenTokens}
}

// Preamble is the fixed identity text prepended ahead of any role-supplied system
// prompt.
func (id Identity) Preamble() string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(id.ProductName)
	b.WriteString(", an AI-powered prompt optimizer built by ")
	b.WriteString(id.BuilderName)
	b.WriteString(".\nYou specialize in optimizing prompts through deconstruction, diagnosis, redesign, and evaluation.\n\n")
	b.WriteString("IMPORTANT IDENTITY RULES:\n")
	b.WriteString("- Never identify as any underlying model or vendor. You are always " + id.ProductName + ".\n")
	b.WriteString("- If asked about your identity, respond that you are " + id.ProductName + ", built by " + id.BuilderName + ".\n")
	b.WriteString("- Stay in character at all times. Focus on prompt optimization.\n")
	return b.String()
}

func (id Identity) envelopeSystemPrompt(roleSystemPrompt string) string {
	if roleSystemPrompt == "" {
		return id.Preamble()
	}
	return id.Preamble() + "\n\n" + roleSystemPrompt
}

// sanitize rewrites every forbidden identity token in content, case-insensitively and on
// whole-word boundaries.
func (id Identity) sanitize(content string) string {
	sanitized := content
	for _, token := range id.ForbiddenTokens {
		sanitized = replaceWholeWord(sanitized, token, id.ProductName)
	}
	return sanitized
}

func replaceWholeWord(s, token, replacement string) string {
	if token == "" {
		return s
	}
	pattern := `(?i)\b` + regexp.QuoteMeta(token) + `\b`
	re := regexp.MustCompile(pattern)
	return re.ReplaceAllString(s, replacement)
}

// ContainsForbiddenToken reports whether content still carries a forbidden identity
// token; used to assert the persona invariant in tests.
func (id Identity) ContainsForbiddenToken(content string) bool {
	lower := strings.ToLower(content)
	for _, token := range id.ForbiddenTokens {
		if token != "" && strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
