// Package llm implements the Model Client: a single chat-completion round trip against
// the upstream endpoint, the tool-resolution loop, and the persona envelope.
package llm

// Message is one entry in a chat-completion request's message list.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolDefinition is passed through to the upstream's `tools` field unmodified.
type ToolDefinition struct {
	Type     string                 `json:"type"`
	Function ToolFunctionDefinition `json:"function"`
}

// ToolFunctionDefinition describes one callable tool the model may invoke.
type ToolFunctionDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters,omitempty"`
}

// ToolCall is one invocation the model requested in its response.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction names the tool and carries its arguments as a raw JSON string.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatRequest is the wire body posted to {base}/chat/completions.
type ChatRequest struct {
	Model       string           `json:"model"`
	Messages    []Message        `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// RoleOutput is the result of a single role call. Invariant: Success implies Content is
// non-empty; !Success implies Errors is non-empty.
type RoleOutput struct {
	Success          bool     `json:"success"`
	Content          string   `json:"content"`
	TokensUsed       int      `json:"tokens_used"`
	PromptTokens     int      `json:"prompt_tokens"`
	CompletionTokens int      `json:"completion_tokens"`
	Model            string   `json:"model"`
	DurationMs       int64    `json:"duration_ms"`
	Errors           []string `json:"errors"`
}

type usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func unpackChoice(resp *chatCompletionResponse) (string, []ToolCall, usage, string) {
	if len(resp.Choices) == 0 {
		return "", nil, usage{}, ""
	}
	choice := resp.Choices[0]
	return choice.Message.Content, choice.Message.ToolCalls, usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, choice.FinishReason
}
