package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/meridianai/promptforge/internal/errs"
	"github.com/meridianai/promptforge/internal/pool"
)

// ErrUnregisteredTool is the Parse-kind failure surfaced when the model requests a tool
// with no registered handler. Per the resolved Open Question, unknown tool calls are
// reported rather than echoed back as a fabricated "executed" result.
var ErrUnregisteredTool = errors.New("unregistered tool call")

// CompleteParams is the input to a single Model Client call.
type CompleteParams struct {
	UserPrompt     string
	SystemPrompt   string
	Temperature    float64
	MaxTokens      int
	Tools          []ToolDefinition
	ToolChoice     string
	EnforcePersona bool
}

// ToolHandler resolves a tool call the core itself knows how to execute.
type ToolHandler func(args string) (string, error)

// Client is the Model Client: one chat-completion round trip, plus at most one
// tool-resolution leg, against the upstream endpoint, sitting on top of the Connection
// Pool and gated by an independent request-rate limiter.
type Client struct {
	pool         *pool.Pool
	limiter      *rate.Limiter
	baseURL      string
	apiKey       string
	model        string
	identity     Identity
	toolHandlers map[string]ToolHandler
}

// NewClient constructs a Model Client. rps bounds sustained request rate independently
// of the pool's in-flight concurrency cap.
func NewClient(p *pool.Pool, baseURL, apiKey, model string, rps float64, identity Identity) *Client {
	burst := int(rps) + 1
	return &Client{
		pool:         p,
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
		baseURL:      baseURL,
		apiKey:       apiKey,
		model:        model,
		identity:     identity,
		toolHandlers: make(map[string]ToolHandler),
	}
}

// RegisterTool installs a handler for a named tool. Calls to unregistered tools surface
// as a Parse-kind error instead of a synthetic "executed" echo.
func (c *Client) RegisterTool(name string, handler ToolHandler) {
	c.toolHandlers[name] = handler
}

// Complete issues the chat-completion call described by p, resolving at most one round
// of tool calls, and sanitising the response when EnforcePersona is set. On failure it
// returns a !Success RoleOutput alongside the classified error; an empty final content
// is reported as a Parse-kind failure.
func (c *Client) Complete(ctx context.Context, p CompleteParams) (RoleOutput, error) {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		wrapped := errs.New(errs.Transient, fmt.Errorf("rate limiter wait: %w", err), false)
		return failure(start, wrapped), wrapped
	}

	systemPrompt := p.SystemPrompt
	if p.EnforcePersona {
		systemPrompt = c.identity.envelopeSystemPrompt(p.SystemPrompt)
	}

	messages := make([]Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: p.UserPrompt})

	req := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Tools:       p.Tools,
		ToolChoice:  p.ToolChoice,
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return failure(start, err), err
	}

	content, toolCalls, tokenUsage, _ := unpackChoice(resp)
	model := resp.Model

	if len(toolCalls) > 0 {
		resolved, resolveErr := c.resolveToolCalls(toolCalls)
		if resolveErr != nil {
			return failure(start, resolveErr), resolveErr
		}

		followUp := append(append([]Message{}, messages...), Message{Role: "assistant", Content: content})
		for i, call := range toolCalls {
			followUp = append(followUp, Message{Role: "tool", Content: resolved[i]})
			_ = call
		}
		req.Messages = followUp

		secondResp, err := c.send(ctx, req)
		if err != nil {
			return failure(start, err), err
		}
		secondContent, _, secondUsage, _ := unpackChoice(secondResp)
		content = secondContent
		model = secondResp.Model
		tokenUsage.PromptTokens += secondUsage.PromptTokens
		tokenUsage.CompletionTokens += secondUsage.CompletionTokens
		tokenUsage.TotalTokens += secondUsage.TotalTokens
	}

	if content == "" {
		emptyErr := errs.New(errs.Parse, errors.New("upstream returned empty content"), false)
		return failure(start, emptyErr), emptyErr
	}

	if p.EnforcePersona {
		content = c.identity.sanitize(content)
	}

	return RoleOutput{
		Success:          true,
		Content:          content,
		TokensUsed:       tokenUsage.TotalTokens,
		PromptTokens:     tokenUsage.PromptTokens,
		CompletionTokens: tokenUsage.CompletionTokens,
		Model:            model,
		DurationMs:       time.Since(start).Milliseconds(),
	}, nil
}

func failure(start time.Time, err error) RoleOutput {
	return RoleOutput{
		Success:    false,
		DurationMs: time.Since(start).Milliseconds(),
		Errors:     []string{err.Error()},
	}
}

func (c *Client) resolveToolCalls(calls []ToolCall) ([]string, error) {
	results := make([]string, len(calls))
	for i, call := range calls {
		handler, ok := c.toolHandlers[call.Function.Name]
		if !ok {
			return nil, errs.New(errs.Parse, fmt.Errorf("%w: %s", ErrUnregisteredTool, call.Function.Name), false)
		}
		result, err := handler(call.Function.Arguments)
		if err != nil {
			return nil, errs.New(errs.Parse, fmt.Errorf("tool %q failed: %w", call.Function.Name, err), false)
		}
		results[i] = result
	}
	return results, nil
}

func (c *Client) send(ctx context.Context, req ChatRequest) (*chatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errs.New(errs.Transient, fmt.Errorf("encode request: %w", err), false)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errs.New(errs.Transient, fmt.Errorf("build request: %w", err), false)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.pool.Send(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		raw, _ := io.ReadAll(httpResp.Body)
		return nil, errs.New(errs.Transient, fmt.Errorf("upstream returned HTTP %d: %s", httpResp.StatusCode, string(raw)), true)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return nil, errs.New(errs.Transient, fmt.Errorf("decode response: %w", err), true)
	}
	return &decoded, nil
}
