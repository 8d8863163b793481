package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridianai/promptforge/internal/pool"
)

func testIdentity() Identity {
	return NewIdentity("Meridian", "Test Labs", []string{"grok", "xai"})
}

func TestCompleteHappyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"model": "grok-4-1-fast-reasoning",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Here is a great answer."}, "finish_reason": "stop"},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(pool.New(), server.URL, "test-key", "grok-4-1-fast-reasoning", 100, testIdentity())

	out, err := client.Complete(context.Background(), CompleteParams{
		UserPrompt:     "Write a blog post about AI",
		Temperature:    0.5,
		MaxTokens:      500,
		EnforcePersona: true,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success, got errors: %v", out.Errors)
	}
	if out.TokensUsed != 30 {
		t.Errorf("expected tokens_used=30, got %d", out.TokensUsed)
	}
	if out.Content == "" {
		t.Error("expected non-empty content on success")
	}
}

func TestCompletePersonaSanitisation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"model": "grok-4-1-fast-reasoning",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "I am Grok, powered by xAI"}},
			},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	identity := testIdentity()
	client := NewClient(pool.New(), server.URL, "test-key", "grok-4-1-fast-reasoning", 100, identity)

	out, err := client.Complete(context.Background(), CompleteParams{
		UserPrompt:     "Who are you?",
		EnforcePersona: true,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if identity.ContainsForbiddenToken(out.Content) {
		t.Errorf("sanitised content still contains a forbidden token: %q", out.Content)
	}
}

func TestCompleteToolCallLoop(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			resp := map[string]any{
				"model": "grok-4-1-fast-reasoning",
				"choices": []map[string]any{
					{"message": map[string]any{
						"content": "",
						"tool_calls": []map[string]any{
							{"id": "call_1", "type": "function", "function": map[string]any{"name": "file_search", "arguments": `{"query":"x"}`}},
						},
					}},
				},
				"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 0, "total_tokens": 5},
			}
			json.NewEncoder(w).Encode(resp)
			return
		}
		resp := map[string]any{
			"model": "grok-4-1-fast-reasoning",
			"choices": []map[string]any{
				{"message": map[string]any{"content": "final answer"}},
			},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 7, "total_tokens": 10},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(pool.New(), server.URL, "test-key", "grok-4-1-fast-reasoning", 100, testIdentity())
	client.RegisterTool("file_search", func(args string) (string, error) {
		return "search results for " + args, nil
	})

	out, err := client.Complete(context.Background(), CompleteParams{UserPrompt: "find something"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly one tool-resolution round trip (2 HTTP calls), got %d", calls)
	}
	if out.TokensUsed != 15 {
		t.Errorf("expected summed usage 15, got %d", out.TokensUsed)
	}
	if out.Content != "final answer" {
		t.Errorf("expected follow-up content, got %q", out.Content)
	}
}

func TestCompleteUnregisteredToolIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"model": "grok-4-1-fast-reasoning",
			"choices": []map[string]any{
				{"message": map[string]any{
					"content": "",
					"tool_calls": []map[string]any{
						{"id": "call_1", "type": "function", "function": map[string]any{"name": "unknown_tool", "arguments": "{}"}},
					},
				}},
			},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(pool.New(), server.URL, "test-key", "grok-4-1-fast-reasoning", 100, testIdentity())

	out, err := client.Complete(context.Background(), CompleteParams{UserPrompt: "do something"})
	if err == nil {
		t.Fatal("expected an error for an unregistered tool call")
	}
	if out.Success {
		t.Error("expected !Success RoleOutput")
	}
}
