// Package agents implements the Role Agents: immutable adapters around the Model
// Client (Deconstructor, Diagnoser with its preliminary variant, Designer, Sampler,
// Evaluator), each issuing one chat-completion call with a role-specific system
// prompt, composed through the Cache -> Retry -> Circuit Breaker -> Model Client
// reliability envelope.
package agents

import (
	"context"
	"time"

	"github.com/meridianai/promptforge/internal/cache"
	"github.com/meridianai/promptforge/internal/cost"
	"github.com/meridianai/promptforge/internal/errs"
	"github.com/meridianai/promptforge/internal/llm"
	"github.com/meridianai/promptforge/internal/metrics"
	"github.com/meridianai/promptforge/internal/retry"
)

// Role identifies one of the five pipeline roles plus the preliminary-diagnose variant.
type Role string

const (
	RoleDeconstructor        Role = "deconstructor"
	RoleDiagnoser            Role = "diagnoser"
	RolePreliminaryDiagnoser Role = "diagnoser_preliminary"
	RoleDesigner             Role = "designer"
	RoleSampler              Role = "sampler"
	RoleEvaluator            Role = "evaluator"
)

// RoleConfig is an immutable per-role value: temperature and token budget, frozen at
// construction. Per the re-architecture guidance, the Orchestrator holds a
// map[Role]RoleConfig rather than agents that mutate their own defaults at runtime.
type RoleConfig struct {
	Temperature float64
	MaxTokens   int
}

// DefaultRoleConfigs mirrors the original per-agent default_temperature/default_max_tokens
// values. They are fixed when the Runtime is built; a request cannot override them.
func DefaultRoleConfigs() map[Role]RoleConfig {
	return map[Role]RoleConfig{
		RoleDeconstructor:        {Temperature: 0.5, MaxTokens: 1500},
		RoleDiagnoser:            {Temperature: 0.4, MaxTokens: 1500},
		RolePreliminaryDiagnoser: {Temperature: 0.4, MaxTokens: 800},
		RoleDesigner:             {Temperature: 0.8, MaxTokens: 2000},
		RoleSampler:              {Temperature: 0.7, MaxTokens: 1000},
		RoleEvaluator:            {Temperature: 0.3, MaxTokens: 1000},
	}
}

// Runtime bundles the reliability envelope shared by every Role Agent call: cache,
// retry policy, circuit breaker, model client, cost ledger and metrics. It carries no
// per-request mutable state; the Orchestrator owns that.
type Runtime struct {
	Client    *llm.Client
	Cache     *cache.Cache
	Breaker   Breaker
	Ledger    *cost.Ledger
	Metrics   *metrics.Registry
	Configs   map[Role]RoleConfig
	CacheTTL  time.Duration
}

// Breaker is the subset of internal/breaker.Breaker a Role Agent call needs.
type Breaker interface {
	Execute(fn func() (interface{}, error)) (interface{}, error)
}

// Call describes one role invocation: the role identity (for config lookup, cache
// fingerprinting and cost attribution), the prompts to send, and an optional retry
// policy. A zero RetryConfig means the call is attempted at most once.
type Call struct {
	Role         Role
	UserPrompt   string
	SystemPrompt string
	Category     string
	Tools        []llm.ToolDefinition
	RetryCfg     *retry.Config
	Operation    string
}

// Invoke runs one Role Agent call through Cache -> Retry -> Circuit Breaker -> Model
// Client, recording cost and metrics on success. It always returns a RoleOutput
// satisfying the data model invariant success=>content!="" and !success=>errors!=[].
func (rt *Runtime) Invoke(ctx context.Context, call Call) llm.RoleOutput {
	cfg, ok := rt.Configs[call.Role]
	if !ok {
		cfg = RoleConfig{Temperature: 0.5, MaxTokens: 1500}
	}

	key := cache.Fingerprint(string(call.Role), call.UserPrompt, call.SystemPrompt)
	if cached, hit := rt.Cache.Get(key); hit {
		rt.Metrics.IncCacheHit()
		return cached
	}

	var out llm.RoleOutput
	attempt := func() error {
		result, err := rt.Breaker.Execute(func() (interface{}, error) {
			return rt.Client.Complete(ctx, llm.CompleteParams{
				UserPrompt:     call.UserPrompt,
				SystemPrompt:   call.SystemPrompt,
				Temperature:    cfg.Temperature,
				MaxTokens:      cfg.MaxTokens,
				Tools:          call.Tools,
				EnforcePersona: true,
			})
		})
		if err != nil {
			if errs.Is(err, errs.OpenCircuitKind) {
				rt.Metrics.IncCircuitOpenRejection()
			}
			return err
		}
		out = result.(llm.RoleOutput)
		return nil
	}

	var err error
	if call.RetryCfg != nil {
		err = retry.Run(ctx, *call.RetryCfg, attempt)
	} else {
		err = attempt()
	}
	rt.Metrics.ObserveRoleDuration(string(call.Role), time.Duration(out.DurationMs)*time.Millisecond)

	if err != nil {
		return llm.RoleOutput{Success: false, Errors: []string{err.Error()}}
	}

	rt.Cache.Put(key, out, rt.CacheTTL)
	if out.Model != "" {
		rt.Ledger.Record(out.Model, out.PromptTokens, out.CompletionTokens, call.Operation, call.Category)
	}
	return out
}
