// Package app wires the core's components together in the order prescribed by the
// re-architecture guidance: config -> metrics -> store -> cache -> pool -> breaker ->
// ledger -> orchestrator, invoked once from main rather than via import-time side
// effects.
package app

import (
	"time"

	"github.com/meridianai/promptforge/internal/agents"
	"github.com/meridianai/promptforge/internal/breaker"
	"github.com/meridianai/promptforge/internal/cache"
	"github.com/meridianai/promptforge/internal/config"
	"github.com/meridianai/promptforge/internal/cost"
	"github.com/meridianai/promptforge/internal/llm"
	"github.com/meridianai/promptforge/internal/metrics"
	"github.com/meridianai/promptforge/internal/orchestrator"
	"github.com/meridianai/promptforge/internal/pool"
	"github.com/meridianai/promptforge/internal/store"
)

// cacheTTL is the default TTL for model-response cache entries (§3, Cache entry).
const cacheTTL = 3600 * time.Second

// identityForbiddenTokens is the fixed set of underlying-model identity tokens the
// persona sanitiser rewrites, independent of which upstream model actually served
// the response.
var identityForbiddenTokens = []string{"grok", "xai", "x.ai", "openai", "gpt", "anthropic", "claude"}

// App bundles every constructed, wired component a CLI subcommand needs.
type App struct {
	Config       *config.Config
	Metrics      *metrics.Registry
	Store        store.Store
	Cache        *cache.Cache
	Pool         *pool.Pool
	Breaker      *breaker.Breaker
	Ledger       *cost.Ledger
	Client       *llm.Client
	Runtime      *agents.Runtime
	Orchestrator *orchestrator.Orchestrator
}

// Startup performs the full ordered construction. It is the only place component
// wiring happens; nothing in this module registers import-time side effects.
func Startup(cfg *config.Config) (*App, error) {
	reg := metrics.New()

	backingStore := store.NewInMemory()

	responseCache := cache.New(10_000, cfg.CachePersistPath)

	connPool := pool.New()

	circuitBreaker := breaker.New("xai-upstream")

	ledger := cost.New(cost.DefaultPricingTable())

	identity := llm.NewIdentity("Meridian", "Meridian AI", identityForbiddenTokens)
	client := llm.NewClient(connPool, cfg.XAIAPIBase, cfg.XAIAPIKey, cfg.XAIModel, cfg.UpstreamRateLimitRPS, identity)

	runtime := &agents.Runtime{
		Client:   client,
		Cache:    responseCache,
		Breaker:  circuitBreaker,
		Ledger:   ledger,
		Metrics:  reg,
		Configs:  agents.DefaultRoleConfigs(),
		CacheTTL: cacheTTL,
	}

	orch := orchestrator.New(runtime, reg)

	return &App{
		Config:       cfg,
		Metrics:      reg,
		Store:        backingStore,
		Cache:        responseCache,
		Pool:         connPool,
		Breaker:      circuitBreaker,
		Ledger:       ledger,
		Client:       client,
		Runtime:      runtime,
		Orchestrator: orch,
	}, nil
}

// HealthStatus computes the §4.11 health probe from the app's current state.
func (a *App) HealthStatus() metrics.HealthStatus {
	upstreamConfigured := a.Config.XAIAPIKey != "" && a.Config.XAIAPIBase != ""
	return metrics.Probe(a.Store.Reachable(), upstreamConfigured, a.Breaker.State())
}
