// Command enrichd runs the enrichment engine behind a small HTTP API,
// wiring mock or real providers depending on configuration.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"enrichcore/internal/aggregator"
	"enrichcore/internal/cache"
	"enrichcore/internal/cache/backend"
	backendlru "enrichcore/internal/cache/backend/lru"
	backendredis "enrichcore/internal/cache/backend/redis"
	"enrichcore/internal/config"
	"enrichcore/internal/costgovernor"
	"enrichcore/internal/executor"
	"enrichcore/internal/health"
	"enrichcore/internal/identity"
	"enrichcore/internal/keymanager"
	keystorememory "enrichcore/internal/keymanager/store/memory"
	keystoreredis "enrichcore/internal/keymanager/store/redis"
	"enrichcore/internal/orchestrator"
	"enrichcore/internal/planner"
	"enrichcore/internal/providers"
	httpprovider "enrichcore/internal/providers/http"
	"enrichcore/internal/providers/mock"
	"enrichcore/internal/rowstore/static"
	"enrichcore/internal/smartenrich"
	"enrichcore/internal/synthesizer"
	"enrichcore/internal/textgen"
	"enrichcore/internal/textgen/anthropic"
	"enrichcore/internal/textgen/stub"
	loggerpkg "enrichcore/internal/platform/logger"
	"enrichcore/internal/platform/httpserver"
	metricspkg "enrichcore/internal/platform/metrics"
	"enrichcore/internal/platform/tracing"
	"enrichcore/pkg/domain"
	dErrors "enrichcore/pkg/domainerrors"
	"enrichcore/pkg/platform/circuit"
	"enrichcore/pkg/platform/coalesce"
	"enrichcore/pkg/platform/httputil"
	"enrichcore/pkg/platform/middleware/metadata"
	"enrichcore/pkg/requestcontext"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := loggerpkg.New(cfg.LogLevel)
	metricspkg.New()

	_, shutdownTracing, err := tracing.NewProvider(context.Background(), "enrichd")
	if err != nil {
		log.Warn("tracing setup failed, spans will not be recorded", "error", err)
	}

	orch, rows := build(cfg, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metadata.ClientMetadata)
	r.Post("/enrich", enrichHandler(orch, log))

	seedDemoRow(rows)

	srv := httpserver.New(cfg.Addr, r)
	go func() {
		log.Info("enrichd listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if shutdownTracing != nil {
		_ = shutdownTracing(ctx)
	}
}

// Enricher is the narrow interface enrichHandler depends on, so handler
// tests can substitute a mock instead of standing up the full pipeline.
type Enricher interface {
	Enrich(ctx context.Context, tableID domain.TableID, rowID domain.RowID, fieldsToEnrich []string, opts orchestrator.Options) domain.EnrichResult
}

type enrichRequest struct {
	TableID        string   `json:"tableId"`
	RowID          string   `json:"rowId"`
	FieldsToEnrich []string `json:"fieldsToEnrich"`
	BudgetCents    int      `json:"budgetCents"`
	Mode           string   `json:"mode"`
}

func enrichHandler(orch Enricher, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enrichRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body"))
			return
		}

		tableID, err := domain.ParseTableID(req.TableID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		rowID, err := domain.ParseRowID(req.RowID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		budget := req.BudgetCents
		if budget == 0 {
			budget = 10
		}

		ctx := requestcontext.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		log.InfoContext(ctx, "enrich request", "client_ip", metadata.GetClientIP(ctx), "row_id", rowID.String())

		result := orch.Enrich(ctx, tableID, rowID, req.FieldsToEnrich, orchestrator.Options{
			BudgetCents: budget, Mode: domain.VerifyMode(req.Mode),
		})
		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

// build wires every collaborator per configuration: shared-store adapters
// when SHARED_STORE_URL is set, the mock provider set or the real
// peoplesearch driver per UseMockProviders, the Anthropic generator when its
// API key is set, and in-process equivalents otherwise.
func build(cfg config.Config, log *slog.Logger) (*orchestrator.Orchestrator, *static.Store) {
	registry := providers.NewRegistry()

	var keyStore keymanager.Store = keystorememory.New()
	var cacheShared backend.Backend
	if cfg.SharedStoreURL != "" {
		if s, err := keystoreredis.New(cfg.SharedStoreURL); err == nil {
			keyStore = s
		} else {
			log.Warn("shared key store unavailable, using in-process state", "error", err)
		}
		if b, err := backendredis.New(cfg.SharedStoreURL); err == nil {
			cacheShared = b
		} else {
			log.Warn("shared cache backend unavailable, using LRU only", "error", err)
		}
	}

	localCache, _ := backendlru.New(cfg.CacheMaxMemoryEntries)
	c := cache.New(cacheShared, localCache, log,
		cache.WithDefaultTTL(cfg.CacheDefaultTTLSeconds),
		cache.WithNegativeTTL(cfg.CacheNegativeTTLSeconds),
		cache.WithVersion(int64(cfg.CacheVersion)),
	)

	keys := map[domain.ProviderID][]string{
		"peoplesearch":   config.ProviderKeys(cfg.PeoplesearchAPIKey),
		"hunter":         config.ProviderKeys(cfg.HunterAPIKey),
		"opencorporates": config.ProviderKeys(cfg.OpencorporatesAPIKey),
	}
	keyMgr := keymanager.New(keyStore, log, keys)

	if cfg.UseMockProviders {
		for _, p := range mock.Registerables() {
			registry.Register(p)
		}
	} else {
		registry.Register(httpprovider.NewPeopleSearch(keyMgr, ""))
	}
	registry.Register(smartenrich.New(smartenrich.NewMockSearcher(), smartenrich.NewMockFetcher()))

	breakerPool := health.New(
		circuit.WithFailureThreshold(cfg.CircuitBreakerFailureThreshold),
		circuit.WithSuccessThreshold(cfg.CircuitBreakerSuccessThreshold),
		circuit.WithResetTimeout(time.Duration(cfg.CircuitBreakerResetTimeoutMs)*time.Millisecond),
		circuit.WithRollingWindow(time.Duration(cfg.CircuitBreakerWindowMs)*time.Millisecond, cfg.CircuitBreakerMinimumRequests),
	)

	governor := costgovernor.New(cfg.MaxCostPerCellCents*1000, cfg.MaxCostPerCellCents)
	coalescer := coalesce.New(nil)

	plannerSvc := planner.New(registry, breakerPool)
	execSvc := executor.New(registry, c, breakerPool, governor, coalescer, executor.Config{
		MaxConcurrentProbes: cfg.ParallelProbesMaxConcurrent,
		ProbeTimeout:        time.Duration(cfg.ParallelProbesTimeoutMs) * time.Millisecond,
		EnsembleFusion:      cfg.EnsembleFusionEnabled,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
	}, log)

	var generator textgen.Generator
	if cfg.AnthropicAPIKey != "" {
		generator = anthropic.New(cfg.AnthropicAPIKey, anthropicsdk.Model(cfg.AnthropicModel))
	} else {
		generator = stub.New()
	}
	synth := synthesizer.New(generator)

	rows := static.New()
	resolver := identity.New()
	agg := aggregator.New()

	orch := orchestrator.New(rows, resolver, plannerSvc, execSvc, agg, governor, synth, breakerPool, registry, log)
	return orch, rows
}

func seedDemoRow(rows *static.Store) {
	tableID := domain.NewTableID()
	rowID := domain.NewRowID()
	rows.Put(tableID, rowID, domain.RawRow{"company": "Reddit"})
}
