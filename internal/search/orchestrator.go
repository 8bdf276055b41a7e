package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxResults = 10
	DefaultTimeout    = 15 * time.Second

	MinResultsPerEngine = 1
	MaxResultsPerEngine = 50
	MinTimeout          = 1 * time.Second
	MaxTimeout          = 60 * time.Second
)

// Options controls one orchestrated search.
type Options struct {
	// EnabledEngines selects which engines to query, in merge order.
	// Empty means every available engine, in configured order.
	EnabledEngines []string
	// MaxResultsPerEngine is forwarded to each engine, clamped to [1,50].
	MaxResultsPerEngine int
	// Timeout is the shared deadline for the whole fan-out, in [1s,60s].
	Timeout time.Duration
	// FailFast aborts the whole search on the first engine failure instead
	// of dropping the failed engine and carrying on.
	FailFast bool
	// Overrides carries engine-specific options, forwarded verbatim.
	Overrides map[string]any
}

func (o *Options) normalize() error {
	if o.MaxResultsPerEngine == 0 {
		o.MaxResultsPerEngine = DefaultMaxResults
	}
	if o.MaxResultsPerEngine < MinResultsPerEngine || o.MaxResultsPerEngine > MaxResultsPerEngine {
		return fmt.Errorf("%w: max_results_per_engine %d out of range [%d,%d]",
			ErrInvalidConfig, o.MaxResultsPerEngine, MinResultsPerEngine, MaxResultsPerEngine)
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Timeout < MinTimeout || o.Timeout > MaxTimeout {
		return fmt.Errorf("%w: timeout %s out of range [%s,%s]",
			ErrInvalidConfig, o.Timeout, MinTimeout, MaxTimeout)
	}
	return nil
}

// Orchestrator fans a query out to every enabled engine under one shared
// deadline and merges the per-engine result lists into a single ranked,
// de-duplicated sequence.
type Orchestrator struct {
	registry *Registry
	logger   *zap.Logger

	mu      sync.RWMutex
	engines map[string]Engine
	order   []string
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLogger sets the logger. Default is a nop logger.
func WithLogger(logger *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator builds an orchestrator from the configured engines.
// Engines that cannot run in the current environment (missing API key,
// unreachable dependency) are skipped silently so that callers can
// auto-enable whatever works; requesting one of them explicitly through
// Options.EnabledEngines still fails hard.
func NewOrchestrator(cfgs []EngineConfig, registry *Registry, opts ...OrchestratorOption) (*Orchestrator, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	o := &Orchestrator{
		registry: registry,
		logger:   zap.NewNop(),
		engines:  make(map[string]Engine, len(cfgs)),
	}
	for _, opt := range opts {
		opt(o)
	}

	for _, cfg := range cfgs {
		name := cfg.Name
		if name == "" {
			name = cfg.Type
		}
		eng, err := registry.Resolve(cfg.Type, cfg)
		if err != nil {
			o.logger.Debug("skipping engine",
				zap.String("engine", name), zap.Error(err))
			continue
		}
		if !eng.Available() {
			o.logger.Debug("engine unavailable", zap.String("engine", name))
			continue
		}
		o.engines[name] = eng
		o.order = append(o.order, name)
	}

	return o, nil
}

// AddEngine resolves and enables one engine at runtime.
func (o *Orchestrator) AddEngine(cfg EngineConfig) error {
	eng, err := o.registry.Resolve(cfg.Type, cfg)
	if err != nil {
		return err
	}
	name := cfg.Name
	if name == "" {
		name = cfg.Type
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.engines[name]; !ok {
		o.order = append(o.order, name)
	}
	o.engines[name] = eng
	return nil
}

// RemoveEngine disables an engine.
func (o *Orchestrator) RemoveEngine(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.engines[name]; !ok {
		return
	}
	delete(o.engines, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// EnabledEngines returns the enabled engine names in configured order.
func (o *Orchestrator) EnabledEngines() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Search queries every selected engine concurrently against a single shared
// deadline and returns the merged result. Outcomes are collected only after
// every engine has completed or timed out; merge order is fixed by engine
// order, never by completion order.
func (o *Orchestrator) Search(ctx context.Context, query string, opts Options) (*MergedResult, error) {
	start := time.Now()
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	engines, names, err := o.selectEngines(opts.EnabledEngines)
	if err != nil {
		return nil, err
	}
	if len(engines) == 0 {
		return nil, ErrNoEngines
	}

	qopts := QueryOptions{
		MaxResults: opts.MaxResultsPerEngine,
		Overrides:  opts.Overrides,
	}

	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	outcomes := make([]EngineOutcome, len(engines))
	g, gctx := errgroup.WithContext(cctx)
	for i, eng := range engines {
		g.Go(func() error {
			t0 := time.Now()
			resp, err := searchBounded(gctx, eng, query, qopts)
			elapsed := time.Since(t0)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = ErrEngineTimeout
				}
				engErr := &EngineError{Engine: names[i], Err: err}
				outcomes[i] = EngineOutcome{Engine: names[i], Err: engErr, Elapsed: elapsed}
				o.logger.Debug("engine failed",
					zap.String("engine", names[i]),
					zap.Duration("elapsed", elapsed),
					zap.Error(err))
				if opts.FailFast {
					return engErr
				}
				return nil
			}
			outcomes[i] = EngineOutcome{Engine: names[i], Response: resp, Elapsed: elapsed}
			return nil
		})
	}
	_ = g.Wait()

	if opts.FailFast {
		if failed := collectFailures(outcomes, true); len(failed) > 0 {
			return nil, &PartialFailureError{Failed: failed}
		}
	}

	succeeded := 0
	for _, out := range outcomes {
		if out.Response != nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		return nil, &AllEnginesFailedError{Causes: collectFailures(outcomes, false)}
	}

	merged := mergeOutcomes(query, outcomes, 0)
	merged.ResponseTime = time.Since(start)

	o.logger.Info("search complete",
		zap.String("query", query),
		zap.Int("engines", len(engines)),
		zap.Int("succeeded", succeeded),
		zap.Int("sources", len(merged.Sources)),
		zap.Duration("elapsed", merged.ResponseTime))

	return merged, nil
}

// selectEngines snapshots the engines to query, preserving configured order.
// Explicitly requested names that are not enabled fail hard.
func (o *Orchestrator) selectEngines(requested []string) ([]Engine, []string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if len(requested) == 0 {
		engines := make([]Engine, len(o.order))
		names := make([]string, len(o.order))
		for i, name := range o.order {
			engines[i] = o.engines[name]
			names[i] = name
		}
		return engines, names, nil
	}

	engines := make([]Engine, 0, len(requested))
	names := make([]string, 0, len(requested))
	for _, name := range requested {
		eng, ok := o.engines[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownEngine, name)
		}
		engines = append(engines, eng)
		names = append(names, name)
	}
	return engines, names, nil
}

// searchBounded runs one engine call, returning as soon as ctx expires even
// if the engine ignores cancellation. A late completion is discarded.
func searchBounded(ctx context.Context, eng Engine, query string, opts QueryOptions) (*SearchResponse, error) {
	type result struct {
		resp *SearchResponse
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := eng.Search(ctx, query, opts)
		ch <- result{resp, err}
	}()
	select {
	case r := <-ch:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// collectFailures gathers per-engine errors. When skipAborted is set,
// engines that were merely cancelled by a fail-fast abort are excluded so
// the reported causes name only the engines that genuinely failed.
func collectFailures(outcomes []EngineOutcome, skipAborted bool) []*EngineError {
	var failed []*EngineError
	for _, out := range outcomes {
		if out.Err == nil {
			continue
		}
		var engErr *EngineError
		if !errors.As(out.Err, &engErr) {
			engErr = &EngineError{Engine: out.Engine, Err: out.Err}
		}
		if skipAborted && errors.Is(engErr.Err, context.Canceled) {
			continue
		}
		failed = append(failed, engErr)
	}
	return failed
}
