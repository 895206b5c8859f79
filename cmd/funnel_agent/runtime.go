package main

import (
	"context"
	"fmt"

	"github.com/jonathan/hiring-funnel/internal/aggregation"
	"github.com/jonathan/hiring-funnel/internal/analysis"
	"github.com/jonathan/hiring-funnel/internal/cache"
	"github.com/jonathan/hiring-funnel/internal/config"
	"github.com/jonathan/hiring-funnel/internal/llm"
	"github.com/jonathan/hiring-funnel/internal/logger"
	"github.com/jonathan/hiring-funnel/internal/metrics"
	"github.com/jonathan/hiring-funnel/internal/rewriting"
	"go.uber.org/zap"
)

// loadConfig reads the config file (if any) plus env overrides and applies the logging flags.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.jsonLogs {
		cfg.Logging.JSON = true
	}
	if opts.debug {
		cfg.Logging.Debug = true
	}
	return cfg, nil
}

// buildAnalyzer wires the analyzer and, when llm.enabled is set, the explanation rewriter
// with its Gemini client and Redis cache. The returned cleanup releases both.
func buildAnalyzer(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*analysis.Analyzer, func(), error) {
	log = logger.OrNop(log)

	policy, err := aggregation.ParseFloorPolicy(cfg.Scoring.FloorPolicy)
	if err != nil {
		return nil, nil, err
	}
	opts := []analysis.Option{
		analysis.WithLogger(log),
		analysis.WithFloorPolicy(policy),
		analysis.WithMetrics(m),
	}

	if !cfg.LLM.Enabled {
		return analysis.New(opts...), func() {}, nil
	}

	tier, err := llm.ParseTier(cfg.LLM.Tier)
	if err != nil {
		return nil, nil, err
	}
	llmCfg := llm.DefaultConfig()
	if cfg.LLM.Timeout > 0 {
		llmCfg.Timeout = cfg.LLM.Timeout
	}
	if cfg.LLM.Model != "" {
		llmCfg = llmCfg.WithModel(tier, cfg.LLM.Model)
	}

	client, err := llm.NewGeminiClient(ctx, llmCfg, cfg.LLM.APIKey, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	client.SetMaxLogLength(cfg.LLM.MaxLogLength)

	store, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		log.Warn("rewrite cache unavailable, continuing without it", zap.String("addr", cfg.Cache.Addr), zap.Error(err))
		store = cache.NopStore{}
	}

	rewriter := rewriting.New(client,
		rewriting.WithCache(store),
		rewriting.WithTier(tier),
		rewriting.WithLogger(log),
		rewriting.WithMetrics(m),
	)
	log.Info("explanation rewriter enabled", zap.String(logger.FieldModel, client.GetModel(tier)))

	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Debug("failed to close cache", zap.Error(err))
		}
		if err := client.Close(); err != nil {
			log.Debug("failed to close LLM client", zap.Error(err))
		}
	}
	return analysis.New(append(opts, analysis.WithEnhancer(rewriter))...), cleanup, nil
}
