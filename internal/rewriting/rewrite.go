// Package rewriting rewords deterministic stage explanations with a language model.
// Only prose is taken from the model; scores, probabilities and recommendations are never changed.
package rewriting

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/jonathan/hiring-funnel/internal/cache"
	"github.com/jonathan/hiring-funnel/internal/llm"
	"github.com/jonathan/hiring-funnel/internal/logger"
	"github.com/jonathan/hiring-funnel/internal/metrics"
	"github.com/jonathan/hiring-funnel/internal/prompts"
	"github.com/jonathan/hiring-funnel/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Rewriter enhances explanations through an llm.Client.
type Rewriter struct {
	client  llm.Client
	store   cache.Store
	tier    llm.ModelTier
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithCache stores rewrites in s.
func WithCache(s cache.Store) Option {
	return func(r *Rewriter) { r.store = s }
}

// WithTier selects the model tier used for rewrites.
func WithTier(t llm.ModelTier) Option {
	return func(r *Rewriter) { r.tier = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Rewriter) { r.log = logger.OrNop(l) }
}

// WithMetrics records rewrite outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Rewriter) { r.metrics = m }
}

// New creates a Rewriter. Without WithCache every call goes to the model.
func New(client llm.Client, opts ...Option) *Rewriter {
	r := &Rewriter{
		client: client,
		store:  cache.NopStore{},
		tier:   llm.TierStandard,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// stageRewrite is the vetted model output for one stage.
type stageRewrite struct {
	stage types.Stage
	resp  response
}

// Enhance returns a copy of the result's explanation with reworded stage summaries and an
// enhanced block per stage. On any failure it returns an unmodified copy and a *RewriteError.
func (r *Rewriter) Enhance(ctx context.Context, result *types.AnalysisResult) (*types.Explanation, error) {
	original := cloneExplanation(&result.Explanation)
	inputs := BuildInputs(result)

	rewrites := make([]stageRewrite, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			resp, err := r.rewriteStage(gctx, in)
			if err != nil {
				return err
			}
			rewrites[i] = stageRewrite{stage: in.Stage, resp: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.metrics.ObserveRewrite(metrics.OutcomeFallback)
		return original, err
	}

	enhanced := cloneExplanation(original)
	enhanced.Enhanced = make(map[types.Stage]*types.EnhancedBlock, len(rewrites))
	for _, rw := range rewrites {
		for _, st := range enhanced.Stages() {
			if st.Stage == rw.stage {
				st.Summary = rw.resp.Summary
			}
		}
		enhanced.Enhanced[rw.stage] = &types.EnhancedBlock{
			ProbePoints:       rw.resp.ProbePoints,
			PrioritizedIssues: rw.resp.PrioritizedIssues,
			Outlook:           rw.resp.Outlook,
		}
	}
	return enhanced, nil
}

func (r *Rewriter) rewriteStage(ctx context.Context, in RewriteInput) (response, error) {
	model := r.client.GetModel(r.tier)
	key := in.CacheKey(model)
	log := r.log.With(zap.String(logger.FieldStage, string(in.Stage)), zap.String(logger.FieldModel, model))

	if cached, err := r.store.Get(ctx, key); err == nil {
		var resp response
		if err := json.Unmarshal([]byte(cached), &resp); err == nil && resp.vet(in.sourceText()) == nil {
			r.metrics.ObserveRewrite(metrics.OutcomeCached)
			log.Debug("rewrite cache hit")
			return resp, nil
		}
		log.Warn("discarding unusable cached rewrite")
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warn("rewrite cache read failed", zap.Error(err))
	}

	prompt, err := prompts.Render(prompts.ExplanationFile, prompts.KeyStageRewrite, in.promptData())
	if err != nil {
		return response{}, &RewriteError{Stage: in.Stage, Message: "failed to build prompt", Cause: err}
	}

	text, err := r.client.GenerateJSON(ctx, prompt, r.tier)
	if err != nil {
		return response{}, &RewriteError{Stage: in.Stage, Message: "model call failed", Cause: err}
	}

	var resp response
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(text)), &resp); err != nil {
		return response{}, &RewriteError{
			Stage:   in.Stage,
			Message: "invalid JSON from model",
			Cause:   &llm.ParseError{Message: "decode rewrite", Response: text, Cause: err},
		}
	}
	if err := resp.vet(in.sourceText()); err != nil {
		return response{}, &RewriteError{Stage: in.Stage, Message: "rejected model output", Cause: err}
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := r.store.Set(ctx, key, string(data)); err != nil {
			log.Warn("rewrite cache write failed", zap.Error(err))
		}
	}
	r.metrics.ObserveRewrite(metrics.OutcomeRewrite)
	return resp, nil
}

// cloneExplanation deep-copies the slices and map so the caller's explanation is never mutated.
func cloneExplanation(e *types.Explanation) *types.Explanation {
	c := *e
	for _, st := range c.Stages() {
		st.KeyFactors = slices.Clone(st.KeyFactors)
	}
	c.Recommendations = slices.Clone(e.Recommendations)
	if e.Enhanced != nil {
		c.Enhanced = make(map[types.Stage]*types.EnhancedBlock, len(e.Enhanced))
		for k, v := range e.Enhanced {
			b := *v
			c.Enhanced[k] = &b
		}
	}
	return &c
}
