// Package analysis orchestrates a full hiring-funnel analysis: validation, calibration,
// the three stage scorers, aggregation, explanation and the optional rewrite.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/hiring-funnel/internal/aggregation"
	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/explanation"
	"github.com/jonathan/hiring-funnel/internal/logger"
	"github.com/jonathan/hiring-funnel/internal/metrics"
	"github.com/jonathan/hiring-funnel/internal/scoring"
	"github.com/jonathan/hiring-funnel/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Enhancer rewords a finished explanation. Implementations must return a usable explanation
// even when they also return an error.
type Enhancer interface {
	Enhance(ctx context.Context, result *types.AnalysisResult) (*types.Explanation, error)
}

// Analyzer runs analyses. It is safe for concurrent use.
type Analyzer struct {
	log      *zap.Logger
	enhancer Enhancer
	policy   aggregation.FloorPolicy
	now      func() time.Time
	metrics  *metrics.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.log = logger.OrNop(l) }
}

// WithEnhancer enables the explanation rewrite step.
func WithEnhancer(e Enhancer) Option {
	return func(a *Analyzer) { a.enhancer = e }
}

// WithFloorPolicy sets how the role probability floor is applied.
func WithFloorPolicy(p aggregation.FloorPolicy) Option {
	return func(a *Analyzer) { a.policy = p }
}

// WithClock overrides the time source used for tenure and timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithMetrics records analysis metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// New creates an Analyzer with the advisory floor policy and no rewriter.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		log:    zap.NewNop(),
		policy: aggregation.FloorAdvisory,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs a full analysis.
func (a *Analyzer) Analyze(ctx context.Context, req *types.AnalysisRequest) (*types.AnalysisResult, error) {
	return a.AnalyzeWithProgress(ctx, req, nil)
}

// AnalyzeWithProgress runs a full analysis, reporting each step to onProgress.
// The only error returned for a valid context is *ValidationError.
func (a *Analyzer) AnalyzeWithProgress(ctx context.Context, req *types.AnalysisRequest, onProgress ProgressCallback) (*types.AnalysisResult, error) {
	start := time.Now()
	id := uuid.New().String()
	log := a.log.With(zap.String(logger.FieldAnalysisID, id))
	onProgress = serialize(onProgress)

	level, err := validate(req)
	if err != nil {
		a.metrics.ObserveAnalysis(metrics.OutcomeInvalid, time.Since(start))
		log.Info("analysis rejected", zap.Error(err))
		return nil, err
	}
	onProgress.emit(id, StepValidate, "", "Request validated", nil)
	log = log.With(zap.String(logger.FieldRoleLevel, string(level)))

	factors := calibration.Factors(level)
	onProgress.emit(id, StepCalibrate, "", fmt.Sprintf("Using %s calibration", factors.Band), factors)

	now := a.now()
	resume := &req.ParsedResume
	var (
		ats       types.ATSResult
		recruiter types.RecruiterResult
		interview types.InterviewResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ats = scoring.ScoreATS(resume, req.ResumeText, req.JobDescription, types.NormalizeATSSystem(req.ATSSystem), &factors)
		onProgress.emit(id, StepScore, string(types.StageATS), fmt.Sprintf("ATS score %.1f", ats.Score), ats)
		return gctx.Err()
	})
	g.Go(func() error {
		recruiter = scoring.ScoreRecruiter(resume, req.ResumeText, types.NormalizeRecruiterPersona(req.RecruiterPersona), level, now)
		onProgress.emit(id, StepScore, string(types.StageRecruiter), fmt.Sprintf("Recruiter score %.1f", recruiter.Score), recruiter)
		return gctx.Err()
	})
	g.Go(func() error {
		interview = scoring.ScoreInterview(resume, req.ResumeText, level)
		onProgress.emit(id, StepScore, string(types.StageInterview), fmt.Sprintf("Interview score %.1f", interview.Score), interview)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		a.metrics.ObserveAnalysis(metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	a.metrics.ObserveStageScore(string(types.StageATS), ats.Score)
	a.metrics.ObserveStageScore(string(types.StageRecruiter), recruiter.Score)
	a.metrics.ObserveStageScore(string(types.StageInterview), interview.Score)

	agg := aggregation.Aggregate(&ats, &recruiter, &interview, level, a.policy)
	onProgress.emit(id, StepAggregate, "", fmt.Sprintf("Overall probability %.1f%%", agg.OverallProbability*100), agg)

	result := &types.AnalysisResult{
		AnalysisID: id,
		RoleLevel:  level,
		ATS:        ats,
		Recruiter:  recruiter,
		Interview:  interview,
		Aggregate:  agg,
		Explanation: explanation.Generate(explanation.Input{
			RoleLevel: level,
			ATS:       &ats,
			Recruiter: &recruiter,
			Interview: &interview,
			Aggregate: &agg,
		}),
	}
	onProgress.emit(id, StepExplain, "", fmt.Sprintf("Generated %d recommendations", len(result.Explanation.Recommendations)), nil)

	if a.enhancer != nil {
		a.rewrite(ctx, log, result, onProgress)
	}

	result.GeneratedAt = a.now().UTC()
	a.metrics.ObserveAnalysis(metrics.OutcomeSuccess, time.Since(start))
	log.Info("analysis complete",
		zap.Float64("overall_probability", agg.OverallProbability),
		zap.Float64("overall_score", agg.OverallScore),
		zap.Bool("enhanced", result.Enhanced),
		zap.Duration("elapsed", time.Since(start)),
	)
	onProgress.emit(id, StepComplete, "", "Analysis complete", result)
	return result, nil
}

// rewrite swaps in the enhanced explanation, keeping the deterministic one on any failure.
func (a *Analyzer) rewrite(ctx context.Context, log *zap.Logger, result *types.AnalysisResult, onProgress ProgressCallback) {
	enhanced, err := a.enhancer.Enhance(ctx, result)
	if err != nil {
		log.Warn("explanation rewrite failed, using deterministic explanation", zap.Error(err))
		onProgress.emit(result.AnalysisID, StepRewrite, "", "Rewrite unavailable, kept deterministic explanation", nil)
		return
	}
	if enhanced == nil {
		return
	}
	result.Explanation = *enhanced
	result.Enhanced = true
	onProgress.emit(result.AnalysisID, StepRewrite, "", "Explanation reworded", nil)
}

// validate checks the request and resolves its role level.
func validate(req *types.AnalysisRequest) (types.RoleLevel, error) {
	if req == nil {
		return types.RoleUnset, &ValidationError{Message: "request is required"}
	}
	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return types.RoleUnset, &ValidationError{Field: verrs[0].Field(), Message: "failed on the '" + verrs[0].Tag() + "' rule"}
		}
		return types.RoleUnset, &ValidationError{Message: err.Error()}
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return types.RoleUnset, &ValidationError{Field: "resume_text", Message: "must not be blank"}
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return types.RoleUnset, &ValidationError{Field: "job_description", Message: "must not be blank"}
	}
	level, err := types.ParseRoleLevel(req.RoleLevel)
	if err != nil {
		return types.RoleUnset, &ValidationError{Field: "role_level", Message: err.Error()}
	}
	return level, nil
}

// serialize makes a callback safe to call from the parallel scorers.
func serialize(cb ProgressCallback) ProgressCallback {
	if cb == nil {
		return nil
	}
	var mu sync.Mutex
	return func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		cb(e)
	}
}
