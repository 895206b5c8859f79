package rewriting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonathan/hiring-funnel/internal/cache"
	"github.com/jonathan/hiring-funnel/internal/config"
	"github.com/jonathan/hiring-funnel/internal/llm"
	"github.com/jonathan/hiring-funnel/internal/metrics"
	"github.com/jonathan/hiring-funnel/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestEnhance_RewritesProseOnly(t *testing.T) {
	client := &fakeClient{responses: goodResponses()}
	r := New(client, WithLogger(zaptest.NewLogger(t)))
	result := sampleResult()

	got, err := r.Enhance(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, "Your résumé clears most automated filters.", got.ATS.Summary)
	assert.Equal(t, "A recruiter will likely see steady growth.", got.Recruiter.Summary)
	assert.Equal(t, 72.0, got.ATS.Score)
	assert.Equal(t, 0.35, got.Interview.Probability)
	assert.Equal(t, result.Explanation.Recommendations, got.Recommendations)
	assert.Equal(t, result.Explanation.OverallSummary, got.OverallSummary)

	require.Len(t, got.Enhanced, 3)
	assert.Equal(t, []string{"Walk through the launch"}, got.Enhanced[types.StageATS].ProbePoints)
	assert.Equal(t, "Likely to advance with small fixes.", got.Enhanced[types.StageInterview].Outlook)

	assert.Equal(t, "Strong ATS compatibility (72/100).", result.Explanation.ATS.Summary, "input must not be mutated")
	assert.Nil(t, result.Explanation.Enhanced)
	assert.Equal(t, 3, client.calls())
}

func TestEnhance_PromptCarriesStageContext(t *testing.T) {
	client := &fakeClient{responses: goodResponses()}
	_, err := New(client).Enhance(context.Background(), sampleResult())
	require.NoError(t, err)

	var interviewPrompt string
	for _, p := range client.prompts {
		assert.NotContains(t, p, "{{.")
		if strings.Contains(p, "Stage: interview\n") {
			interviewPrompt = p
		}
	}
	require.NotEmpty(t, interviewPrompt)
	assert.Contains(t, interviewPrompt, "consistency_risk (medium, x2, impact 0.1)")
	assert.Contains(t, interviewPrompt, "[medium] Quantify outcomes")
	assert.Contains(t, interviewPrompt, "Calibrated for the entry level")
	assert.NotContains(t, interviewPrompt, "Add missing keywords")
}

func TestEnhance_ModelErrorFallsBack(t *testing.T) {
	cause := errors.New("quota exceeded")
	m := metrics.New(prometheus.NewRegistry())
	r := New(&fakeClient{err: cause}, WithMetrics(m))
	result := sampleResult()

	got, err := r.Enhance(context.Background(), result)
	require.Error(t, err)

	var rwErr *RewriteError
	require.ErrorAs(t, err, &rwErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, result.Explanation, *got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RewritesTotal.WithLabelValues(metrics.OutcomeFallback)))
}

func TestEnhance_RejectsInventedNumbers(t *testing.T) {
	responses := goodResponses()
	responses[types.StageRecruiter] = cannedResponse("You have a 93% chance with recruiters.")
	got, err := New(&fakeClient{responses: responses}).Enhance(context.Background(), sampleResult())

	var rwErr *RewriteError
	require.ErrorAs(t, err, &rwErr)
	assert.Equal(t, types.StageRecruiter, rwErr.Stage)
	assert.Contains(t, err.Error(), "93")
	assert.Equal(t, "Moderate recruiter appeal (65/100).", got.Recruiter.Summary)
	assert.Nil(t, got.Enhanced)
}

func TestEnhance_InvalidJSON(t *testing.T) {
	responses := goodResponses()
	responses[types.StageATS] = "not json at all"
	_, err := New(&fakeClient{responses: responses}).Enhance(context.Background(), sampleResult())

	var parseErr *llm.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "not json at all", parseErr.Response)
}

func TestEnhance_UsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := cache.NewRedisStore(context.Background(), config.CacheConfig{Addr: mr.Addr(), TTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	client := &fakeClient{responses: goodResponses()}
	r := New(client, WithCache(store), WithMetrics(m))

	first, err := r.Enhance(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, client.calls())
	assert.Len(t, mr.Keys(), 3)

	second, err := r.Enhance(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 3, client.calls(), "second run should be served from cache")
	assert.Equal(t, first, second)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RewritesTotal.WithLabelValues(metrics.OutcomeCached)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RewritesTotal.WithLabelValues(metrics.OutcomeRewrite)))
}

func TestCacheKey(t *testing.T) {
	in := BuildInputs(sampleResult())[0]

	assert.Len(t, in.CacheKey("m"), 64)
	assert.Equal(t, in.CacheKey("m"), in.CacheKey("m"))
	assert.NotEqual(t, in.CacheKey("m"), in.CacheKey("other"))

	changed := in
	changed.Score = 71
	assert.NotEqual(t, in.CacheKey("m"), changed.CacheKey("m"))
}

func TestBuildInputs(t *testing.T) {
	inputs := BuildInputs(sampleResult())
	require.Len(t, inputs, 3)

	assert.Equal(t, types.StageATS, inputs[0].Stage)
	require.Len(t, inputs[0].Risks, 1)
	assert.Equal(t, "low_ats_compatibility", inputs[0].Risks[0].Factor)
	require.Len(t, inputs[0].Recommendations, 1)

	assert.Empty(t, inputs[1].Risks)
	assert.Empty(t, inputs[1].Recommendations)

	require.Len(t, inputs[2].Risks, 1)
	assert.Equal(t, 2, inputs[2].Risks[0].Count)
}
