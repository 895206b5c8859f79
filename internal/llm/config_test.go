package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Positive(t, config.Timeout)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
	assert.Equal(t, "", (&Config{Models: map[ModelTier]string{}}).GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.Timeout, newConfig.Timeout)
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, TierStandard, tier)

	tier, err = ParseTier(" Lite ")
	require.NoError(t, err)
	assert.Equal(t, TierLite, tier)

	_, err = ParseTier("huge")
	assert.Error(t, err)
}

func TestErrors(t *testing.T) {
	cause := errors.New("quota exceeded")
	apiErr := &APICallError{Model: "gemini-2.5-flash", Message: "generate content", Cause: cause}
	assert.Contains(t, apiErr.Error(), "gemini-2.5-flash")
	assert.ErrorIs(t, apiErr, cause)

	parseErr := &ParseError{Message: "missing summary"}
	assert.Equal(t, "failed to parse llm response: missing summary", parseErr.Error())
}
