package assistant

import (
	"context"
	"testing"

	"christocar/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt_EmbedsSnapshot(t *testing.T) {
	p, err := SystemPrompt("Auto Center Christo Car", map[string]any{"active_os": 3})
	require.NoError(t, err)
	assert.Contains(t, p, "Auto Center Christo Car")
	assert.Contains(t, p, `"active_os": 3`)
}

func TestNew_NoKeyMeansNoProvider(t *testing.T) {
	p, err := New(context.Background(), &config.Config{AIProvider: "gemini"})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = New(context.Background(), &config.Config{AIProvider: "openai"})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = New(context.Background(), &config.Config{AIProvider: "openai", OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.GetProviderName())
}
