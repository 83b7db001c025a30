package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate 清空相关环境变量并切到空目录，避免读到本地的 .env / chatcal.yaml
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY",
		"CHATCAL_PROVIDER", "CHATCAL_EXTRACT_TIMEZONE", "CHATCAL_EXTRACT_WORKERS",
		"CHATCAL_FILTER_MIN_CONFIDENCE", "CHATCAL_OUTPUT_FORMAT", "CHATCAL_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "Asia/Kolkata", cfg.Extract.Timezone)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.Equal(t, 1, cfg.Extract.Workers)
	assert.Equal(t, 60*time.Second, cfg.Extract.RequestTimeout)
	assert.False(t, cfg.Extract.SkipPlaceholders)
	assert.Equal(t, 0.7, cfg.Filter.MinConfidence)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestRequireCredentials(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	err = cfg.RequireCredentials()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireCredentials())
	assert.Equal(t, "g-key", cfg.Model().APIKey)
}

func TestRequireCredentialsOpenAI(t *testing.T) {
	isolate(t)
	t.Setenv("CHATCAL_PROVIDER", "openai")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	err = cfg.RequireCredentials()
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "o-key")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireCredentials())
	assert.Equal(t, "o-key", cfg.Model().APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("GEMINI_API_KEY")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_API_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Gemini.APIKey)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
provider: openai
openai:
  api_key: file-key
  model: gpt-4.1-mini
extract:
  timezone: UTC
  workers: 4
  request_timeout: 15s
  skip_placeholders: true
filter:
  min_confidence: 0.8
output:
  format: JSON
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "file-key", cfg.Model().APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.Model().Model)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, 4, cfg.Extract.Workers)
	assert.Equal(t, 15*time.Second, cfg.Extract.RequestTimeout)
	assert.True(t, cfg.Extract.SkipPlaceholders)
	assert.Equal(t, 0.8, cfg.Filter.MinConfidence)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadDefaultFileInWorkingDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chatcal.yaml"), []byte("extract:\n  workers: 3\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Extract.Workers)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extract:\n  workers: 2\n"), 0o644))
	t.Setenv("CHATCAL_EXTRACT_WORKERS", "5")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Extract.Workers)
}

func TestLoadFlags(t *testing.T) {
	isolate(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("provider", "gemini", "")
	fs.String("model", "", "")
	fs.Int("workers", 1, "")
	fs.Float64("min-confidence", 0.7, "")
	fs.Duration("timeout", time.Minute, "")
	fs.String("format", "text", "")
	require.NoError(t, fs.Parse([]string{
		"--provider", "openai", "--model", "gpt-4o", "--workers", "8",
		"--min-confidence", "0.9", "--timeout", "5s", "--format", "ics",
	}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 8, cfg.Extract.Workers)
	assert.Equal(t, 0.9, cfg.Filter.MinConfidence)
	assert.Equal(t, 5*time.Second, cfg.Extract.RequestTimeout)
	assert.Equal(t, "ics", cfg.Output.Format)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"unknown provider", map[string]string{"CHATCAL_PROVIDER": "claude"}, ErrUnknownProvider},
		{"bad timezone", map[string]string{"CHATCAL_EXTRACT_TIMEZONE": "Mars/Olympus"}, ErrInvalid},
		{"zero workers", map[string]string{"CHATCAL_EXTRACT_WORKERS": "0"}, ErrInvalid},
		{"confidence above one", map[string]string{"CHATCAL_FILTER_MIN_CONFIDENCE": "1.5"}, ErrInvalid},
		{"unknown format", map[string]string{"CHATCAL_OUTPUT_FORMAT": "xml"}, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("", nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
