package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/invoices")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(25), cfg.Server.MaxUploadMB)
	assert.Equal(t, "pdftotext", cfg.PDF.Pdftotext)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.GeminiModel)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, float32(0), cfg.LLM.Temperature)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/invoices")
	t.Setenv("ADDR", ":9090")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("PDF_MAX_PAGES", "5")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, int64(10), cfg.Server.MaxUploadMB)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.GeminiModel)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 5, cfg.PDF.MaxPages)
}

func TestValidateRequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	cfg := LoadConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
}

func TestMissingAPIKeyIsNotFatal(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/invoices")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.LLM.GeminiAPIKey)
}
