package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "modern", cfg.Template)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "render_jobs", cfg.AMQP.Queue)
	assert.False(t, cfg.S3.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "tailor.yaml", `
template: classic
output_dir: out
use_browser: true
server:
  port: 9090
s3:
  bucket: resumes
  region: eu-west-1
log:
  json: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "classic", cfg.Template)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "resumes", cfg.S3.Prefix)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "tailor.json", `{"template": "executive", "amqp": {"queue": "jobs"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "executive", cfg.Template)
	assert.Equal(t, "jobs", cfg.AMQP.Queue)
	assert.Equal(t, "generation_updates", cfg.AMQP.Exchange)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-gemini")
	t.Setenv("RESUME_TAILOR_TEMPLATE", "modern-sidebar")
	t.Setenv("RESUME_TAILOR_SERVER_PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://localhost/tailor")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "from-gemini", cfg.APIKey)
	assert.Equal(t, "modern-sidebar", cfg.Template)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/tailor", cfg.DatabaseURL)
}

func TestLoadConfig_PrefixedEnvWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "generic")
	t.Setenv("RESUME_TAILOR_API_KEY", "specific")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "specific", cfg.APIKey)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "tailor.yaml", "template: classic\n")
	t.Setenv("RESUME_TAILOR_TEMPLATE", "executive")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "executive", cfg.Template)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "template: [unclosed\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing template", func(c *Config) { c.Template = "" }, "Config.Template"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "Config.Server.Port"},
		{"bucket without region", func(c *Config) { c.S3.Bucket = "b"; c.S3.Region = "" }, "Config.S3.Region"},
		{"half credentials", func(c *Config) { c.S3.AccessKeyID = "id" }, "Config.S3.SecretAccessKey"},
		{"bad endpoint", func(c *Config) { c.S3.Endpoint = "not a url" }, "Config.S3.Endpoint"},
		{"amqp without queue", func(c *Config) { c.AMQP.URL = "amqp://localhost"; c.AMQP.Queue = "" }, "Config.AMQP.Queue"},
		{"database url", func(c *Config) { c.DatabaseURL = "postgres://u:p@localhost:5432/db" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Template: "classic", Server: ServerConfig{Port: 9000}}
	merged := cfg.MergeWithDefaults(DefaultConfig())

	assert.Equal(t, "classic", merged.Template)
	assert.Equal(t, ".", merged.OutputDir)
	assert.Equal(t, 9000, merged.Server.Port)
	assert.Equal(t, float64(2), merged.Server.RateLimit)
	assert.Equal(t, "render_jobs", merged.AMQP.Queue)

	// Original unchanged
	assert.Empty(t, cfg.OutputDir)
}
