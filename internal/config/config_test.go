package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/mathpad/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mathpad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
	assert.Equal(t, ".mathpad/sessions", cfg.Store.Dir)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, config.EvaluatorLua, cfg.Evaluator.Driver)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
store:
  driver: redis
redis:
  addr: cache:6379
  ttl: 10m
  lock: true
evaluator:
  driver: process
  timeout: 500ms
  command: bc
  args: ["-l"]
log:
  level: debug
`)
	t.Setenv("MATHPAD_HTTP_PORT", "9090")
	t.Setenv("MATHPAD_REDIS_DB", "3")
	t.Setenv("MATHPAD_STORE_KEY", "c2VjcmV0")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.DriverRedis, cfg.Store.Driver)
	assert.Equal(t, ".mathpad/sessions", cfg.Store.Dir, "untouched keys keep defaults")
	assert.Equal(t, "c2VjcmV0", cfg.Store.Key)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "mathpad:", cfg.Redis.Prefix)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.Redis.Lock)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, config.EvaluatorProcess, cfg.Evaluator.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Evaluator.Timeout)
	assert.Equal(t, "bc", cfg.Evaluator.Command)
	assert.Equal(t, []string{"-l"}, cfg.Evaluator.Args)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "log:\n  level: debug\n")
	t.Setenv("MATHPAD_LOG_LEVEL", "warn")
	t.Setenv("MATHPAD_LOG_FORMAT", "json")
	t.Setenv("MATHPAD_MAX_INPUT_SIZE", "10")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr error
	}{
		{name: "Unknown Driver", content: "store:\n  driver: tape\n", wantErr: config.ErrInvalidConfig},
		{name: "Unknown Key", content: "http:\n  host: x\n", wantErr: config.ErrInvalidConfig},
		{name: "Bad Duration", content: "evaluator:\n  timeout: soon\n", wantErr: config.ErrInvalidConfig},
		{name: "Bad Log Format", content: "log:\n  format: xml\n", wantErr: config.ErrInvalidConfig},
		{name: "Bad Level", content: "log:\n  level: chatty\n", wantErr: config.ErrInvalidConfig},
		{name: "Bad Port From Env", content: "", env: map[string]string{"MATHPAD_HTTP_PORT": "0"}, wantErr: config.ErrInvalidConfig},
		{name: "Unknown Evaluator", content: "evaluator:\n  driver: wolfram\n", wantErr: config.ErrInvalidConfig},
		{name: "Process Without Command", content: "evaluator:\n  driver: process\n", wantErr: config.ErrInvalidConfig},
		{name: "Zero Timeout", content: "evaluator:\n  timeout: 0s\n", wantErr: config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(writeFile(t, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := config.Load(writeFile(t, "store: [unclosed"))
	assert.Error(t, err)
}
