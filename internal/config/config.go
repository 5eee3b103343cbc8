// Package config loads mathpad settings from an optional YAML file and
// MATHPAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when Load is called without a path. It may be absent.
const DefaultFile = "mathpad.yaml"

// Store drivers.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Evaluator drivers.
const (
	EvaluatorLua     = "lua"
	EvaluatorProcess = "process"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Evaluator EvaluatorConfig `mapstructure:"evaluator"`
	Snippets  SnippetsConfig  `mapstructure:"snippets"`
	Log       LogConfig       `mapstructure:"log"`
}

type StoreConfig struct {
	// Driver is one of file, memory or redis.
	Driver string `mapstructure:"driver"`
	Dir    string `mapstructure:"dir"`
	// Key is a base64 AES-256 key. When set, documents are sealed at rest.
	Key string `mapstructure:"key"`
	// FallbackKeys still open documents sealed before a key rotation.
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Lock enables the distributed session lock.
	Lock bool `mapstructure:"lock"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type EvaluatorConfig struct {
	// Driver is lua (embedded) or process (external Command).
	Driver  string        `mapstructure:"driver"`
	Timeout time.Duration `mapstructure:"timeout"`
	Command string        `mapstructure:"command"`
	Args    []string      `mapstructure:"args"`
}

type SnippetsConfig struct {
	// Dir is a loam repository of snippet documents. Empty uses the built-in palette.
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

// envKeys maps environment variables to dotted config keys.
var envKeys = map[string]string{
	"MATHPAD_STORE_DRIVER":      "store.driver",
	"MATHPAD_STORE_DIR":         "store.dir",
	"MATHPAD_STORE_KEY":         "store.key",
	"MATHPAD_REDIS_ADDR":        "redis.addr",
	"MATHPAD_REDIS_PASSWORD":    "redis.password",
	"MATHPAD_REDIS_DB":          "redis.db",
	"MATHPAD_REDIS_PREFIX":      "redis.prefix",
	"MATHPAD_REDIS_TTL":         "redis.ttl",
	"MATHPAD_REDIS_LOCK":        "redis.lock",
	"MATHPAD_HTTP_PORT":         "http.port",
	"MATHPAD_EVALUATOR_DRIVER":  "evaluator.driver",
	"MATHPAD_EVALUATOR_TIMEOUT": "evaluator.timeout",
	"MATHPAD_EVALUATOR_COMMAND": "evaluator.command",
	"MATHPAD_SNIPPETS_DIR":      "snippets.dir",
	"MATHPAD_LOG_FORMAT":        "log.format",
	"MATHPAD_LOG_LEVEL":         "log.level",
}

func defaults() map[string]any {
	return map[string]any{
		"store": map[string]any{
			"driver":        DriverFile,
			"dir":           ".mathpad/sessions",
			"key":           "",
			"fallback_keys": []any{},
		},
		"redis": map[string]any{
			"addr":   "localhost:6379",
			"prefix": "mathpad:",
			"ttl":    "0s",
		},
		"http": map[string]any{"port": 8080},
		"evaluator": map[string]any{
			"driver":  EvaluatorLua,
			"timeout": "2s",
			"command": "",
			"args":    []any{},
		},
		"snippets": map[string]any{"dir": ""},
		"log":      map[string]any{"level": "info"},
	}
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	cfg, err := decode(defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds the configuration: defaults, then the YAML file at path, then
// MATHPAD_* environment variables. An empty path reads DefaultFile when it exists.
func Load(path string) (Config, error) {
	values := defaults()

	file := path
	if file == "" {
		file = DefaultFile
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		var fromFile map[string]any
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		merge(values, fromFile)
	case os.IsNotExist(err) && path == "":
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	for env, key := range envKeys {
		if v, ok := os.LookupEnv(env); ok {
			set(values, key, v)
		}
	}

	cfg, err := decode(values)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decode(values map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(values); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks values that decoding alone cannot.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Store.Driver == DriverFile && c.Store.Dir == "" {
		return fmt.Errorf("%w: store.dir is required for the file driver", ErrInvalidConfig)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port %d out of range", ErrInvalidConfig, c.HTTP.Port)
	}
	switch c.Evaluator.Driver {
	case EvaluatorLua:
	case EvaluatorProcess:
		if strings.TrimSpace(c.Evaluator.Command) == "" {
			return fmt.Errorf("%w: evaluator.command is required for the process driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown evaluator driver %q", ErrInvalidConfig, c.Evaluator.Driver)
	}
	if c.Evaluator.Timeout <= 0 {
		return fmt.Errorf("%w: evaluator.timeout must be positive", ErrInvalidConfig)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// SlogLevel parses the configured level (debug, info, warn, error).
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, l.Level)
	}
	return level, nil
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func set(values map[string]any, key, value string) {
	parts := strings.Split(key, ".")
	m := values
	for _, p := range parts[:len(parts)-1] {
		sub, ok := m[p].(map[string]any)
		if !ok {
			sub = map[string]any{}
			m[p] = sub
		}
		m = sub
	}
	m[parts[len(parts)-1]] = value
}
