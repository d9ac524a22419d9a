// Package config loads the onebreath configuration file.
//
// The file is YAML. It is checked against an embedded CUE schema before it
// is decoded, so unknown keys and out-of-range values fail with a LoadError
// instead of being silently ignored. Fields left out keep the values from
// Default.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/roach88/onebreath/internal/clock"
	"github.com/roach88/onebreath/internal/entry"
	"github.com/roach88/onebreath/internal/export"
	"github.com/roach88/onebreath/internal/journal"
	"github.com/roach88/onebreath/internal/retry"
	"github.com/roach88/onebreath/internal/validate"
)

//go:embed schema.cue
var schemaSource string

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Error codes carried by LoadError.
const (
	ErrCodeRead     = "E_CONFIG_READ"
	ErrCodeParse    = "E_CONFIG_PARSE"
	ErrCodeSchema   = "E_CONFIG_SCHEMA"
	ErrCodeInvalid  = "E_CONFIG_INVALID"
	ErrCodeInternal = "E_CONFIG_INTERNAL"
)

// LoadError reports why a configuration file was rejected.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Config is the full configuration.
type Config struct {
	Storage Storage `yaml:"storage" json:"storage"`
	Journal Journal `yaml:"journal" json:"journal"`
	Retry   Retry   `yaml:"retry" json:"retry"`
	Export  Export  `yaml:"export" json:"export"`
	Log     Log     `yaml:"log" json:"log"`
}

// Storage selects and locates the backing store.
type Storage struct {
	Backend   string `yaml:"backend" json:"backend"`
	Path      string `yaml:"path" json:"path"`
	Key       string `yaml:"key" json:"key"`
	LegacyKey string `yaml:"legacy_key" json:"legacy_key"`
}

// Journal holds entry rules.
type Journal struct {
	MaxContentLength int    `yaml:"max_content_length" json:"max_content_length"`
	Timezone         string `yaml:"timezone" json:"timezone"`
}

// Retry is the read retry schedule.
type Retry struct {
	MaxAttempts   int      `yaml:"max_attempts" json:"max_attempts"`
	InitialDelay  Duration `yaml:"initial_delay" json:"initial_delay"`
	MaxDelay      Duration `yaml:"max_delay" json:"max_delay"`
	BackoffFactor float64  `yaml:"backoff_factor" json:"backoff_factor"`
}

// Export holds export defaults.
type Export struct {
	Language string `yaml:"language" json:"language"`
}

// Log holds logging settings.
type Log struct {
	Level string `yaml:"level" json:"level"`
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	if parsed < 0 {
		return fmt.Errorf("line %d: duration %q is negative", node.Line, s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	keys := journal.DefaultKeys()
	r := retry.DefaultOptions()
	return Config{
		Storage: Storage{
			Backend:   BackendFile,
			Path:      "~/.onebreath",
			Key:       keys.Current,
			LegacyKey: keys.Legacy,
		},
		Journal: Journal{
			MaxContentLength: entry.MaxContentLength,
		},
		Retry: Retry{
			MaxAttempts:   r.MaxAttempts,
			InitialDelay:  Duration(r.InitialDelay),
			MaxDelay:      Duration(r.MaxDelay),
			BackoffFactor: r.BackoffFactor,
		},
		Export: Export{Language: "en"},
		Log:    Log{Level: "info"},
	}
}

// Load reads and validates the file at path. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeRead, Path: path, Message: "cannot read config file", Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Parse validates and decodes YAML config data over Default.
func Parse(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, &LoadError{Code: ErrCodeParse, Message: "invalid YAML", Err: err}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := checkSchema(raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &LoadError{Code: ErrCodeInvalid, Message: "invalid value", Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// checkSchema unifies the decoded document with #Config.
func checkSchema(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeInternal, Message: "compile config schema", Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return &LoadError{Code: ErrCodeParse, Message: "encode config", Err: err}
	}
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: "config does not match schema", Err: err}
	}
	return nil
}

// Validate checks the cross-field rules the schema cannot express.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendBolt:
	default:
		return invalid("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend != BackendMemory && c.Storage.Path == "" {
		return invalid("storage.path is required for backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return invalid("storage.key must not be empty")
	}
	if c.Journal.MaxContentLength <= 0 {
		return invalid("journal.max_content_length must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return invalid("retry.max_attempts must be positive")
	}
	if c.Retry.BackoffFactor < 1 {
		return invalid("retry.backoff_factor must be at least 1")
	}
	if c.Retry.MaxDelay < c.Retry.InitialDelay {
		return invalid("retry.max_delay must not be less than retry.initial_delay")
	}
	if _, err := c.Location(); err != nil {
		return &LoadError{Code: ErrCodeInvalid, Message: "journal.timezone", Err: err}
	}
	if _, err := c.Language(); err != nil {
		return &LoadError{Code: ErrCodeInvalid, Message: "export.language", Err: err}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return &LoadError{Code: ErrCodeInvalid, Message: "log.level", Err: err}
	}
	return nil
}

func invalid(format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf(format, args...)}
}

// RetryOptions converts the retry section.
func (c Config) RetryOptions() retry.Options {
	return retry.Options{
		MaxAttempts:   c.Retry.MaxAttempts,
		InitialDelay:  time.Duration(c.Retry.InitialDelay),
		MaxDelay:      time.Duration(c.Retry.MaxDelay),
		BackoffFactor: c.Retry.BackoffFactor,
	}
}

// Rules returns the validation limits.
func (c Config) Rules() validate.Rules {
	return validate.Rules{MaxContentLength: c.Journal.MaxContentLength}
}

// Keys returns the journal storage keys.
func (c Config) Keys() journal.Keys {
	keys := journal.DefaultKeys()
	keys.Current = c.Storage.Key
	keys.Legacy = c.Storage.LegacyKey
	return keys
}

// Location resolves journal.timezone. Empty means the local zone.
func (c Config) Location() (*time.Location, error) {
	return clock.LoadLocation(c.Journal.Timezone)
}

// Language resolves export.language.
func (c Config) Language() (language.Tag, error) {
	return export.ParseLanguage(c.Export.Language)
}

// StoragePath returns Storage.Path with a leading ~ expanded.
func (c Config) StoragePath() (string, error) {
	p := c.Storage.Path
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
