package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/stayer/internal/api"
	"github.com/five82/stayer/internal/state"
)

// Config holds everything stayer reads at startup.
type Config struct {
	APIURL          string        `validate:"required,url"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	ErrorTimeout    time.Duration `validate:"gt=0"`
	RefreshInterval time.Duration `validate:"gte=0"`
	LogFile         string        `validate:"required"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogJSON         bool
	ErrorPolicy     string `validate:"oneof=independent supersede"`
	DefaultCity     string `validate:"city"`
	SessionFile     string `validate:"required"`
	PrefsFile       string `validate:"required"`
}

const (
	defaultConfigPath      = "~/.config/stayer/config.toml"
	defaultLogFile         = "~/.local/share/stayer/stayer.log"
	defaultSessionFile     = "~/.config/stayer/session.toml"
	defaultPrefsFile       = "~/.config/stayer/prefs.toml"
	defaultRequestTimeout  = 10 * time.Second
	defaultErrorTimeout    = 2 * time.Second
	defaultRefreshInterval = time.Minute
	defaultLogLevel        = "info"
	defaultErrorPolicy     = "independent"

	envPrefix = "STAYER_"
)

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() Config {
	return Config{
		APIURL:          api.DefaultBaseURL,
		RequestTimeout:  defaultRequestTimeout,
		ErrorTimeout:    defaultErrorTimeout,
		RefreshInterval: defaultRefreshInterval,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
		ErrorPolicy:     defaultErrorPolicy,
		DefaultCity:     state.DefaultCity,
		SessionFile:     mustExpand(defaultSessionFile),
		PrefsFile:       mustExpand(defaultPrefsFile),
	}
}

type fileConfig struct {
	APIURL          string `toml:"api_url"`
	RequestTimeout  string `toml:"request_timeout"`
	ErrorTimeout    string `toml:"error_timeout"`
	RefreshInterval string `toml:"refresh_interval"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
	LogJSON         *bool  `toml:"log_json"`
	ErrorPolicy     string `toml:"error_policy"`
	DefaultCity     string `toml:"default_city"`
	SessionFile     string `toml:"session_file"`
	PrefsFile       string `toml:"prefs_file"`
}

// Load reads the TOML file at path (the default location when empty), then
// applies STAYER_* environment overrides and validates the result. A missing
// file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.merge(raw, "config"); err != nil {
		return Config{}, err
	}
	env, err := fromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.merge(env, "environment"); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func readFile(resolved string) (fileConfig, error) {
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func fromEnv() (fileConfig, error) {
	raw := fileConfig{
		APIURL:          os.Getenv(envPrefix + "API_URL"),
		RequestTimeout:  os.Getenv(envPrefix + "REQUEST_TIMEOUT"),
		ErrorTimeout:    os.Getenv(envPrefix + "ERROR_TIMEOUT"),
		RefreshInterval: os.Getenv(envPrefix + "REFRESH_INTERVAL"),
		LogFile:         os.Getenv(envPrefix + "LOG_FILE"),
		LogLevel:        os.Getenv(envPrefix + "LOG_LEVEL"),
		ErrorPolicy:     os.Getenv(envPrefix + "ERROR_POLICY"),
		DefaultCity:     os.Getenv(envPrefix + "CITY"),
		SessionFile:     os.Getenv(envPrefix + "SESSION_FILE"),
		PrefsFile:       os.Getenv(envPrefix + "PREFS_FILE"),
	}
	if value := strings.TrimSpace(os.Getenv(envPrefix + "LOG_JSON")); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fileConfig{}, fmt.Errorf("environment: log_json: %w", err)
		}
		raw.LogJSON = &parsed
	}
	return raw, nil
}

// merge overlays the non-empty values of raw onto c. source names the origin
// in error messages.
func (c *Config) merge(raw fileConfig, source string) error {
	setString(&c.APIURL, raw.APIURL)
	setString(&c.LogLevel, strings.ToLower(raw.LogLevel))
	setString(&c.ErrorPolicy, strings.ToLower(raw.ErrorPolicy))
	setString(&c.DefaultCity, raw.DefaultCity)
	setPath(&c.LogFile, raw.LogFile)
	setPath(&c.SessionFile, raw.SessionFile)
	setPath(&c.PrefsFile, raw.PrefsFile)
	if raw.LogJSON != nil {
		c.LogJSON = *raw.LogJSON
	}

	durations := []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"error_timeout", raw.ErrorTimeout, &c.ErrorTimeout},
		{"refresh_interval", raw.RefreshInterval, &c.RefreshInterval},
	}
	for _, d := range durations {
		value := strings.TrimSpace(d.value)
		if value == "" {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", source, d.name, err)
		}
		*d.dest = parsed
	}
	return nil
}

func setString(dest *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dest = trimmed
	}
}

func setPath(dest *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dest = mustExpand(value)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return state.IsKnownCity(fl.Field().String())
	})
	return v
}

// Validate reports the first invalid field in a readable form.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("invalid config: %s %q fails %q", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
