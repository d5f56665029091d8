package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/stayer/internal/api"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != api.DefaultBaseURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, api.DefaultBaseURL)
	}
	if cfg.ErrorTimeout != 2*time.Second || cfg.DefaultCity != "Paris" || cfg.ErrorPolicy != "independent" {
		t.Fatalf("cfg = %#v, want default timeout, city and policy", cfg)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if !strings.HasPrefix(cfg.SessionFile, home) || !strings.HasPrefix(cfg.PrefsFile, home) {
		t.Fatalf("session/prefs = %q/%q, want them under HOME", cfg.SessionFile, cfg.PrefsFile)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  http://127.0.0.1:8089/six-cities  "
request_timeout = "3s"
error_timeout = "500ms"
refresh_interval = "0s"
log_file = "  ~/logs/stayer.log  "
log_level = "DEBUG"
log_json = true
error_policy = "supersede"
default_city = "Hamburg"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:8089/six-cities" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.ErrorTimeout != 500*time.Millisecond || cfg.RefreshInterval != 0 {
		t.Fatalf("durations = %v/%v/%v", cfg.RequestTimeout, cfg.ErrorTimeout, cfg.RefreshInterval)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "stayer.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" || !cfg.LogJSON || cfg.ErrorPolicy != "supersede" || cfg.DefaultCity != "Hamburg" {
		t.Fatalf("cfg = %#v", cfg)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
error_timeout = "5s"
default_city = "Hamburg"
`)
	t.Setenv("STAYER_ERROR_TIMEOUT", "1s")
	t.Setenv("STAYER_CITY", "Brussels")
	t.Setenv("STAYER_LOG_JSON", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ErrorTimeout != time.Second || cfg.DefaultCity != "Brussels" || !cfg.LogJSON {
		t.Fatalf("cfg = %#v, want environment values", cfg)
	}
}

func TestLoad_RejectsInvalidLogJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STAYER_LOG_JSON", "maybe")

	_, err := Load(writeConfig(t, ``))
	if err == nil || !strings.Contains(err.Error(), "log_json") {
		t.Fatalf("Load error = %v, want log_json parse error", err)
	}

	t.Setenv("STAYER_LOG_JSON", " ")
	if _, err := Load(writeConfig(t, ``)); err != nil {
		t.Fatalf("Load with blank STAYER_LOG_JSON returned error: %v", err)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
api_url = "   "
log_file = ""
error_timeout = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.APIURL != want.APIURL || cfg.LogFile != want.LogFile || cfg.ErrorTimeout != want.ErrorTimeout {
		t.Fatalf("cfg = %#v, want defaults", cfg)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", `api_url = [`, "parse config"},
		{"bad duration", `error_timeout = "soon"`, "error_timeout"},
		{"zero timeout", `request_timeout = "0s"`, "RequestTimeout"},
		{"not a url", `api_url = "six cities"`, "APIURL"},
		{"unknown city", `default_city = "Berlin"`, "DefaultCity"},
		{"unknown policy", `error_policy = "latest"`, "ErrorPolicy"},
		{"unknown level", `log_level = "trace"`, "LogLevel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatalf("Load returned nil error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile(missing) returned error: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STAYER_LOG_LEVEL=warn\nSTAYER_CITY=Cologne\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("STAYER_LOG_LEVEL", "error")
	t.Setenv("STAYER_CITY", "")
	os.Unsetenv("STAYER_CITY")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
	if got := os.Getenv("STAYER_LOG_LEVEL"); got != "error" {
		t.Fatalf("STAYER_LOG_LEVEL = %q, want the existing value kept", got)
	}
	if got := os.Getenv("STAYER_CITY"); got != "Cologne" {
		t.Fatalf("STAYER_CITY = %q, want Cologne from the file", got)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
