package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/isoshell/internal/errors"
)

const testSettings = `
development:
  port: 3000
  api:
    host: api.local
    port: 3030
  app:
    title: Dev Shell
  ssr:
    loadTimeout: 2s
production:
  host: 0.0.0.0
  port: 8080
  static:
    dir: /srv/static
    cache: production
  ssr:
    loadTimeout: 0s
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseSettingsSection(t *testing.T) {
	s, err := ParseSettings([]byte(testSettings), "development")
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}

	if s.API.Host != "api.local" {
		t.Errorf("API.Host = %q, want api.local", s.API.Host)
	}
	if s.App.Title != "Dev Shell" {
		t.Errorf("App.Title = %q, want Dev Shell", s.App.Title)
	}
	if s.SSR.LoadTimeout != 2*time.Second {
		t.Errorf("SSR.LoadTimeout = %v, want 2s", s.SSR.LoadTimeout)
	}
	// Untouched fields keep their defaults.
	if s.Static.Dir != "static" {
		t.Errorf("Static.Dir = %q, want default static", s.Static.Dir)
	}
	if s.Navigation.LoginSuccess != DefaultLoginSuccessPath {
		t.Errorf("Navigation.LoginSuccess = %q, want %q", s.Navigation.LoginSuccess, DefaultLoginSuccessPath)
	}
	if s.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, want default 5s", s.API.Timeout)
	}
}

func TestParseSettingsProduction(t *testing.T) {
	s, err := ParseSettings([]byte(testSettings), "production")
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if s.Port != 8080 || s.Host != "0.0.0.0" {
		t.Errorf("listen = %s:%d, want 0.0.0.0:8080", s.Host, s.Port)
	}
	if s.Static.Cache != "production" {
		t.Errorf("Static.Cache = %q, want production", s.Static.Cache)
	}
	if s.SSR.LoadTimeout != 0 {
		t.Errorf("SSR.LoadTimeout = %v, want 0 (unbounded)", s.SSR.LoadTimeout)
	}
}

func TestParseSettingsMissingSection(t *testing.T) {
	_, err := ParseSettings([]byte(testSettings), "staging")
	if err == nil {
		t.Fatal("expected error for missing section")
	}
	if !errors.HasCode(err, errors.CodeConfig) {
		t.Errorf("error code = %q, want %q", errors.CodeOf(err), errors.CodeConfig)
	}
}

func TestParseSettingsInvalidYAML(t *testing.T) {
	if _, err := ParseSettings([]byte("development: [unclosed"), "development"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"), "development")
	if !errors.HasCode(err, errors.CodeConfig) {
		t.Fatalf("LoadSettings(missing) = %v, want E500", err)
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("ISOSHELL_ENV", "")
	os.Unsetenv("ISOSHELL_ENV")
	os.Unsetenv("ISOSHELL_DEVELOPMENT")
	os.Unsetenv("ISOSHELL_DISABLE_SSR")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if e.Name != "development" {
		t.Errorf("Name = %q, want development", e.Name)
	}
	if !e.DevMode() {
		t.Error("DevMode() = false, want true in development")
	}
	if e.DisableSSR {
		t.Error("DisableSSR = true, want false")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ISOSHELL_ENV", "development")
	t.Setenv("ISOSHELL_DEVELOPMENT", "false")
	t.Setenv("ISOSHELL_DISABLE_SSR", "true")

	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if e.DevMode() {
		t.Error("DevMode() = true, want explicit false to win")
	}
	if !e.DisableSSR {
		t.Error("DisableSSR = false, want true")
	}
}

func TestLoadWith(t *testing.T) {
	path := writeSettings(t, testSettings)

	cfg, err := LoadWith(Env{Name: "production", SettingsPath: path})
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.DevMode {
		t.Error("DevMode = true for production")
	}
	if got := cfg.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Address() = %q, want 0.0.0.0:8080", got)
	}
	if got := cfg.StaticDir(); got != "/srv/static" {
		t.Errorf("StaticDir() = %q, want absolute path unchanged", got)
	}
	if got := cfg.ManifestPath(); got != filepath.Join(filepath.Dir(path), "webpack-assets.json") {
		t.Errorf("ManifestPath() = %q, want it next to the settings file", got)
	}

	cfg.Env.Addr = ":9999"
	if got := cfg.Address(); got != ":9999" {
		t.Errorf("Address() with override = %q", got)
	}
}

func TestAPIBaseURL(t *testing.T) {
	cfg := &Config{Settings: DefaultSettings()}
	cfg.Settings.API.Prefix = "/api"
	if got := cfg.APIBaseURL(); got != "http://localhost:3030/api" {
		t.Errorf("APIBaseURL() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		valid  bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"bad port", func(s *Settings) { s.Port = 70000 }, false},
		{"bad api port", func(s *Settings) { s.API.Port = -1 }, false},
		{"negative timeout", func(s *Settings) { s.SSR.LoadTimeout = -time.Second }, false},
		{"unknown cache", func(s *Settings) { s.Static.Cache = "forever" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := (&Config{Settings: s}).Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
