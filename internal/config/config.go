package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/isoshell/internal/errors"
)

const (
	// DefaultHost is the default listen host.
	DefaultHost = "localhost"

	// DefaultPort is the default listen port.
	DefaultPort = 3000

	// DefaultLoadTimeout bounds the loader barrier of one request.
	DefaultLoadTimeout = 10 * time.Second

	// DefaultLoginSuccessPath is where the client navigates after logging in.
	DefaultLoginSuccessPath = "/loginSuccess"

	// DefaultLivePath is the WebSocket endpoint of the live client session.
	DefaultLivePath = "/_live"
)

// Settings is one environment's section of the settings file.
type Settings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	API        APISettings        `yaml:"api"`
	App        AppSettings        `yaml:"app"`
	Static     StaticSettings     `yaml:"static"`
	Assets     AssetSettings      `yaml:"assets"`
	SSR        SSRSettings        `yaml:"ssr"`
	Navigation NavigationSettings `yaml:"navigation"`
	Live       LiveSettings       `yaml:"live"`
	Metrics    MetricsSettings    `yaml:"metrics"`
}

// APISettings locates the backend API the loaders call.
type APISettings struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Prefix  string        `yaml:"prefix"`
	Timeout time.Duration `yaml:"timeout"`
}

// AppSettings configures the document head.
type AppSettings struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Lang        string `yaml:"lang"`
}

// StaticSettings configures the static asset resolver.
type StaticSettings struct {
	// Dir is the served-assets root.
	Dir string `yaml:"dir"`

	// Cache is "none" or "production".
	Cache string `yaml:"cache"`
}

// AssetSettings locates the compiled asset manifest.
type AssetSettings struct {
	Manifest string `yaml:"manifest"`
}

// SSRSettings configures the render orchestrator.
type SSRSettings struct {
	// LoadTimeout bounds the loader barrier. Zero disables the bound.
	LoadTimeout time.Duration `yaml:"loadTimeout"`
}

// NavigationSettings configures the session navigation effect.
type NavigationSettings struct {
	LoginSuccess string `yaml:"loginSuccess"`
	Logout       string `yaml:"logout"`
}

// LiveSettings configures the live client session endpoint.
type LiveSettings struct {
	Path           string   `yaml:"path"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// Config is the complete startup configuration.
type Config struct {
	Env      Env
	Settings Settings

	// DevMode forces an asset-manifest refresh before every render.
	DevMode bool

	// DisableSSR bypasses routing and data loading.
	DisableSSR bool

	settingsPath string
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Host: DefaultHost,
		Port: DefaultPort,
		API: APISettings{
			Host:    "localhost",
			Port:    3030,
			Timeout: 5 * time.Second,
		},
		App: AppSettings{
			Title: "isoshell",
			Lang:  "en",
		},
		Static: StaticSettings{
			Dir:   "static",
			Cache: "none",
		},
		Assets: AssetSettings{
			Manifest: "webpack-assets.json",
		},
		SSR: SSRSettings{
			LoadTimeout: DefaultLoadTimeout,
		},
		Navigation: NavigationSettings{
			LoginSuccess: DefaultLoginSuccessPath,
			Logout:       "/",
		},
		Live: LiveSettings{
			Path: DefaultLivePath,
		},
		Metrics: MetricsSettings{
			Path:      "/metrics",
			Namespace: "isoshell",
		},
	}
}

// Load reads the environment and the settings section it selects.
func Load() (*Config, error) {
	e, err := LoadEnv()
	if err != nil {
		return nil, errors.New(errors.CodeConfig).WithSubject("environment").Wrap(err)
	}
	return LoadWith(e)
}

// LoadWith reads the settings section selected by e.
func LoadWith(e Env) (*Config, error) {
	settings, err := LoadSettings(e.SettingsPath, e.Name)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:          e,
		Settings:     settings,
		DevMode:      e.DevMode(),
		DisableSSR:   e.DisableSSR,
		settingsPath: e.SettingsPath,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSettings reads the section named envName from the YAML file at path.
// Fields the section leaves empty keep their defaults.
func LoadSettings(path, envName string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.New(errors.CodeConfig).WithSubject(path).Wrap(err)
	}
	return ParseSettings(data, envName)
}

// ParseSettings decodes the section named envName from a settings document.
func ParseSettings(data []byte, envName string) (Settings, error) {
	var sections map[string]yaml.Node
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return Settings{}, errors.New(errors.CodeConfig).
			WithDetail("Failed to parse settings: " + err.Error()).
			Wrap(err)
	}

	node, ok := sections[envName]
	if !ok {
		return Settings{}, errors.New(errors.CodeConfig).
			WithSubject(envName).
			Wrap(fmt.Errorf("no settings section %q", envName))
	}

	settings := DefaultSettings()
	if err := node.Decode(&settings); err != nil {
		return Settings{}, errors.New(errors.CodeConfig).WithSubject(envName).Wrap(err)
	}
	settings.applyDefaults()
	return settings, nil
}

// applyDefaults refills fields that a section explicitly blanked.
func (s *Settings) applyDefaults() {
	d := DefaultSettings()
	if s.Host == "" {
		s.Host = d.Host
	}
	if s.Port == 0 {
		s.Port = d.Port
	}
	if s.App.Lang == "" {
		s.App.Lang = d.App.Lang
	}
	if s.Navigation.LoginSuccess == "" {
		s.Navigation.LoginSuccess = d.Navigation.LoginSuccess
	}
	if s.Navigation.Logout == "" {
		s.Navigation.Logout = d.Navigation.Logout
	}
	if s.Live.Path == "" {
		s.Live.Path = d.Live.Path
	}
	if s.Metrics.Path == "" {
		s.Metrics.Path = d.Metrics.Path
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Settings
	if s.Port < 0 || s.Port > 65535 {
		return errors.New(errors.CodeConfig).
			WithDetail("Port must be between 0 and 65535")
	}
	if s.API.Port < 0 || s.API.Port > 65535 {
		return errors.New(errors.CodeConfig).
			WithDetail("API port must be between 0 and 65535")
	}
	if s.SSR.LoadTimeout < 0 {
		return errors.New(errors.CodeConfig).
			WithDetail("ssr.loadTimeout must not be negative")
	}
	switch s.Static.Cache {
	case "", "none", "production":
	default:
		return errors.New(errors.CodeConfig).
			WithDetail(fmt.Sprintf("static.cache must be \"none\" or \"production\", got %q", s.Static.Cache))
	}
	return nil
}

// Address returns the listen address. ISOSHELL_ADDR wins over host/port.
func (c *Config) Address() string {
	if c.Env.Addr != "" {
		return c.Env.Addr
	}
	return net.JoinHostPort(c.Settings.Host, strconv.Itoa(c.Settings.Port))
}

// APIBaseURL returns the base URL of the backend API.
func (c *Config) APIBaseURL() string {
	return "http://" + net.JoinHostPort(c.Settings.API.Host, strconv.Itoa(c.Settings.API.Port)) + c.Settings.API.Prefix
}

// Dir returns the directory containing the settings file.
func (c *Config) Dir() string {
	if c.settingsPath == "" {
		return ""
	}
	return filepath.Dir(c.settingsPath)
}

// Resolve returns p relative to the settings file directory unless absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// StaticDir returns the resolved served-assets root.
func (c *Config) StaticDir() string {
	return c.Resolve(c.Settings.Static.Dir)
}

// ManifestPath returns the resolved asset manifest path.
func (c *Config) ManifestPath() string {
	return c.Resolve(c.Settings.Assets.Manifest)
}
