package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("darc version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Backend EndpointConfig `mapstructure:"backend"`
	Auth    AuthConfig     `mapstructure:"auth"`
	Storage StorageConfig  `mapstructure:"storage"`
	Web     WebConfig      `mapstructure:"web"`
	Logging LoggingConfig  `mapstructure:"logging"`
}

// AuthType represents the type of authentication to use
type AuthType string

const (
	AuthTypeNone   AuthType = "none"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeAPIKey AuthType = "api_key"
	// AuthTypeSession sends the token stored by signup/login as a bearer token.
	AuthTypeSession AuthType = "session"
)

// Valid reports whether t is one of the known auth types.
func (t AuthType) Valid() bool {
	switch t {
	case AuthTypeNone, AuthTypeBasic, AuthTypeBearer, AuthTypeAPIKey, AuthTypeSession:
		return true
	}
	return false
}

type EndpointConfig struct {
	BaseURL    string            `json:"base_url" mapstructure:"base_url"`
	AuthType   AuthType          `json:"auth_type" mapstructure:"auth_type"`
	AuthConfig map[string]string `json:"auth_config" mapstructure:"auth_config"`
	Headers    map[string]string `json:"headers" mapstructure:"headers"`
	// Timeout of zero means requests wait for the backend indefinitely.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

type AuthConfig struct {
	SignupURL string `mapstructure:"signup_url"`
	LoginURL  string `mapstructure:"login_url"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type WebConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address of the web front end.
func (w WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// Environment variables honoured for the signup endpoint besides DARC_AUTH_SIGNUP_URL.
var signupURLEnvKeys = []string{"NEXT_PUBLIC_SIGNUP_URL", "SIGNUP_URL"}

// DefaultDataDir is where the local storage database and the TUI log live.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".darc"
	}
	return filepath.Join(home, ".darc")
}

// flagKeys maps command line flags to the config keys they override.
var flagKeys = map[string]string{
	"backend-url":  "backend.base_url",
	"signup-url":   "auth.signup_url",
	"login-url":    "auth.login_url",
	"storage-path": "storage.path",
	"log-level":    "logging.level",
	"host":         "web.host",
	"port":         "web.port",
}

// InitFlags registers the global flags on fs (without parsing).
func InitFlags(fs *pflag.FlagSet) {
	fs.String("backend-url", "", "Base URL of the analysis backend")
	fs.String("signup-url", "", "Signup endpoint URL")
	fs.String("login-url", "", "Login endpoint URL")
	fs.String("storage-path", "", "Path of the local storage database")
	fs.String("log-level", "", "Log level (debug|info|warn|error)")
}

// InitWebFlags registers the listen address flags of the web front end.
func InitWebFlags(fs *pflag.FlagSet) {
	fs.String("host", "", "Listen host (default from web.host)")
	fs.Int("port", 0, "Listen port (default from web.port)")
}

// bindFlags lets flags the user set win over every other source. Flags
// missing from fs are skipped.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.auth_type", string(AuthTypeNone))
	v.SetDefault("backend.timeout", "0s")
	v.SetDefault("storage.path", filepath.Join(DefaultDataDir(), "darc.db"))
	v.SetDefault("web.host", "localhost")
	v.SetDefault("web.port", 3000)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from defaults, config.yaml, .env, the environment and fs.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine; values may come from the real environment.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DARC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(DefaultDataDir())
	v.AddConfigPath("/etc/darc")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{"auth.signup_url", "auth.login_url", "logging.output_path"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Auth.SignupURL == "" {
		for _, key := range signupURLEnvKeys {
			if value := os.Getenv(key); value != "" {
				cfg.Auth.SignupURL = value
				break
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be fixed up later.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required, please adjust the config or pass --backend-url or DARC_BACKEND_BASE_URL environment variable")
	}
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.AuthType == "" {
		c.Backend.AuthType = AuthTypeNone
	}
	if !c.Backend.AuthType.Valid() {
		return fmt.Errorf("unsupported backend.auth_type: %s", c.Backend.AuthType)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	return nil
}
