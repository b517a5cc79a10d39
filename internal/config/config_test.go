package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with a throwaway HOME.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"DARC_BACKEND_BASE_URL", "DARC_BACKEND_AUTH_TYPE", "DARC_BACKEND_TIMEOUT",
		"DARC_AUTH_SIGNUP_URL", "DARC_AUTH_LOGIN_URL", "NEXT_PUBLIC_SIGNUP_URL", "SIGNUP_URL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, AuthTypeNone, cfg.Backend.AuthType)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Equal(t, filepath.Join(dir, ".darc", "darc.db"), cfg.Storage.Path)
	assert.Equal(t, "localhost:3000", cfg.Web.Addr())
	assert.Empty(t, cfg.Auth.SignupURL)
}

func TestLoad_ConfigFileAndEnv(t *testing.T) {
	dir := isolate(t)
	yaml := `
backend:
  base_url: http://api.internal:9000/
  timeout: 5s
auth:
  login_url: http://auth.internal/login
web:
  port: 8081
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("DARC_WEB_HOST", "0.0.0.0")
	t.Setenv("NEXT_PUBLIC_SIGNUP_URL", "http://auth.internal/register")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "http://auth.internal/login", cfg.Auth.LoginURL)
	assert.Equal(t, "http://auth.internal/register", cfg.Auth.SignupURL)
	assert.Equal(t, "0.0.0.0:8081", cfg.Web.Addr())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DARC_AUTH_SIGNUP_URL=http://from-dotenv/register\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("DARC_AUTH_SIGNUP_URL") })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv/register", cfg.Auth.SignupURL)
}

func TestLoad_FlagsOverride(t *testing.T) {
	isolate(t)
	t.Setenv("DARC_BACKEND_BASE_URL", "http://env-backend")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse([]string{"--backend-url", "http://flag-backend", "--signup-url", "http://flag/signup"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "http://flag-backend", cfg.Backend.BaseURL)
	assert.Equal(t, "http://flag/signup", cfg.Auth.SignupURL)
}

func TestLoad_FlagPrecedence(t *testing.T) {
	yaml := `
backend:
  base_url: http://file-backend
web:
  host: file-host
  port: 8081
logging:
  level: warn
`
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "unset flags keep file values",
			args: nil,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://file-backend", cfg.Backend.BaseURL)
				assert.Equal(t, "file-host:8081", cfg.Web.Addr())
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Empty(t, cfg.Auth.LoginURL)
			},
		},
		{
			name: "set flags beat the file",
			args: []string{"--backend-url", "http://flag-backend", "--log-level", "debug", "--storage-path", "/tmp/flag.db", "--login-url", "http://flag/login"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://flag-backend", cfg.Backend.BaseURL)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "/tmp/flag.db", cfg.Storage.Path)
				assert.Equal(t, "http://flag/login", cfg.Auth.LoginURL)
			},
		},
		{
			name: "web listen flags",
			args: []string{"--host", "0.0.0.0", "--port", "9090"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0:9090", cfg.Web.Addr())
			},
		},
		{
			name: "port alone keeps the file host",
			args: []string{"--port", "9090"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "file-host:9090", cfg.Web.Addr())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			InitFlags(fs)
			InitWebFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg, err := Load(fs)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_WebFlagsWithoutConfig(t *testing.T) {
	isolate(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	InitWebFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", cfg.Web.Addr())
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
}

func TestLoad_InvalidAuthType(t *testing.T) {
	isolate(t)
	t.Setenv("DARC_BACKEND_AUTH_TYPE", "kerberos")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kerberos")
}
