package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	dir := filepath.Join(homeDir, ".config", "tronclass")
	assert.Equal(t, Config{
		FetcherRPM: 60,
		Login: Login{
			Attempts:    3,
			BackoffBase: 500 * time.Millisecond,
			BackoffMax:  5 * time.Second,
			PageMarker:  "forget-password",
		},
		RequestTimeout: 30 * time.Second,
		Captcha:        Captcha{Mode: CaptchaPrompt},
		RateLimit: RateLimit{
			Backend:   RateLimitMemory,
			RedisAddr: "127.0.0.1:6379",
			RedisKey:  "tc:ratewindow",
		},
		Log:          Log{Level: "warn", Format: "text"},
		ProfilesPath: filepath.Join(dir, "profiles.toml"),
		SecretsDir:   filepath.Join(dir, "secrets"),
	}, cfg)
}

func TestLoadReadsConfigFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	dir := filepath.Join(homeDir, ".config", "tronclass")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(strings.Join([]string{
		`fetcher_rpm = 20`,
		`reauth_on_expiry = true`,
		``,
		`[login]`,
		`attempts = 5`,
		`backoff_base = "1s"`,
		`backoff_max = "10s"`,
		`page_marker = "login-error"`,
		``,
		`[captcha]`,
		`mode = "command"`,
		`command = "ocr-captcha --digits 4"`,
		``,
		`[ratelimit]`,
		`backend = "redis"`,
		`redis_addr = "redis.internal:6379"`,
		``,
	}, "\n")), 0o600))

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.FetcherRPM)
	assert.True(t, cfg.ReauthOnExpiry)
	assert.Equal(t, Login{Attempts: 5, BackoffBase: time.Second, BackoffMax: 10 * time.Second, PageMarker: "login-error"}, cfg.Login)
	assert.Equal(t, Captcha{Mode: CaptchaCommand, Command: "ocr-captcha --digits 4"}, cfg.Captcha)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.RateLimit.RedisAddr)
	assert.Equal(t, "tc:ratewindow", cfg.RateLimit.RedisKey)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TC_BASE_URL", "https://tronclass.example.edu.tw")
	t.Setenv("TC_FETCHER_RPM", "15")
	t.Setenv("TC_LOG_LEVEL", "debug")
	t.Setenv("TC_CAPTCHA_MODE", "http")
	t.Setenv("TC_CAPTCHA_ENDPOINT", "http://127.0.0.1:9000/solve")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://tronclass.example.edu.tw", cfg.BaseURL)
	assert.Equal(t, 15, cfg.FetcherRPM)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, Captcha{Mode: CaptchaHTTP, Endpoint: "http://127.0.0.1:9000/solve"}, cfg.Captcha)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	dir := filepath.Join(homeDir, ".config", "tronclass")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("fetcher_rpm = ["), 0o600))

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := Config{
		FetcherRPM:     -1,
		Login:          Login{Attempts: 0, BackoffBase: time.Second, BackoffMax: time.Millisecond},
		RequestTimeout: 0,
		Captcha:        Captcha{Mode: CaptchaCommand},
		RateLimit:      RateLimit{Backend: "etcd"},
		Log:            Log{Level: "loud", Format: "xml"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"fetcher_rpm must not be negative",
		"login.attempts must be at least 1",
		"login.backoff_max must not be lower than login.backoff_base",
		"login.page_marker must not be empty",
		"request_timeout must be positive",
		"captcha.command is required",
		`unsupported ratelimit.backend "etcd"`,
		`unsupported log level "loud"`,
		`unsupported log.format "xml"`,
	} {
		assert.ErrorContains(t, err, want)
	}
}

func TestRPMPrefersProfile(t *testing.T) {
	t.Parallel()

	cfg := Config{FetcherRPM: 20}
	assert.Equal(t, 5, cfg.RPM(domain.Profile{FetcherRPM: 5}))
	assert.Equal(t, 20, cfg.RPM(domain.Profile{}))
	assert.Equal(t, domain.DefaultFetcherRPM, Config{}.RPM(domain.Profile{}))
}
