package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/logger"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "TC"
	configName = "config"
	configType = "toml"
	configDir  = ".config/tronclass"
)

const (
	KeyBaseURL        = "base_url"
	KeyFetcherRPM     = "fetcher_rpm"
	KeyLoginAttempts  = "login.attempts"
	KeyBackoffBase    = "login.backoff_base"
	KeyBackoffMax     = "login.backoff_max"
	KeyPageMarker     = "login.page_marker"
	KeyRequestTimeout = "request_timeout"
	KeyReauthOnExpiry = "reauth_on_expiry"
	KeyCaptchaMode    = "captcha.mode"
	KeyCaptchaCommand = "captcha.command"
	KeyCaptchaURL     = "captcha.endpoint"
	KeyRateBackend    = "ratelimit.backend"
	KeyRedisAddr      = "ratelimit.redis_addr"
	KeyRedisKey       = "ratelimit.redis_key"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyProfilesPath   = "profiles.path"
	KeySecretsDir     = "secrets.dir"
)

const (
	CaptchaPrompt  = "prompt"
	CaptchaCommand = "command"
	CaptchaHTTP    = "http"

	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

type Login struct {
	Attempts    int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	PageMarker  string
}

type Captcha struct {
	Mode     string
	Command  string
	Endpoint string
}

type RateLimit struct {
	Backend   string
	RedisAddr string
	RedisKey  string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	BaseURL        string
	FetcherRPM     int
	Login          Login
	RequestTimeout time.Duration
	ReauthOnExpiry bool
	Captcha        Captcha
	RateLimit      RateLimit
	Log            Log
	ProfilesPath   string
	SecretsDir     string
}

// Dir returns the directory holding config.toml, profiles.toml and the file
// secret store.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, filepath.FromSlash(configDir)), nil
}

func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyFetcherRPM, domain.DefaultFetcherRPM)
	v.SetDefault(KeyLoginAttempts, 3)
	v.SetDefault(KeyBackoffBase, 500*time.Millisecond)
	v.SetDefault(KeyBackoffMax, 5*time.Second)
	v.SetDefault(KeyPageMarker, domain.DefaultLoginPageMarker)
	v.SetDefault(KeyRequestTimeout, 30*time.Second)
	v.SetDefault(KeyReauthOnExpiry, false)
	v.SetDefault(KeyCaptchaMode, CaptchaPrompt)
	v.SetDefault(KeyCaptchaCommand, "")
	v.SetDefault(KeyCaptchaURL, "")
	v.SetDefault(KeyRateBackend, RateLimitMemory)
	v.SetDefault(KeyRedisAddr, "127.0.0.1:6379")
	v.SetDefault(KeyRedisKey, "tc:ratewindow")
	v.SetDefault(KeyLogLevel, string(logger.WarnLevel))
	v.SetDefault(KeyLogFormat, logger.FormatText)
	v.SetDefault(KeyProfilesPath, filepath.Join(dir, "profiles.toml"))
	v.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
}

// Load reads $HOME/.config/tronclass/config.toml (optional) with TC_*
// environment overrides and validates the result.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	SetDefaults(v, dir)
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		BaseURL:    strings.TrimSpace(v.GetString(KeyBaseURL)),
		FetcherRPM: v.GetInt(KeyFetcherRPM),
		Login: Login{
			Attempts:    v.GetInt(KeyLoginAttempts),
			BackoffBase: v.GetDuration(KeyBackoffBase),
			BackoffMax:  v.GetDuration(KeyBackoffMax),
			PageMarker:  strings.TrimSpace(v.GetString(KeyPageMarker)),
		},
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		ReauthOnExpiry: v.GetBool(KeyReauthOnExpiry),
		Captcha: Captcha{
			Mode:     strings.ToLower(strings.TrimSpace(v.GetString(KeyCaptchaMode))),
			Command:  strings.TrimSpace(v.GetString(KeyCaptchaCommand)),
			Endpoint: strings.TrimSpace(v.GetString(KeyCaptchaURL)),
		},
		RateLimit: RateLimit{
			Backend:   strings.ToLower(strings.TrimSpace(v.GetString(KeyRateBackend))),
			RedisAddr: strings.TrimSpace(v.GetString(KeyRedisAddr)),
			RedisKey:  strings.TrimSpace(v.GetString(KeyRedisKey)),
		},
		Log: Log{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		ProfilesPath: v.GetString(KeyProfilesPath),
		SecretsDir:   v.GetString(KeySecretsDir),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.FetcherRPM < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyFetcherRPM))
	}
	if c.Login.Attempts < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1", KeyLoginAttempts))
	}
	if c.Login.BackoffBase < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyBackoffBase))
	}
	if c.Login.BackoffMax < c.Login.BackoffBase {
		errs = append(errs, fmt.Errorf("%s must not be lower than %s", KeyBackoffMax, KeyBackoffBase))
	}
	if c.Login.PageMarker == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyPageMarker))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyRequestTimeout))
	}

	switch c.Captcha.Mode {
	case CaptchaPrompt:
	case CaptchaCommand:
		if c.Captcha.Command == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s is %q", KeyCaptchaCommand, KeyCaptchaMode, CaptchaCommand))
		}
	case CaptchaHTTP:
		if c.Captcha.Endpoint == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s is %q", KeyCaptchaURL, KeyCaptchaMode, CaptchaHTTP))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported %s %q", KeyCaptchaMode, c.Captcha.Mode))
	}

	switch c.RateLimit.Backend {
	case RateLimitMemory:
	case RateLimitRedis:
		if c.RateLimit.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s is %q", KeyRedisAddr, KeyRateBackend, RateLimitRedis))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported %s %q", KeyRateBackend, c.RateLimit.Backend))
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unsupported %s %q", KeyLogFormat, c.Log.Format))
	}

	return errors.Join(errs...)
}

// RPM resolves the effective requests-per-minute for a profile: the profile
// value wins over the global setting.
func (c Config) RPM(profile domain.Profile) int {
	if profile.FetcherRPM > 0 {
		return profile.FetcherRPM
	}
	if c.FetcherRPM > 0 {
		return c.FetcherRPM
	}
	return domain.DefaultFetcherRPM
}
