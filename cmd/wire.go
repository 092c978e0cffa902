package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/tronclass-cli/internal/adapters/captcha"
	"github.com/bnema/tronclass-cli/internal/adapters/cas"
	memorylimiter "github.com/bnema/tronclass-cli/internal/adapters/ratelimit/memory"
	redislimiter "github.com/bnema/tronclass-cli/internal/adapters/ratelimit/redis"
	portalrender "github.com/bnema/tronclass-cli/internal/adapters/render/portal"
	tomlrepo "github.com/bnema/tronclass-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/tronclass-cli/internal/adapters/secrets/chain"
	"github.com/bnema/tronclass-cli/internal/adapters/telemetry"
	"github.com/bnema/tronclass-cli/internal/adapters/transport"
	"github.com/bnema/tronclass-cli/internal/application"
	"github.com/bnema/tronclass-cli/internal/config"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/logger"
	"github.com/bnema/tronclass-cli/internal/ports"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// passwordKey resolves to TC_PASSWORD through the viper env binding.
const passwordKey = "password"

var errLoginFailed = errors.New("login failed")

type app struct {
	opts        *rootOptions
	cfg         config.Config
	v           *viper.Viper
	profiles    *application.ProfileService
	secretStore ports.SecretStore
	render      renderers
	now         func() time.Time
}

type renderers struct {
	todos    func([]domain.TodoItem, portalrender.RenderOptions) (string, error)
	courses  func([]domain.Course) (string, error)
	recent   func([]domain.VisitedCourse) (string, error)
	homework func(int64, []domain.HomeworkActivity, portalrender.RenderOptions) (string, error)
}

func wireApp(opts *rootOptions) (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		opts:        opts,
		cfg:         cfg,
		v:           v,
		profiles:    application.NewProfileService(repo, secretStore),
		secretStore: secretStore,
		render: renderers{
			todos:    portalrender.RenderTodos,
			courses:  portalrender.RenderCourses,
			recent:   portalrender.RenderRecent,
			homework: portalrender.RenderHomework,
		},
		now: time.Now,
	}, nil
}

// portalSession is one logged-in session plus everything that has to be
// released when the command ends.
type portalSession struct {
	session   *application.Session
	api       *application.API
	target    application.LoginTarget
	logger    *slog.Logger
	collector *telemetry.Collector
	closers   []func() error
}

func (a *app) newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level := a.cfg.Log.Level
	if a.opts.logLevel != "" {
		level = a.opts.logLevel
	}
	return logger.New(level, a.cfg.Log.Format, cmd.ErrOrStderr())
}

func (a *app) openSession(cmd *cobra.Command) (*portalSession, error) {
	ctx := cmd.Context()

	log, err := a.newLogger(cmd)
	if err != nil {
		return nil, err
	}

	target, err := a.profiles.ResolveLoginTarget(ctx, domain.ProfileName(a.opts.profile), a.v.GetString(passwordKey))
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w (create it with `tc profile set --name %s`)", err, a.opts.profile)
		}
		return nil, err
	}

	baseURL := target.Profile.BaseURL
	if baseURL == "" {
		baseURL = a.cfg.BaseURL
	}

	ps := &portalSession{target: target, logger: log.With("profile", string(target.Profile.Name))}

	limiter, err := a.newLimiter(ps, a.cfg.RPM(target.Profile))
	if err != nil {
		return nil, err
	}

	transportOpts := []transport.Option{transport.WithRequestTimeout(a.cfg.RequestTimeout)}
	sessionOpts := []application.SessionOption{
		application.WithLogger(ps.logger),
		application.WithRetryPolicy(application.RetryPolicy{
			Attempts: a.cfg.Login.Attempts,
			Base:     a.cfg.Login.BackoffBase,
			Max:      a.cfg.Login.BackoffMax,
		}),
		application.WithReauthOnExpiry(a.cfg.ReauthOnExpiry),
	}
	if a.opts.metrics {
		collector, err := telemetry.NewCollector()
		if err != nil {
			_ = ps.close(ctx)
			return nil, fmt.Errorf("wire metrics: %w", err)
		}
		ps.collector = collector
		transportOpts = append(transportOpts, transport.WithMetrics(collector.Recorder))
		sessionOpts = append(sessionOpts, application.WithMetrics(collector.Recorder))
	}

	client, err := transport.NewClient(limiter, transportOpts...)
	if err != nil {
		_ = ps.close(ctx)
		return nil, fmt.Errorf("wire transport: %w", err)
	}

	flow := cas.Client{Transport: client, IsLoginPage: cas.ContainsMarker(a.cfg.Login.PageMarker)}
	session, err := application.NewSession(client, flow, sessionOpts...)
	if err != nil {
		_ = ps.close(ctx)
		return nil, fmt.Errorf("wire session: %w", err)
	}
	if err := session.SetBaseURL(baseURL); err != nil {
		_ = ps.close(ctx)
		return nil, err
	}

	ps.session = session
	ps.api = application.NewAPI(session)
	return ps, nil
}

func (a *app) newLimiter(ps *portalSession, rpm int) (ports.RateLimiter, error) {
	switch a.cfg.RateLimit.Backend {
	case config.RateLimitRedis:
		client := goredis.NewClient(&goredis.Options{Addr: a.cfg.RateLimit.RedisAddr})
		ps.closers = append(ps.closers, client.Close)
		return redislimiter.NewLimiter(client, a.cfg.RateLimit.RedisKey, rpm, domain.DefaultRateWindow, ports.SystemClock{}), nil
	case config.RateLimitMemory:
		return memorylimiter.NewLimiter(rpm, domain.DefaultRateWindow, ports.SystemClock{}), nil
	default:
		return nil, fmt.Errorf("unsupported %s %q", config.KeyRateBackend, a.cfg.RateLimit.Backend)
	}
}

func (a *app) newSolver(cmd *cobra.Command) (ports.CaptchaSolver, error) {
	switch a.cfg.Captcha.Mode {
	case config.CaptchaCommand:
		return captcha.NewCommandSolver(a.cfg.Captcha.Command)
	case config.CaptchaHTTP:
		return captcha.NewHTTPSolver(a.cfg.Captcha.Endpoint, &http.Client{Timeout: a.cfg.RequestTimeout})
	case config.CaptchaPrompt:
		return captcha.NewPromptSolver(cmd.InOrStdin(), cmd.ErrOrStderr()), nil
	default:
		return nil, fmt.Errorf("unsupported %s %q", config.KeyCaptchaMode, a.cfg.Captcha.Mode)
	}
}

// login runs the CAS flow. The spinner is skipped for the prompt solver,
// which needs the terminal for itself.
func (a *app) login(cmd *cobra.Command, ps *portalSession) (domain.LoginResult, error) {
	solver, err := a.newSolver(cmd)
	if err != nil {
		return domain.LoginResult{}, err
	}

	creds := ps.target.Credentials
	var result domain.LoginResult
	doLogin := func(ctx context.Context) error {
		var loginErr error
		result, loginErr = ps.session.Login(ctx, creds.Username, creds.Password, solver)
		return loginErr
	}

	if a.cfg.Captcha.Mode == config.CaptchaPrompt {
		err = doLogin(cmd.Context())
	} else {
		err = runLoginSpinner(cmd.Context(), cmd.ErrOrStderr(), doLogin)
	}
	if err != nil {
		return result, err
	}
	if !result.Success {
		return result, fmt.Errorf("%w: %s", errLoginFailed, result.Message)
	}

	return result, nil
}

// withSession opens a session, logs in and hands it to fn.
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, ps *portalSession) error) (err error) {
	ps, err := a.openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if summaryErr := ps.writeSummary(cmd); summaryErr != nil && err == nil {
			err = summaryErr
		}
		if closeErr := ps.close(cmd.Context()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := a.login(cmd, ps); err != nil {
		return err
	}

	return fn(cmd.Context(), ps)
}

func (ps *portalSession) writeSummary(cmd *cobra.Command) error {
	if ps.collector == nil {
		return nil
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "metrics:")
	return ps.collector.WriteSummary(cmd.Context(), cmd.ErrOrStderr())
}

func (ps *portalSession) close(ctx context.Context) error {
	var errs []error
	if ps.collector != nil {
		if err := ps.collector.Shutdown(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metrics: %w", err))
		}
	}
	for _, closeFn := range ps.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
