package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/formrules"
	"github.com/dmitrymomot/formrules/pkg/clientip"
	"github.com/dmitrymomot/formrules/pkg/formhost"
	"github.com/dmitrymomot/formrules/pkg/httpserver"
	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/requestid"
)

// Config is read from the environment and an optional .env file.
type Config struct {
	HTTP         httpserver.Config `envPrefix:"FORMDEMO_"`
	Locale       string            `env:"FORMDEMO_LOCALE" envDefault:"en"`
	RulesFile    string            `env:"FORMDEMO_RULES_FILE"`
	MessagesFile string            `env:"FORMDEMO_MESSAGES_FILE"`
	ProxyHeaders []string          `env:"FORMDEMO_PROXY_HEADERS" envSeparator:","`
	LogLevel     string            `env:"FORMDEMO_LOG_LEVEL"`
	Env          string            `env:"FORMDEMO_ENV" envDefault:"development"`
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "formdemo"),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
		opts = append(opts, logger.WithLevel(level))
	}
	return logger.New(opts...)
}

// signupForm mirrors the sign-up screen of the mobile demo.
func signupForm() formhost.Form {
	return formhost.Form{
		Name: "signup",
		RuleSet: formrules.NewRuleSet().
			Field("name", formrules.MinLength(3), formrules.MaxLength(7), formrules.Required()).
			Field("email", formrules.Email()).
			Field("number", formrules.Number()).
			Field("date", formrules.Date()),
	}
}

// loadForms returns the demo form plus the one described by the rules file,
// named after the file.
func loadForms(cfg Config) ([]formhost.Form, error) {
	forms := []formhost.Form{signupForm()}
	if cfg.RulesFile == "" {
		return forms, nil
	}

	data, err := os.ReadFile(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	rs, err := formrules.ParseRuleSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.RulesFile, err)
	}

	base := filepath.Base(cfg.RulesFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return append(forms, formhost.Form{Name: name, RuleSet: rs}), nil
}

func newHandler(ctx context.Context, cfg Config, log *slog.Logger) (http.Handler, error) {
	forms, err := loadForms(cfg)
	if err != nil {
		return nil, err
	}

	var engineOpts []formrules.Option
	if cfg.MessagesFile != "" {
		msgs, err := formrules.LoadMessages(ctx, cfg.MessagesFile)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, formrules.WithMessages(msgs))
	}

	host, err := formhost.NewHost(
		formhost.WithForms(forms...),
		formhost.WithEngineOptions(engineOpts...),
		formhost.WithDefaultLocale(cfg.Locale),
		formhost.WithProxyHeaders(cfg.ProxyHeaders...),
		formhost.WithLogger(log.With(logger.Component("formhost"))),
	)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "forms registered", slog.Any("forms", host.Forms()), logger.Locale(cfg.Locale))

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthCheckHandler(log, func(context.Context) error {
		_, err := formrules.New(engineOpts...)
		return err
	}))
	r.Mount("/", host.Router())
	return r, nil
}
