package cmd

import (
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-plans/app/factory"
	"github.com/vibast-solutions/ms-go-plans/app/plan"
	"github.com/vibast-solutions/ms-go-plans/app/request"
	"github.com/vibast-solutions/ms-go-plans/config"

	_ "github.com/go-sql-driver/mysql"
)

func newRequestBackend(cfg *config.Config, metrics *request.Metrics) request.Backend {
	backendCfg := request.BackendConfig{
		BaseURL:    cfg.Stripe.BaseURL,
		APIKey:     cfg.Stripe.SecretKey,
		APIVersion: cfg.Stripe.APIVersion,
		Timeout:    cfg.Stripe.RequestTimeout,
	}
	httpClient := &http.Client{Timeout: cfg.Stripe.RequestTimeout}

	var backend request.Backend
	switch cfg.Stripe.Backend {
	case config.BackendStripeGo:
		backend = request.NewStripeBackend(backendCfg, httpClient, request.NewStripeLogger(factory.NewModuleLogger("stripe-go")))
	default:
		backend = request.NewHTTPBackend(backendCfg, httpClient)
	}

	return request.Instrument(backend, metrics)
}

func newPlanClient(cfg *config.Config, metrics *request.Metrics) *plan.Client {
	defaults := make([]request.Option, 0, 1)
	if cfg.Stripe.ConnectAccount != "" {
		defaults = append(defaults, request.WithConnectAccount(cfg.Stripe.ConnectAccount))
	}

	return newPlanClientWithBackend(newRequestBackend(cfg, metrics), defaults...)
}

func newPlanClientWithBackend(backend request.Backend, defaults ...request.Option) *plan.Client {
	return plan.NewClient(request.NewClient(backend, defaults...))
}

func mustOpenDatabase(cfg *config.Config) *sql.DB {
	if err := cfg.MySQL.RequireDSN(); err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}
	return db
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}
