// Package app wires the terminal's services together once per process.
package app

import (
	"context"
	"fmt"

	"go-pos-terminal/internal/auth"
	"go-pos-terminal/internal/cart"
	"go-pos-terminal/internal/checkout"
	"go-pos-terminal/internal/config"
	"go-pos-terminal/internal/database"
	"go-pos-terminal/internal/logger"
	"go-pos-terminal/internal/metrics"
	"go-pos-terminal/internal/shift"
	"go-pos-terminal/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is everything a running terminal holds: one store, one logged-in
// user, one cart and one current shift.
type App struct {
	Config     config.Config
	Log        *logger.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.POSMetrics
	Store      *database.Store
	Gate       *auth.Gate
	Tokens     *auth.TokenIssuer
	Ledger     *shift.Ledger
	Cart       *cart.Cart
	Checkout   *checkout.Service
	TerminalID string

	closeStore func() error
}

// New opens the configured store and builds the services on top of it.
func New(ctx context.Context, cfg config.Config, logg *logger.Logger) (*App, error) {
	backend, closer, err := database.Open(ctx, cfg.Store, logg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return NewWithBackend(cfg, logg, backend, closer), nil
}

// NewWithBackend builds the services on an existing backend.
func NewWithBackend(cfg config.Config, logg *logger.Logger, backend database.Backend, closer func() error) *App {
	if logg == nil {
		logg = logger.Nop()
	}
	if closer == nil {
		closer = func() error { return nil }
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	store := database.NewStore(backend, logg)
	gate := auth.NewGate(store, logg)
	ledger := shift.NewLedger(store, gate, m, logg)
	c := cart.New(cfg.Checkout.TaxRate)

	return &App{
		Config:     cfg,
		Log:        logg,
		Registry:   registry,
		Metrics:    m,
		Store:      store,
		Gate:       gate,
		Tokens:     auth.NewTokenIssuer(cfg.JWT),
		Ledger:     ledger,
		Cart:       c,
		Checkout:   checkout.NewService(c, store, gate, ledger, m, logg),
		TerminalID: utils.TerminalID(),
		closeStore: closer,
	}
}

// Start restores the last session user and adopts any shift left open.
func (a *App) Start(ctx context.Context) error {
	if _, _, err := a.Gate.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if err := a.Ledger.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh shift: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	return a.closeStore()
}
