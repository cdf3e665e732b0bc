package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/velora-shop/storefront-go/internal/api"
	"github.com/velora-shop/storefront-go/internal/cart"
	"github.com/velora-shop/storefront-go/internal/catalog"
	"github.com/velora-shop/storefront-go/internal/checkout"
	"github.com/velora-shop/storefront-go/internal/cli"
	"github.com/velora-shop/storefront-go/internal/payment"
	"github.com/velora-shop/storefront-go/internal/session"
	"github.com/velora-shop/storefront-go/internal/storage"
	"github.com/velora-shop/storefront-go/internal/transport"
	"github.com/velora-shop/storefront-go/pkg/availability"
)

// Run creates all dependencies and hands control to the interactive CLI.
// It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	ctx = zctx.Base(ctx, lg)
	lg.Info("Initializing", zap.String("base_url", cfg.APIBaseURL), zap.String("env", cfg.Env))

	store := openStorage(lg, cfg.Storage)
	tokens := storage.NewTokens(store)

	tr, err := transport.New(transport.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.HTTP.Timeout,
		UserAgent:      "velora-storefront-go",
		TracerProvider: m.TracerProvider(),
	}, tokens)
	if err != nil {
		return err
	}
	apiClient := api.New(tr)

	// Stores. Session hydrates from storage only; verification of a cached
	// token is left to the first 401 and the refresh protocol.
	sessions := session.New(store, apiClient)
	sessions.Initialize(ctx)
	carts := cart.New(ctx, store)
	catalogs := catalog.New(apiClient)
	orders := checkout.NewWorkflow(apiClient, payment.NewStripe(cfg.Stripe.PublishableKey))

	prober := availability.New(availability.Config{Interval: cfg.Probe.Interval}, apiClient.Ping)
	prober.Start(ctx)
	defer prober.Stop()

	return cli.New(cli.Deps{
		Sessions: sessions,
		Carts:    carts,
		Catalog:  catalogs,
		Orders:   orders,
		Prober:   prober,
	}).Run(ctx)
}

// openStorage picks the persistence backend. Failures degrade rather than
// abort: a storefront that cannot persist still works, it just forgets.
func openStorage(lg *zap.Logger, cfg StorageConfig) storage.Storage {
	switch cfg.Backend {
	case "none":
		return storage.Noop{}
	case "memory":
		return storage.NewMemory()
	case "keyring":
		k, err := storage.NewKeyring()
		if err == nil {
			return k
		}
		lg.Warn("Keyring unavailable, falling back to state file", zap.Error(err))
	}

	path := cfg.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			lg.Warn("No home directory, state will not persist", zap.Error(err))
			return storage.NewMemory()
		}
		path = filepath.Join(home, ".velora", "state.json")
	}
	f, err := storage.NewFile(path)
	if err != nil {
		lg.Warn("State file unavailable, state will not persist", zap.Error(err))
		return storage.NewMemory()
	}
	return f
}
