// Package main boots the Shopping List Service HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fairyhunter13/shopping-list-service/internal/catalog"
	"github.com/fairyhunter13/shopping-list-service/internal/config"
	"github.com/fairyhunter13/shopping-list-service/internal/docstore"
	httpapi "github.com/fairyhunter13/shopping-list-service/internal/http"
	"github.com/fairyhunter13/shopping-list-service/internal/lists"
	"github.com/fairyhunter13/shopping-list-service/internal/obs"
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	v := config.New()
	root := &cobra.Command{
		Use:           "shopping-list-service",
		Short:         "Serve named product lists backed by a document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), config.FromViper(v))
		},
	}
	flags := root.Flags()
	flags.String("addr", ":8080", "HTTP listen address")
	flags.String("store-driver", "memory", "document store driver: memory or sqlite")
	flags.String("store-dsn", "file:lists.db?cache=shared", "sqlite data source name")
	flags.String("catalog-file", "", "YAML file seeding the product catalog")
	bind(v, config.KeyHTTPAddr, root, "addr")
	bind(v, config.KeyStoreDriver, root, "store-driver")
	bind(v, config.KeyStoreDSN, root, "store-dsn")
	bind(v, config.KeyCatalogFile, root, "catalog-file")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		obs.Logger.Error("service_failed", "error", err)
		os.Exit(1)
	}
}

func bind(v *viper.Viper, key string, cmd *cobra.Command, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func openStore(ctx context.Context, cfg config.Config) (docstore.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		return docstore.NewMemory(), func() {}, nil
	case "sqlite":
		s, err := docstore.OpenSQLite(ctx, cfg.StoreDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openCatalog(cfg config.Config) (catalog.Catalog, func(), error) {
	var base catalog.Catalog = catalog.NewMemory()
	if cfg.CatalogFile != "" {
		m, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, nil, err
		}
		base = m
	}
	if cfg.CatalogCacheTTL <= 0 {
		return base, func() {}, nil
	}
	c := catalog.NewCached(base, cfg.CatalogCacheTTL)
	c.Start()
	return c, c.Stop, nil
}

func run(ctx context.Context, cfg config.Config) error {
	obs.InitLogger(parseLevel(cfg.LogLevel))
	obs.Logger.Info("service_starting", "store_driver", cfg.StoreDriver)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	cat, stopCatalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer stopCatalog()

	svc := lists.NewService(st, cat, lists.Options{
		ListAcronym:         cfg.ListAcronym,
		ItemAcronym:         cfg.ItemAcronym,
		DefaultPageSize:     cfg.DefaultPageSize,
		MaxPageSize:         cfg.MaxPageSize,
		CompensateOnFailure: cfg.CompensateOnFailure,
	})
	app := httpapi.NewApp(svc)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	obs.Logger.Info("shutdown_signal")
	app.StartShutdown()

	// in-flight mutations finish before the store is closed
	ctxSrv, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
	return nil
}
