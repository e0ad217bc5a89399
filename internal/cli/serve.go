package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/interomap/interomap/internal/config"
	"github.com/interomap/interomap/internal/server"
	"github.com/interomap/interomap/pkg/notify"
	"github.com/interomap/interomap/pkg/session"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command running the HTTP host API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath string
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the session HTTP API",
		Long: `Serve runs the HTTP API that embedding pages drive sessions through.
Sessions live in an in-memory store by default; configure a redis store for
multi-instance deployments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	hub := notify.NewHub(c.Logger)
	manager := session.NewManager(session.ManagerConfig{
		Store:    store,
		Notifier: func(id string) notify.Notifier { return hub.Notifier(id) },
		Budget:   cfg.Budget,
		TTL:      cfg.TTL.Duration,
		Logger:   c.Logger,
	})

	srv := server.New(cfg, manager, hub, c.Logger)

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Listen, "store", cfg.Store)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// newStore builds the configured session store backend.
func newStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.Store == "redis" {
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	return session.NewMemoryStore(), nil
}
