package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"restaurant_reservation/internal/api"
	"restaurant_reservation/internal/config"
	"restaurant_reservation/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func NewServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			setupLogging(cfg)
			if cfg.IsProd {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if migrate && cfg.DBDriver != "memory" {
				if err := migrateSchema(func() (*gorm.DB, error) { return db.Open(cfg) }); err != nil {
					return err
				}
			}

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			router := api.NewRouter(a.engine, a.redis, cfg.CacheTTL)
			if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              ":" + cfg.AppPort,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logrus.WithField("port", cfg.AppPort).Info("Server running")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			logrus.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run schema migration before serving")
	return cmd
}

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			setupLogging(cfg)
			return migrateSchema(func() (*gorm.DB, error) { return db.Open(cfg) })
		},
	}
}

// migrateSchema runs the schema migration on a dedicated connection and
// closes it before returning.
func migrateSchema(open func() (*gorm.DB, error)) error {
	gdb, err := open()
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return db.Migrate(gdb)
}
