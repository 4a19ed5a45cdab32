package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedsync/core/loader"
	"feedsync/core/logger"
	"feedsync/core/middleware/auth"
	"feedsync/core/middleware/rayid"
	"feedsync/feature/accounts"
	"feedsync/feature/feeds"
	"feedsync/feature/health"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "feedsync/docs/swagger"
)

// @title feedsync API
// @version 1.0
// @description Feed registration, refresh and reader state.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server and mounts the feeds, accounts and health features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context(), prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		defer d.close()
		logg := d.logger
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(feeds.NewFeature(d.db, d.fetcher, d.metrics, logg))
		mgr.Register(accounts.NewFeature(d.db, logg))
		mgr.Register(health.NewFeature(d.db, d.store, d.cfg.Storage.Bucket, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
				return err
			}
			l.Info("Request handled", fields...)
			return nil
		})

		// Public endpoints.
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		app.Use(auth.New(auth.Config{ApiKey: d.cfg.Server.ApiKey, Public: []string{"/health"}}))
		if !d.cfg.Server.AuthEnabled() {
			logg.Warn("API key not configured, requests are not authenticated")
		}

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", d.cfg.Server.ListenAddr()))
			errCh <- app.Listen(d.cfg.Server.ListenAddr())
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(time.Duration(d.cfg.Server.ShutdownSeconds) * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
