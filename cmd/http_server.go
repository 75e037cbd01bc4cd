package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal/access"
	"github.com/frahmantamala/employee-dashboard/internal/auth"
	"github.com/frahmantamala/employee-dashboard/internal/clock"
	"github.com/frahmantamala/employee-dashboard/internal/leave"
	"github.com/frahmantamala/employee-dashboard/internal/payroll"
	"github.com/frahmantamala/employee-dashboard/internal/transport/rest"
	"github.com/frahmantamala/employee-dashboard/internal/transport/swagger"
	"github.com/frahmantamala/employee-dashboard/internal/user"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := app.Logger

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, app.SQLX, buildHandlers(app), cfg.Server.AllowedOrigins, lg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("Starting HTTP server", "address", addr, "timezone", app.Location.String())

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
		if err := app.Close(); err != nil {
			lg.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("Server stopped")
}

func buildHandlers(app *application) rest.Handlers {
	h := rest.Handlers{
		Auth:          auth.NewHandler(app.Auth),
		Notifier:      app.Notifier,
		Access:        access.NewHandler(app.Resolver, access.NewViewRegistry()),
		Authorization: access.NewAuthorization(app.Resolver, app.Logger),
		User:          user.NewHandler(app.Users),
		Clock:         clock.NewHandler(app.Clock),
		Leave:         leave.NewHandler(app.Leave),
		Payroll:       payroll.NewHandler(app.Payroll),
	}

	if path := app.Config.Server.OpenAPIPath; path != "" {
		doc, err := swagger.Load(context.Background(), path)
		if err != nil {
			app.Logger.Warn("OpenAPI document not served", "path", path, "error", err)
		} else {
			app.Logger.Info("OpenAPI document loaded", "path", path, "paths", len(doc.Paths()))
			h.OpenAPI = doc
		}
	}

	return h
}
