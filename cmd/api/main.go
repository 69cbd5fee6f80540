package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"busradar.dev/internal/app"
	"busradar.dev/internal/appconf"
	"busradar.dev/internal/logging"
	"busradar.dev/internal/restapi"
	"busradar.dev/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	err := run(os.Args[1:], logger)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logging.LogError(logger, "server exited", err)
		os.Exit(1)
	}
}

func run(args []string, logger *slog.Logger) error {
	if err := appconf.LoadDotEnv(".env"); err != nil {
		return err
	}

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	var flags appconf.Flags
	flags.Register(fs)
	cfg, err := flags.Parse(fs, args, os.LookupEnv)
	if err != nil {
		return err
	}

	application := app.New(cfg, logger, app.NewUpstreamFetcher(cfg, logger))
	application.StartBackground()
	defer application.Shutdown()

	api := restapi.NewRestAPI(application)
	defer api.Close()

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     newHandler(api),
		IdleTimeout: time.Minute,
		ReadTimeout: 5 * time.Second,
		// Cold lines loads may take the whole lines timeout.
		WriteTimeout: cfg.Timeouts.Lines + 15*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String(), "upstream", cfg.Upstream.BaseURL)
	return serve(ctx, srv, logger)
}

// newHandler builds the routed, middleware-wrapped handler. The debug pages
// are only mounted in development.
func newHandler(api *restapi.RestAPI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	if api.Config.Env == appconf.Development {
		webui.SetWebUIRoutes(router, &webui.WebUI{Application: api.Application})
	}
	return api.Handler(router)
}

// serve runs srv until it fails or ctx is done, then drains in-flight
// requests.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
