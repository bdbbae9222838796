package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"calmd/internal/controllers"
	"calmd/internal/persistence"
	"calmd/internal/persistence/interfaces"
	"calmd/internal/providers"
	"calmd/internal/services"
	"calmd/internal/storage"
	"calmd/internal/structures"
)

type App struct {
	WebServer *http.Server

	conf        *structures.Config
	logger      providers.Logger
	scheduler   interfaces.SchedulerInterface
	sessions    services.SessionServiceInterface
	store       storage.Store
	fileManager *persistence.FileManager
}

// NewApp assembles the HTTP handler tree and restores the last snapshot.
// Nothing listens until Run is called.
func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, fileManager *persistence.FileManager, sessions services.SessionServiceInterface, store storage.Store, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, router, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	logger.Infof(providers.TypeApp, "Starting %s with %s storage", conf.AppName, conf.Storage.Driver)
	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:        conf,
		logger:      logger,
		scheduler:   scheduler,
		sessions:    sessions,
		store:       store,
		fileManager: fileManager,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down and persists a final snapshot.
func (app *App) Run() error {
	app.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", app.WebServer.Addr)
		if err := app.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		app.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	app.scheduler.Stop()
	app.sessions.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.WebServer.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if err := app.scheduler.Persist(); err != nil && runErr == nil {
		runErr = err
	}
	if err := app.store.Close(); err != nil && runErr == nil {
		runErr = err
	}
	app.fileManager.Close()

	if runErr == nil {
		app.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}
