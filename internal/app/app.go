package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/weekview/internal/config"
	"github.com/klokku/weekview/internal/utils"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, the week view services, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication loads the configuration from cfgPath and constructs the full HTTP
// application, ready to Run().
func NewApplication(cfgPath string) (*Application, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	return NewApplicationWithConfig(cfg, utils.SystemClock{})
}

func NewApplicationWithConfig(cfg config.Application, clock utils.Clock) (*Application, error) {
	deps, err := BuildDependencies(cfg, clock)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run lays out the initial view, starts the HTTP server and blocks until ctx is cancelled
// or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if _, err := a.deps.WeekService.Week(ctx, time.Time{}, 0); err != nil {
		log.Errorf("failed to compute the initial view: %v", err)
	}
	defer a.deps.NowIndicator.Stop()

	stopRefresh, err := startCalendarRefresh(a.cfg.Calendar, a.deps)
	if err != nil {
		return err
	}
	defer stopRefresh()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.srv.Shutdown(shutdownCtx)
}
