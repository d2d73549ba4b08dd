package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"injdash/config"
	"injdash/internal/admin"
	"injdash/internal/editor"
	"injdash/internal/health"
	"injdash/internal/logs"
	"injdash/internal/middleware"
	"injdash/internal/probe"
	"injdash/internal/repo"

	"github.com/gorilla/mux"
)

type App struct {
	cfg        *config.Config
	store      *repo.EquipmentStore
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) error {
	a.cfg = cfg

	/* 1) logs */
	if err := logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	}); err != nil {
		return fmt.Errorf("logs: %w", err)
	}

	/* 2) inventory + edit pipeline */
	a.store = repo.NewEquipmentStore(a.cfg.Inventory.File)
	pipe := editor.New(a.store)

	/* 3) prober */
	pinger, err := probe.NewPinger(a.cfg.Probe.Method, a.cfg.Probe.Command, a.cfg.Probe.Timeout)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	prober := probe.New(pinger, probe.Options{
		Timeout:  a.cfg.Probe.Timeout,
		CacheTTL: a.cfg.Probe.CacheTTL,
	})

	/* 4) router + middleware */
	a.Router = mux.NewRouter()
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 5) health: /healthz, /readyz */
	health.RegisterRoutesWithStore(a.Router, a.store)

	/* 6) dashboard, editor, api */
	admin.Attach(a.Router, admin.Dependencies{
		Store:   a.store,
		Editor:  pipe,
		Prober:  prober,
		Session: admin.NewSession(),
		Groups:  a.cfg.Inventory.Groups,
	})

	logs.Logger.Infof("inventory: %s, probe: method=%s timeout=%s ttl=%s",
		a.store.Path(), a.cfg.Probe.Method, a.cfg.Probe.Timeout, a.cfg.Probe.CacheTTL)

	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := rt.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		logs.Logger.Debugf("route: %-6v %s", methods, path)
		return nil
	})
	return nil
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case s := <-sigs:
			logs.Logger.Infof("shutdown signal: %s", s)
			a.cancel()
		case <-a.ctx.Done():
		}
	}()

	// WriteTimeout stays generous: a batch probe streams for as long as the
	// inventory takes to ping.
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
			a.cancel()
		}
	}()

	<-a.ctx.Done()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}

// Stop asks a running server to shut down.
func (a *App) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}
