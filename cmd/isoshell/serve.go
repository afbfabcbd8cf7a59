package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/isoshell/internal/app"
	"github.com/vango-dev/isoshell/internal/config"
	"github.com/vango-dev/isoshell/pkg/apiclient"
	"github.com/vango-dev/isoshell/pkg/assets"
	"github.com/vango-dev/isoshell/pkg/live"
	"github.com/vango-dev/isoshell/pkg/middleware"
	"github.com/vango-dev/isoshell/pkg/navigate"
	"github.com/vango-dev/isoshell/pkg/ssr"
	"github.com/vango-dev/isoshell/pkg/static"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Env.Addr = addr
			}
			logger := newLogger(os.Stderr, cfg.DevMode)

			srv, err := newServer(cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					logger.Info("shutting down")
					cancel()
				case <-ctx.Done():
				}
			}()

			ln, err := net.Listen("tcp", cfg.Address())
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Listening on http://%s", ln.Addr())
			return srv.serve(ctx, ln)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides settings and ISOSHELL_ADDR)")

	return cmd
}

// server is the assembled HTTP application.
type server struct {
	handler  http.Handler
	live     *live.Server
	assets   *assets.FileProvider
	registry *prometheus.Registry
	logger   *slog.Logger
}

// appOptions maps settings to the bundled application's options.
func appOptions(cfg *config.Config) app.Options {
	return app.Options{
		Title:        cfg.Settings.App.Title,
		Description:  cfg.Settings.App.Description,
		LoginSuccess: cfg.Settings.Navigation.LoginSuccess,
	}
}

// newServer wires the route table, the static resolver, the orchestrator and
// the live endpoint behind one chi router.
func newServer(cfg *config.Config, logger *slog.Logger) (*server, error) {
	s := cfg.Settings

	api, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL(),
		Timeout: s.API.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	table, err := app.New(api, appOptions(cfg))
	if err != nil {
		return nil, err
	}
	manifest, err := assets.NewFileProvider(cfg.ManifestPath(), logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(
		middleware.WithRegistry(registry),
		middleware.WithNamespace(s.Metrics.Namespace),
	)

	ssrCfg := ssr.DefaultConfig()
	ssrCfg.Table = table
	ssrCfg.Static = static.New(static.Config{
		Dir:    cfg.StaticDir(),
		Cache:  static.CacheMode(s.Static.Cache),
		Logger: logger,
	})
	ssrCfg.Assets = manifest
	ssrCfg.DevMode = cfg.DevMode
	ssrCfg.DisableSSR = cfg.DisableSSR
	ssrCfg.LoadTimeout = s.SSR.LoadTimeout
	ssrCfg.Lang = s.App.Lang
	ssrCfg.Title = s.App.Title
	ssrCfg.Context = func(ctx context.Context, req ssr.Request) context.Context {
		return apiclient.ForwardCookies(ctx, req.Headers.Get("Cookie"))
	}
	ssrCfg.Observer = ssr.Observers{metrics, middleware.SpanEvents{}}
	ssrCfg.Logger = logger
	orchestrator, err := ssr.New(ssrCfg)
	if err != nil {
		return nil, err
	}

	liveCfg := live.DefaultConfig()
	liveCfg.AllowedOrigins = s.Live.AllowedOrigins
	liveCfg.Navigation = []navigate.Option{
		navigate.WithLoginLocation(s.Navigation.LoginSuccess),
		navigate.WithLogoutLocation(s.Navigation.Logout),
	}
	liveCfg.Metrics = metrics
	liveCfg.Logger = logger
	liveSrv := live.NewServer(liveCfg)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Handler)
	r.Use(middleware.Tracing(middleware.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != s.Metrics.Path
	})))

	r.Handle(s.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Handle(s.Live.Path, liveSrv)
	r.Handle("/*", orchestrator)

	logger.Info("server configured",
		"env", cfg.Env.Name,
		"dev", cfg.DevMode,
		"ssr", !cfg.DisableSSR,
		"api", cfg.APIBaseURL(),
		"static", cfg.StaticDir(),
		"routes", len(table.Routes()))

	return &server{
		handler:  r,
		live:     liveSrv,
		assets:   manifest,
		registry: registry,
		logger:   logger,
	}, nil
}

// serve runs until ctx is cancelled, then drains connections.
func (s *server) serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.live.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
