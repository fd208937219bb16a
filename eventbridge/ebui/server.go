package ebui

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/acksell/jassy/eventbridge/ebgen"
	"github.com/acksell/jassy/eventbridge/ebstore"
	"github.com/acksell/jassy/eventbridge/registry"
)

// ServerConfig configures the dev server.
type ServerConfig struct {
	// Port is the HTTP port to listen on.
	Port int
	// SchemaDir holds the schema registry exports. Defaults to the
	// registry default directory.
	SchemaDir string
	// DBPath is the path to the BadgerDB database. Empty for in-memory
	// mode.
	DBPath string
	// InMemory forces in-memory mode even if DBPath is set.
	InMemory bool
	// Region stamped onto generated events. Defaults to the generator
	// region.
	Region string
	// RulesFile is an optional YAML rule set applied on startup.
	RulesFile string
	// Logger receives request and lifecycle logs.
	Logger zerolog.Logger
}

// Server is the dev server: schema registry, generator and local bus
// behind one JSON API.
type Server struct {
	config     ServerConfig
	registry   *registry.Registry
	store      *ebstore.Store
	metrics    *Metrics
	promReg    *prometheus.Registry
	log        zerolog.Logger
	httpServer *http.Server
}

// NewServer creates a dev server: opens the bus store, wires delivery
// metrics, and applies the rules file when one is configured.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Region == "" {
		config.Region = ebgen.DefaultRegion
	}

	promReg := prometheus.NewRegistry()
	metrics := NewMetrics(promReg)

	store, err := ebstore.New(ebstore.Options{
		Path:       config.DBPath,
		InMemory:   config.DBPath == "" || config.InMemory,
		Region:     config.Region,
		Logger:     ebstore.NewBadgerLogger(config.Logger),
		OnDelivery: func(ebstore.Delivery) { metrics.EventsDelivered.Inc() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening bus store: %w", err)
	}

	if config.RulesFile != "" {
		n, err := store.ApplyRulesFile(context.Background(), config.RulesFile)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("applying rules file: %w", err)
		}
		config.Logger.Info().Int("rules", n).Str("file", config.RulesFile).Msg("rules applied")
	}

	return &Server{
		config:   config,
		registry: registry.New(registry.Options{Dir: config.SchemaDir}),
		store:    store,
		metrics:  metrics,
		promReg:  promReg,
		log:      config.Logger,
	}, nil
}

// Handler builds the full route tree. Exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))

	api := NewAPIHandler(s.registry, s.store, s.metrics, s.config.Region, s.log)
	r.Route("/api", api.Routes)
	return r
}

// Run starts the server and blocks until shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		s.log.Info().Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.httpServer.Shutdown(ctx)
		s.store.Close()
		close(done)
	}()

	s.printBanner()

	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	<-done
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Server) printBanner() {
	schemaCount := 0
	if entries, err := s.registry.List(); err == nil {
		schemaCount = len(entries)
	}

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  EventBridge Dev Server                      ║")
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Printf("║  URL: http://localhost:%-38d║\n", s.config.Port)
	if s.config.DBPath == "" || s.config.InMemory {
		fmt.Println("║  Mode: In-memory (archive is lost on exit)                   ║")
	} else {
		fmt.Printf("║  Database: %-51s║\n", truncate(s.config.DBPath, 51))
	}
	fmt.Printf("║  Schemas: %-3d in %-44s║\n", schemaCount, truncate(s.registry.Dir(), 44))
	fmt.Println("╠══════════════════════════════════════════════════════════════╣")
	fmt.Println("║  Press Ctrl+C to stop                                        ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// loggingMiddleware logs one line per request via zerolog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path == "/favicon.ico" {
			return
		}
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// metricsMiddleware observes request duration per chi route pattern, so
// /api/events/{id} is one series instead of one per id.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// corsMiddleware adds CORS headers for development.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
