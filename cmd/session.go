package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yates-Labs/storyjourney/internal/config"
	"github.com/Yates-Labs/storyjourney/internal/logger"
	"github.com/Yates-Labs/storyjourney/internal/narrative"
	"github.com/Yates-Labs/storyjourney/internal/orchestrator"
)

// session bundles everything a command needs to play one story.
type session struct {
	config *config.Config
	logger *zap.Logger
	orch   *orchestrator.Orchestrator
	server *http.Server
}

// newSession loads configuration, applies flag overrides and wires the
// generation client chain. quietTerminal drops log lines aimed at the
// terminal so they do not tear a full-screen UI.
func newSession(cmd *cobra.Command, quietTerminal bool) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)

	log := zap.NewNop()
	if !quietTerminal || !isTerminalOutput(cfg.LogOutput) {
		log, err = logger.New(cfg.LoggerConfig())
		if err != nil {
			return nil, err
		}
	}
	log.Info("Configuration loaded", zap.Stringer("config", cfg))

	registry := prometheus.NewRegistry()
	client, err := buildClient(cfg, registry)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(client, nil, orchestrator.Config{
		DegradeOnImageFailure: cfg.DegradeOnImageFailure,
	}, log)

	s := &session{config: cfg, logger: log, orch: orch}
	if cfg.MetricsAddr != "" {
		s.server = startMetricsServer(cfg.MetricsAddr, registry, log)
	}
	return s, nil
}

// close stops the metrics server and flushes logs.
func (s *session) close() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("call-timeout") {
		cfg.CallTimeout = callTimeout
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
}

// buildClient assembles OpenAI -> image cache -> metrics.
func buildClient(cfg *config.Config, reg prometheus.Registerer) (narrative.Client, error) {
	base, err := narrative.NewOpenAIClient(cfg.LLMConfig())
	if err != nil {
		return nil, err
	}

	var client narrative.Client = base
	if cfg.ImageCacheTTL > 0 {
		client = narrative.NewCachedImageClient(client, cfg.ImageCacheTTL)
	}
	return narrative.NewInstrumentedClient(client, narrative.NewMetrics(reg)), nil
}

// startMetricsServer serves /metrics and /health until the session closes.
func startMetricsServer(addr string, gatherer prometheus.Gatherer, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("Serving metrics", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return server
}

func isTerminalOutput(path string) bool {
	return path == "" || path == "stderr" || path == "stdout"
}
