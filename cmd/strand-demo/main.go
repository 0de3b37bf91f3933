// Package main implements a small demonstration binary for the strand
// cooperative scheduling engine. It loads configuration, sets up
// structured logging, exposes Prometheus metrics over HTTP, and runs a
// handful of showcase tasks through the engine.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/strand"
	"github.com/phrazzld/strand/internal/config"
	"github.com/phrazzld/strand/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("strand-demo failed: %v", err)
	}
}

// run loads configuration, assembles the engine, and drives the demo
// workload until it drains or the process is interrupted.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"submit_queue_size", cfg.Engine.SubmitQueueSize,
		"poll_interval", cfg.Engine.PollInterval,
		"default_read_timeout", cfg.Engine.DefaultReadTimeout,
		"log_level", cfg.Log.Level,
		"metrics_addr", cfg.Metrics.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	metricsSrv := startMetricsServer(cfg.Metrics, appLogger)
	if metricsSrv != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				appLogger.Warn("metrics server shutdown failed", "error", err)
			}
		}()
	}

	eng := strand.New(strand.Config{
		SubmitQueueSize:    cfg.Engine.SubmitQueueSize,
		PollInterval:       cfg.Engine.PollInterval,
		DefaultReadTimeout: cfg.Engine.DefaultReadTimeout,
	}, appLogger)

	sleeper, err := eng.Submit(&sleepingGreeter{delay: 200 * time.Millisecond})
	if err != nil {
		return fmt.Errorf("failed to submit sleeper task: %w", err)
	}

	listener, err := eng.Submit(&signalListener{name: "demo.greeting", timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("failed to submit listener task: %w", err)
	}

	reader, err := eng.Submit(&sourceReader{src: &replaySource{data: []byte("stream me")}})
	if err != nil {
		return fmt.Errorf("failed to submit reader task: %w", err)
	}

	// Deliver the greeting from outside the loop once the listener has
	// had a chance to park.
	go func() {
		time.Sleep(50 * time.Millisecond)
		if err := eng.PublishExternal("demo.greeting", "hello from outside"); err != nil {
			appLogger.Warn("publish failed", "error", err)
		}
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- eng.Run(ctx) }()

	for name, handle := range map[string]*strand.TaskHandle{
		"sleeper":  sleeper,
		"listener": listener,
		"reader":   reader,
	} {
		if err := drainHandle(ctx, appLogger, name, handle); err != nil {
			return err
		}
	}

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("engine run failed: %w", err)
	}

	appLogger.Info("demo workload drained")
	return nil
}

// drainHandle consumes every chunk a task emits, logging each one.
func drainHandle(ctx context.Context, logger *slog.Logger, name string, handle *strand.TaskHandle) error {
	for {
		chunk, err := handle.Next(ctx)
		if errors.Is(err, io.EOF) {
			logger.Info("task finished", "task", name, "id", handle.ID())
			return nil
		}
		if err != nil {
			return fmt.Errorf("task %s failed: %w", name, err)
		}
		logger.Info("task output", "task", name, "chunk", string(chunk))
	}
}

// startMetricsServer exposes /metrics and /healthz on the configured
// address. Returns nil when the listener is disabled.
func startMetricsServer(cfg config.MetricsConfig, logger *slog.Logger) *http.Server {
	if cfg.Addr == "" {
		return nil
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics server listening", "addr", cfg.Addr)
	return srv
}

// sleepingGreeter sleeps once and then emits a greeting chunk.
type sleepingGreeter struct {
	delay time.Duration
	slept bool
}

func (h *sleepingGreeter) Step(br *strand.Bridge) (strand.Yield, error) {
	if !h.slept {
		h.slept = true
		op, err := strand.Sleep(h.delay)
		if err != nil {
			return strand.Yield{}, err
		}
		return strand.Yield{}, br.Request(op)
	}
	return strand.Yield{Chunk: []byte("good morning"), Done: true}, nil
}

// signalListener waits for a named signal and echoes its payload.
type signalListener struct {
	name    string
	timeout time.Duration
	waiting bool
}

func (h *signalListener) Step(br *strand.Bridge) (strand.Yield, error) {
	if !h.waiting {
		h.waiting = true
		op, err := strand.WaitForSignal(h.name, h.timeout)
		if err != nil {
			return strand.Yield{}, err
		}
		return strand.Yield{}, br.Request(op)
	}
	res, _ := br.Result()
	if res.Failed() {
		return strand.Yield{}, res.Err
	}
	return strand.Yield{Chunk: []byte(fmt.Sprintf("received: %v", res.Value)), Done: true}, nil
}

// sourceReader reads chunks from a byte source until it is exhausted.
type sourceReader struct {
	src     strand.ReadSource
	pending bool
}

func (h *sourceReader) Step(br *strand.Bridge) (strand.Yield, error) {
	if h.pending {
		h.pending = false
		res, _ := br.Result()
		if res.Failed() {
			return strand.Yield{}, res.Err
		}
		if res.EOF {
			return strand.Yield{Done: true}, nil
		}
		return strand.Yield{Chunk: res.Bytes()}, nil
	}

	op, err := strand.ReadBytes(h.src, 64, time.Second)
	if err != nil {
		return strand.Yield{}, err
	}
	h.pending = true
	return strand.Yield{}, br.Request(op)
}

// replaySource hands out its payload once and then reports end of
// stream.
type replaySource struct {
	data []byte
	done bool
}

func (s *replaySource) TryRead(maxLen int) ([]byte, bool, error) {
	if s.done {
		return nil, true, nil
	}
	n := len(s.data)
	if n > maxLen {
		n = maxLen
	}
	out := s.data[:n]
	s.data = s.data[n:]
	if len(s.data) == 0 {
		s.done = true
	}
	return out, s.done, nil
}
