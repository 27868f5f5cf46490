// Command travel-agent runs the conversational travel assistant as an HTTP
// service: a streaming chat endpoint backed by the handler set, a pluggable
// session store and a configurable model provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/noeul-sumini/travel-agent/config"
	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/handler"
	"github.com/noeul-sumini/travel-agent/intent"
	"github.com/noeul-sumini/travel-agent/logging"
	"github.com/noeul-sumini/travel-agent/model"
	"github.com/noeul-sumini/travel-agent/model/anthropic"
	"github.com/noeul-sumini/travel-agent/model/openai"
	"github.com/noeul-sumini/travel-agent/orchestrator"
	"github.com/noeul-sumini/travel-agent/registry"
	"github.com/noeul-sumini/travel-agent/server"
	"github.com/noeul-sumini/travel-agent/session"
	redisstore "github.com/noeul-sumini/travel-agent/session/redis"
	sqlitestore "github.com/noeul-sumini/travel-agent/session/sqlite"
	"github.com/noeul-sumini/travel-agent/tool"
)

const shutdownGracePeriod = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	store, closeStore, err := buildSessionStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("building session store: %w", err)
	}
	defer closeStore()

	generator := buildGenerator(cfg)
	logger.Info("model provider ready", "provider", cfg.Model.Provider)

	handlers := buildHandlers(cfg, generator, logger)
	reg, err := registry.New(handlers, func(o *registry.Options) {
		o.Timeout = cfg.Handlers.Timeout
		o.Logger = logger
	})
	if err != nil {
		return fmt.Errorf("building handler registry: %w", err)
	}
	logger.Info("handlers registered", "handlers", reg.Names())

	orch := orchestrator.New(intent.NewClassifier(), reg, store, func(o *orchestrator.Options) {
		o.Logger = logger
	})

	srv := server.New(cfg.Server.Addr, orch, store, func(o *server.Options) {
		o.Logger = logger
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if envPath := os.Getenv("TRAVEL_AGENT_CONFIG"); envPath != "" {
			path = envPath
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func buildSessionStore(cfg *config.Config, logger logging.Logger) (core.SessionStore, func(), error) {
	switch cfg.Session.Backend {
	case "redis":
		store, err := redisstore.New(cfg.Session.RedisAddr, func(o *redisstore.Options) {
			o.TTL = cfg.Session.TTL
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("session store ready", "backend", "redis", "addr", cfg.Session.RedisAddr)
		return store, closeQuietly(store, logger), nil
	case "sqlite":
		store, err := sqlitestore.New(cfg.Session.SQLitePath, func(o *sqlitestore.Options) {
			o.TTL = cfg.Session.TTL
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("session store ready", "backend", "sqlite", "path", cfg.Session.SQLitePath)
		return store, closeQuietly(store, logger), nil
	default:
		logger.Info("session store ready", "backend", "memory")
		store := session.NewInMemoryStore(func(o *session.Options) {
			o.TTL = cfg.Session.TTL
		})
		return store, func() {}, nil
	}
}

func closeQuietly(c io.Closer, logger logging.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("closing session store failed", "error", err)
		}
	}
}

func buildGenerator(cfg *config.Config) model.Generator {
	switch cfg.Model.Provider {
	case "openai":
		var clientOpts []option.RequestOption
		if cfg.Model.APIKey != "" {
			clientOpts = append(clientOpts, option.WithAPIKey(cfg.Model.APIKey))
		}
		client := openaisdk.NewClient(clientOpts...)
		return openai.NewFromClient(&client, func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
		})
	case "anthropic":
		return anthropic.New(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
			o.APIKey = cfg.Model.APIKey
		})
	default:
		return model.NewMock()
	}
}

func buildHandlers(cfg *config.Config, generator model.Generator, logger logging.Logger) []core.Handler {
	withLogger := func(o *handler.Options) { o.Logger = logger }

	var weather *tool.WeatherClient
	if cfg.Tools.WeatherAPIKey != "" {
		weather = tool.NewWeatherClient(cfg.Tools.WeatherAPIKey)
	}
	var maps *tool.MapsClient
	if cfg.Tools.MapsAPIKey != "" {
		maps = tool.NewMapsClient(cfg.Tools.MapsAPIKey)
	}
	var flights *tool.FlightsClient
	if cfg.Tools.FlightsAPIKey != "" {
		flights = tool.NewFlightsClient(cfg.Tools.FlightsAPIKey)
	}

	return []core.Handler{
		handler.NewPlanner(generator, withLogger),
		handler.NewCalendar(generator, withLogger),
		handler.NewWeather(generator, weather, withLogger),
		handler.NewMaps(generator, maps, withLogger),
		handler.NewFlights(generator, flights, withLogger),
		handler.NewBudget(generator, withLogger),
	}
}
