package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/agrichat/agrichat-api/internal/api/http"
	"github.com/agrichat/agrichat-api/internal/chat"
	"github.com/agrichat/agrichat-api/internal/chat/llm"
	"github.com/agrichat/agrichat-api/internal/config"
	"github.com/agrichat/agrichat-api/internal/platform/logger"
	"github.com/agrichat/agrichat-api/internal/scheduler"
	"github.com/agrichat/agrichat-api/internal/store"
	"github.com/agrichat/agrichat-api/internal/weather"
	"github.com/agrichat/agrichat-api/internal/weather/geocode"
	"github.com/agrichat/agrichat-api/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New("agrichat-api", cfg.LogLevel)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory storage, seeded with the welcome message.
	memStore := store.New()

	// LLM client: mock for local dev, OpenAI otherwise.
	var llmClient llm.Client
	if cfg.UseMockLLM {
		appLog.Info().Msg("using mock LLM client")
		llmClient = llm.NewMockClient()
	} else {
		llmClient = llm.NewOpenAIClient(
			&http.Client{Timeout: cfg.LLMTimeout},
			cfg.OpenAIAPIKey,
			cfg.OpenAIModel,
			cfg.OpenAIBaseURL,
		)
	}

	chatSvc := chat.NewService(llmClient, memStore, appLog)

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	weatherSvc := weather.NewService(memStore, provider, cfg.WeatherCacheTTL, appLog)

	resolver := geocode.New(cfg.GeocoderAPIKey)

	defaultLoc := weather.Location{Lat: cfg.DefaultLat, Lon: cfg.DefaultLon}

	// Optional background refresh keeps the default location's cache warm.
	if cfg.RefreshEnabled {
		refresher := scheduler.New(defaultLoc, cfg.WeatherCacheTTL, weatherSvc, appLog)
		if err := refresher.Start(); err != nil {
			appLog.Fatal().Err(err).Msg("failed to start weather refresher")
		}
		defer refresher.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "agrichat-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"message": err.Error(),
			})
		},
	})

	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	// The client is a browser app served elsewhere.
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "agrichat-api",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Chat:            chatSvc,
		Weather:         weatherSvc,
		Geocode:         resolver,
		DefaultLocation: defaultLoc,
	})

	go func() {
		appLog.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLog.Error().Err(err).Msg("error during shutdown")
	}
}
