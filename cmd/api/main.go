package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/generation"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/http/handlers"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/http/httpapi"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/providers/openai"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !cfg.HasKey() {
		logger.Warn().Msg("OPENAI_API_KEY is not set; generation requests will fail until it is configured")
	}

	provider := openai.NewClient(openai.Options{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		HTTPClient: &http.Client{Timeout: cfg.HTTPWriteTimeout},
		Logger:     &logger,
	})
	service := generation.NewService(provider, &logger)

	app := handlers.NewApp(service, &logger)
	router := httpapi.NewRouter(app, cfg, logger, shellFS(&logger))

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// shellFS locates the static PWA shell. Missing is fine: the binary then
// serves the API only.
func shellFS(logger *infra.Logger) fs.FS {
	dir := os.Getenv("PUBLIC_DIR")
	if dir == "" {
		dir = "public"
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Info().Str("dir", dir).Msg("no shell directory found, serving API only")
		return nil
	}
	return os.DirFS(dir)
}
