package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"space-adventure-service/internal/app"
	"space-adventure-service/internal/config"
	"space-adventure-service/internal/content"
	"space-adventure-service/internal/infra/memory"
	pgstore "space-adventure-service/internal/infra/postgres"
	redisstore "space-adventure-service/internal/infra/redis"
	"space-adventure-service/internal/logger"
	"space-adventure-service/internal/rounds"
	"space-adventure-service/internal/studio"
	transport "space-adventure-service/internal/transport/http"
	"space-adventure-service/internal/voice"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Server.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var store memory.GalleryStore = memory.NewGallery()
	if pool != nil {
		store = pgstore.NewGalleryStore(pool)
	}

	galleryTTL := config.Duration(cfg.Redis.GalleryTTL, 10*time.Minute)
	var galleryRepo app.GalleryRepository
	if redisClient != nil {
		galleryRepo = redisstore.NewGalleryCache(redisClient, store, galleryTTL)
	} else {
		galleryRepo = memory.NewGalleryCache(store, galleryTTL)
	}

	var (
		sessions app.SessionRepository
		live     transport.SessionCounter
	)
	if redisClient != nil {
		store := redisstore.NewSessionStore(redisClient, config.Duration(cfg.Redis.SessionTTL, 30*time.Minute))
		sessions, live = store, store
	} else {
		store := memory.NewSessionStore()
		sessions, live = store, store
	}

	pools := content.NewProvider(galleryRepo)
	gallery := app.NewGallery(galleryRepo, pools)

	var transcriber voice.Transcriber = voice.Unsupported{}
	if cfg.Speech.Enabled {
		gcp, err := voice.NewGCPTranscriber(ctx, log, cfg.Speech.Language, cfg.Speech.CredentialsFile)
		if err != nil {
			return err
		}
		defer gcp.Close()
		transcriber = gcp
	}

	timing := app.Timing{
		Advance:  config.Duration(cfg.Timing.Advance, 0),
		Exit:     config.Duration(cfg.Timing.Exit, 0),
		Memorize: config.Duration(cfg.Timing.Memorize, 0),
		Hide:     config.Duration(cfg.Timing.Hide, 0),
		Conceal:  config.Duration(cfg.Timing.Conceal, 0),
	}
	games := app.NewGameService(sessions, pools, rounds.NewRegistry(), transcriber, timing, log)

	var gen studio.ImageGenerator = studio.Unavailable{}
	if cfg.ImageGen.APIKey != "" {
		gemini, err := studio.NewGeminiGenerator(ctx, cfg.ImageGen.APIKey, cfg.ImageGen.Model)
		if err != nil {
			return err
		}
		gen = gemini
	} else {
		log.Warn("image generation disabled: no api key configured")
	}
	artist := studio.NewArtist(gen, config.Duration(cfg.ImageGen.FrameSpacing, studio.DefaultSpacing), log)
	workshops := studio.New(artist, gallery, log)

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewRouter(transport.Deps{
			Games:    games,
			Gallery:  gallery,
			Studio:   workshops,
			Sessions: live,
			Log:      log,
		}),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting space adventure service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
