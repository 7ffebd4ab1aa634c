package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/studentprofile/internal/bootstrap"
	"anoa.com/studentprofile/internal/config"
	"anoa.com/studentprofile/internal/jobs"
	searchRepo "anoa.com/studentprofile/internal/modules/search/repository"
	searchService "anoa.com/studentprofile/internal/modules/search/service"
	"anoa.com/studentprofile/internal/server"
	"anoa.com/studentprofile/pkg/database"
	"anoa.com/studentprofile/pkg/logger"
	"anoa.com/studentprofile/pkg/storage"
	"anoa.com/studentprofile/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateDirection := migrateCmd.String("direction", "up", "direction of migration (up/down)")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		_ = migrateCmd.Parse(os.Args[2:])
		if err := runMigrations(*migrateDirection); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithConfig(cfg.Log.Level, cfg.Log.Pretty)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(database.Options{
		DSN:          cfg.Database.DSN(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		Debug:        !cfg.IsProduction() && cfg.Log.Level == "debug",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}()

	if cfg.Database.AutoMigrate {
		migrator, err := database.NewMigrator(cfg.Database.DSN(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("migration setup failed")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx := context.Background()

	if !cfg.IsProduction() {
		if err := bootstrap.SeedTeacher(ctx, db, cfg.SeedTeacherEmail, cfg.SeedTeacherPassword, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed teacher")
		}
	}

	redisClient := connectRedis(ctx, cfg.RedisURL, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var search searchService.SearchService
	if cfg.MeiliSearchHost != "" {
		client := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		search = searchService.NewSearchService(client, log)
	} else {
		log.Info().Msg("MEILISEARCH_HOST not set, student search uses the database")
	}

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()

	scheduler := jobs.NewScheduler(log)
	if search != nil && cfg.SearchReindexSchedule != "" {
		job := jobs.NewReindexJob(searchRepo.NewSearchSourceRepository(db), search, cfg.SearchReindexSchedule)
		if err := scheduler.Register(job); err != nil {
			log.Fatal().Err(err).Msg("failed to schedule search reindex")
		}
		// catch up on anything indexed while the server was down
		go func() {
			_ = scheduler.RunByName(jobCtx, jobs.ReindexJobName)
		}()
	}
	scheduler.Start()
	defer scheduler.Stop()

	fileStorage, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Storage.Provider).Msg("failed to initialize storage")
	}

	srv := server.NewServer(server.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   redisClient,
		Search:  search,
		Storage: fileStorage,
		Tokens:  token.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer),
		Log:     log,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  2 * cfg.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancelJobs()
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}

func connectRedis(ctx context.Context, redisURL string, log zerolog.Logger) *redis.Client {
	if redisURL == "" {
		log.Info().Msg("REDIS_URL not set, rate limiting and live feed are disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid REDIS_URL, continuing without redis")
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, continuing without redis")
		_ = client.Close()
		return nil
	}

	log.Info().Msg("connected to redis")
	return client
}

func newStorage(cfg *config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Provider {
	case "cloudinary":
		return storage.NewCloudinaryStorage(cfg.Cloudinary.URL, cfg.Cloudinary.CloudName)
	case "minio":
		return storage.NewMinIOStorage(storage.MinIOOptions{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
	case "local":
		return storage.NewLocalStorage(cfg.Storage.UploadDir, "/uploads")
	}
	return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
}
