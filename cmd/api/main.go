package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/moodpath/moodpath-backend/api/routes"
	"github.com/moodpath/moodpath-backend/internal/admin"
	"github.com/moodpath/moodpath-backend/internal/auth"
	"github.com/moodpath/moodpath-backend/internal/correlation"
	"github.com/moodpath/moodpath-backend/internal/forum"
	"github.com/moodpath/moodpath-backend/internal/journals"
	"github.com/moodpath/moodpath-backend/internal/lifecycle"
	"github.com/moodpath/moodpath-backend/internal/moodlogs"
	"github.com/moodpath/moodpath-backend/internal/prediction"
	"github.com/moodpath/moodpath-backend/internal/users"
	"github.com/moodpath/moodpath-backend/pkg/auth/session"
	"github.com/moodpath/moodpath-backend/pkg/config"
	"github.com/moodpath/moodpath-backend/pkg/db"
	"github.com/moodpath/moodpath-backend/pkg/logger"
	"github.com/moodpath/moodpath-backend/pkg/mailer"
	"github.com/moodpath/moodpath-backend/pkg/migrate"
	"github.com/moodpath/moodpath-backend/pkg/redis"
	"github.com/moodpath/moodpath-backend/pkg/storage/s3"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	moodLogRepo := moodlogs.NewRepository(dbClient.DB())
	moodLogService, err := moodlogs.NewService(moodlogs.ServiceParams{Repo: moodLogRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create mood log service", err)
		os.Exit(1)
	}

	journalService, err := journals.NewService(journals.ServiceParams{
		Repo: journals.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create journal service", err)
		os.Exit(1)
	}

	forumService, err := forum.NewService(forum.ServiceParams{
		Repo:      forum.NewRepository(dbClient.DB()),
		Profanity: forum.NewProfanityFilter(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create forum service", err)
		os.Exit(1)
	}

	correlationRepo := correlation.NewRepository(dbClient.DB())
	correlationService, err := correlation.NewService(correlation.ServiceParams{
		MoodLogs: moodLogRepo,
		Repo:     correlationRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create correlation service", err)
		os.Exit(1)
	}

	lifecycleRepo := lifecycle.NewRepository(dbClient.DB())
	lifecycleService, err := lifecycle.NewService(lifecycle.ServiceParams{
		Repo:   lifecycleRepo,
		Mailer: mailer.FromConfig(cfg.Sendgrid, logg),
		Config: cfg.Lifecycle,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		Repo:      admin.NewRepository(dbClient.DB()),
		Snapshots: correlationRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	var storageClient *s3.Client
	if cfg.Storage.Bucket != "" {
		storageClient, err = s3.New(context.Background(), cfg.Storage)
		if err != nil {
			logg.Error(context.Background(), "failed to create storage client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "s3 bucket not configured, media presign disabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:             cfg,
			Logger:             logg,
			Redis:              redisClient,
			SessionManager:     sessionManager,
			AuthService:        authService,
			RegisterService:    registerService,
			Users:              userRepo,
			MoodLogService:     moodLogService,
			MoodLogRepo:        moodLogRepo,
			Predictor:          prediction.NewRunner(cfg.Prediction),
			JournalService:     journalService,
			Storage:            storageClient,
			ForumService:       forumService,
			CorrelationService: correlationService,
			AdminService:       adminService,
			LifecycleService:   lifecycleService,
			LifecycleRepo:      lifecycleRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
