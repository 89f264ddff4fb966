package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/vytor/studycoach/internal/api"
	"github.com/vytor/studycoach/internal/config"
	"github.com/vytor/studycoach/internal/db"
	"github.com/vytor/studycoach/internal/logger"
	"github.com/vytor/studycoach/internal/repository"
	"github.com/vytor/studycoach/internal/repository/redis"
	"github.com/vytor/studycoach/internal/repository/sqlite"
	"github.com/vytor/studycoach/internal/services"
	"github.com/vytor/studycoach/internal/srs"
)

func main() {
	cfg := config.Load()
	cfg.BindFlags(pflag.CommandLine)
	pflag.Parse()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()

	log.Info("StudyCoach server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s, log_format=%s", cfg.LogLevel, cfg.LogFormat)
	log.Debug("timezone=%s", loc)
	log.Debug("study_queue_limit=%d", cfg.StudyQueueLimit)
	log.Debug("request_timeout=%ds", cfg.RequestTimeout)
	log.Debug("chat_store=%s", cfg.ChatStore)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chatStore, closeChatStore, err := openChatStore(ctx, cfg, database)
	if err != nil {
		log.Error("failed to open chat store: %v", err)
		os.Exit(1)
	}
	defer closeChatStore()

	cal := srs.NewCalendar(loc)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	reviewRepo := sqlite.NewReviewRepository(database.DB)

	srv := &api.Server{
		GoalService:         services.NewGoalService(sqlite.NewGoalRepository(database.DB), cal),
		DeckService:         services.NewDeckService(deckRepo, cal),
		CardService:         services.NewCardService(deckRepo, cardRepo, cal),
		ReviewService:       services.NewReviewService(deckRepo, cardRepo, reviewRepo, cal, cfg.StudyQueueLimit),
		ConversationService: services.NewConversationService(chatStore),
		Calendar:            cal,
		DB:                  database,
		RequestTimeout:      cfg.RequestTimeoutDuration(),
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeoutDuration() + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("StudyCoach server stopped")
}

// openChatStore builds the conversation store selected by CHAT_STORE. The
// returned func releases its connection.
func openChatStore(ctx context.Context, cfg config.Config, database *db.DB) (repository.ConversationStore, func(), error) {
	log := logger.FromContext(ctx)

	if cfg.ChatStore != config.ChatStoreRedis {
		log.Debug("using sqlite chat store")
		return sqlite.NewConversationStore(database.DB), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rdb, err := redis.NewClient(pingCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis chat store at %s", cfg.RedisAddr)
	return redis.NewConversationStore(rdb, redis.Options{}), func() {
		log.Debug("closing redis connection")
		rdb.Close()
	}, nil
}
