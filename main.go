package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cardcheck_api_gateway/internal/config"
	"cardcheck_api_gateway/internal/handler"
	"cardcheck_api_gateway/internal/logger"
	"cardcheck_api_gateway/internal/messaging"
	"cardcheck_api_gateway/internal/model"
	"cardcheck_api_gateway/internal/notify"
	"cardcheck_api_gateway/internal/provider"
	"cardcheck_api_gateway/internal/repository"
	"cardcheck_api_gateway/internal/service"
)

func runMigrations(db *pgxpool.Pool, log *zap.Logger) error {
	log.Info("Running database migrations")

	migrationsDir := "migrations"
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		log.Info("Running migration", zap.String("file", filename))

		content, err := os.ReadFile(filepath.Join(migrationsDir, filename))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		_, err = db.Exec(context.Background(), string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filename, err)
		}

		log.Info("Migration completed", zap.String("file", filename))
	}

	log.Info("All migrations completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting card check API gateway")

	db, err := pgxpool.New(context.Background(), cfg.DatabaseDSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Connected to database")

	if err := runMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	log.Info("Connected to NATS")

	sink, err := notify.NewTelegramSink(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, cfg.Telegram.LiveChatID, log)
	if err != nil {
		log.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db, log)
	checkLogRepo := repository.NewCheckLogRepository(db, log)
	providerClient := provider.NewHTTPClient(cfg.Provider.BaseURL, cfg.Provider.UserAgent, cfg.Provider.Timeout, log)
	checkService := service.NewCheckService(userRepo, checkLogRepo, providerClient, sink, natsClient,
		cfg.Check.DefaultAmount, cfg.Check.GatewayLabel, log)

	err = natsClient.SubscribeToCheckCompleted(context.Background(), func(checkLog *model.CheckLog) {
		log.Info("Received check completed notification",
			zap.String("check_id", checkLog.ID),
			zap.String("verdict", string(checkLog.Verdict)))
	})
	if err != nil {
		log.Error("Failed to subscribe to check completed", zap.Error(err))
	}

	checkHandler := handler.NewCheckHandler(checkService, log)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	http.HandleFunc("/api/check", checkHandler.HandleCheck)
	http.HandleFunc("/api/checks", checkHandler.HandleRecentChecks)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting server", zap.String("address", addr))

	server := &http.Server{
		Addr: addr,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
