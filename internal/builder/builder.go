package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/api"
	proposalapi "github.com/futig/proposal-backend/internal/api/proposal"
	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/integration/callback"
	"github.com/futig/proposal-backend/internal/integration/llm"
	"github.com/futig/proposal-backend/internal/integration/storage"
	"github.com/futig/proposal-backend/internal/pkg/validator"
	"github.com/futig/proposal-backend/internal/repository"
	"github.com/futig/proposal-backend/internal/telegram"
	"github.com/futig/proposal-backend/internal/usecase/analysis"
	"github.com/futig/proposal-backend/internal/usecase/proposal"
	"github.com/futig/proposal-backend/internal/usecase/workflow"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	runRepo := repository.NewRunPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize use cases and handlers
	proposalUC := buildProposalUsecase(cfg, runRepo, logger)
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	proposalHandler := proposalapi.NewHandler(proposalUC, fileValidator)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(proposalHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	runRepo := repository.NewRunPostgres(db)
	proposalUC := buildProposalUsecase(cfg, runRepo, logger)

	// Initialize Telegram bot
	bot, err := telegram.NewBot(&cfg.TelegramCfg, proposalUC, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// buildProposalUsecase wires connectors, the workflow engine, and the context
// analyzer into the proposal usecase shared by HTTP and Telegram entry points.
func buildProposalUsecase(cfg *config.Config, runRepo repository.RunRepository, logger *zap.Logger) *proposal.ProposalUsecase {
	callbackConnector := callback.NewConnector(cfg.CallbackConnectorCfg, logger)

	// External service connectors (with mock support)
	var llmConnector workflow.LLMConnector
	var analysisLLM analysis.LLMConnector
	var storageConnector analysis.StorageConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		mockLLM := llm.NewMockConnector(logger)
		llmConnector = mockLLM
		analysisLLM = mockLLM
		storageConnector = storage.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		realLLM := llm.NewConnector(cfg.LLMConnectorCfg, logger)
		llmConnector = realLLM
		analysisLLM = realLLM
		storageConnector = storage.NewConnector(cfg.StorageConnectorCfg, logger)
	}

	engine := workflow.NewEngine(llmConnector, logger)
	analyzer := analysis.NewUsecase(analysisLLM, storageConnector, cfg.WorkflowCfg, logger)
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)

	proposalUC := proposal.NewUsecase(
		runRepo,
		engine,
		analyzer,
		callbackConnector,
		fileValidator,
		logger,
	)
	logger.Info("Use cases initialized")

	return proposalUC
}
