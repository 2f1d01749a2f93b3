package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/port"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/processor"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/service"
	appworkflow "github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/application/workflow"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/config"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/infrastructure/cache"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/infrastructure/external/openai"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/infrastructure/persistence/repository"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/infrastructure/persistence/sqlite"
	httpadapter "github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/interfaces/http"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/mcp"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/internal/validation/rules"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/pkg/database"
	"github.com/chbhargavareddy/ClaimsProcessingAssistant-MCP/pkg/utils"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting claims processing server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	sqlDB, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := sqlite.NewDB(sqlDB, logger)

	// Repositories
	claimRepo := repository.NewClaimRepository(sqlDB, logger)
	policyRepo := repository.NewPolicyRepository(sqlDB, logger)
	documentRepo := repository.NewDocumentRepository(sqlDB, logger)
	historyRepo := repository.NewValidationHistoryRepository(sqlDB, logger)
	auditRepo := repository.NewAuditTrailRepository(sqlDB, logger)

	// Validation pipeline
	validator := validation.NewEngine(logger)
	validator.AddRule(rules.NewClaimantInfoRule())
	validator.AddRule(rules.NewClaimAmountRule())
	validator.AddRule(rules.NewIncidentDateRule(policyRepo))
	validator.AddRule(rules.NewPolicyRule(policyRepo))
	validator.AddRule(rules.NewRequiredDocumentsRule(documentRepo))
	validator.AddRule(rules.NewDuplicateClaimRule(claimRepo))
	validator.AddRule(rules.NewIncidentDuplicateRule(claimRepo))

	// Workflow engine
	engine := appworkflow.NewEngine(claimRepo, documentRepo, historyRepo, auditRepo, db, logger)

	// Application services
	memCache := cache.NewMemory()
	claimProcessor := processor.NewClaimProcessor(
		claimRepo, historyRepo, engine, validator, logger,
		processor.WithCache(memCache),
	)
	claimsService := service.NewClaimsService(
		claimRepo, historyRepo, documentRepo, auditRepo, memCache, logger)
	exportService := service.NewExportService(claimRepo, cfg.Export.OutputDir, logger)

	var analyzer port.ClaimAnalyzer
	if cfg.OpenAI.Enabled {
		analyzer = openai.NewAnalyzer(
			cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Temperature, logger)
	}

	// Function registry
	var authenticator *mcp.Authenticator
	if cfg.Auth.Enabled {
		authenticator = mcp.NewAuthenticator(cfg.Auth.Secret)
	}
	registry := mcp.NewRegistry(authenticator, logger)
	mcp.NewHandlers(claimProcessor, claimsService, exportService, analyzer).RegisterAll(registry)

	// HTTP server
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, registry, httpadapter.NewZapLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
