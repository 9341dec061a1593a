package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	api "suppliermail-backend/cmd/api"
	emailDelivery "suppliermail-backend/internal/email/delivery"
	emaildomain "suppliermail-backend/internal/email/domain"
	emailRepo "suppliermail-backend/internal/email/repository"
	emailUsecase "suppliermail-backend/internal/email/usecase"
	extractionDelivery "suppliermail-backend/internal/extraction/delivery"
	extractiondomain "suppliermail-backend/internal/extraction/domain"
	extractionRepo "suppliermail-backend/internal/extraction/repository"
	extractionUsecase "suppliermail-backend/internal/extraction/usecase"
	importingDelivery "suppliermail-backend/internal/importing/delivery"
	importingdomain "suppliermail-backend/internal/importing/domain"
	importingRepo "suppliermail-backend/internal/importing/repository"
	importingUsecase "suppliermail-backend/internal/importing/usecase"
	matchingDelivery "suppliermail-backend/internal/matching/delivery"
	matchingUsecase "suppliermail-backend/internal/matching/usecase"
	"suppliermail-backend/internal/notification"
	projectdomain "suppliermail-backend/internal/project/domain"
	projectRepo "suppliermail-backend/internal/project/repository"
	taskdomain "suppliermail-backend/internal/task/domain"
	taskRepo "suppliermail-backend/internal/task/repository"
	"suppliermail-backend/pkg/ai"
	"suppliermail-backend/pkg/config"
	"suppliermail-backend/pkg/database"
	"suppliermail-backend/pkg/directory"
	"suppliermail-backend/pkg/gmail"
	"suppliermail-backend/pkg/imapclient"
	"suppliermail-backend/pkg/logging"
	"suppliermail-backend/pkg/mailsource"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&emaildomain.InboundEmail{},
		&extractiondomain.ExtractionJob{},
		&projectdomain.Project{},
		&taskdomain.Task{},
		&importingdomain.ImportRecord{},
	); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize repositories (dependency injection)
	emailRepository := emailRepo.NewEmailRepository(db)
	jobRepository := extractionRepo.NewJobRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	projectRepository := projectRepo.NewGormProjectRepository(db)
	importRecordRepository := importingRepo.NewImportRecordRepository(db)

	// Initialize mail source
	source, err := newMailSource(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize mail source", zap.Error(err))
	}

	// Initialize AI extractor
	extractor, err := ai.NewExtractorService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize AI extractor", zap.Error(err))
	}

	// Directory client resolves both projects and employees
	directoryClient := directory.NewClient(cfg.DirectoryBaseURL)

	// Initialize use cases (dependency injection)
	emailUC := emailUsecase.NewEmailUsecase(emailRepository, source, logger,
		cfg.SyncDefaultWindowDays, cfg.SyncMaxWindowDays)

	extractionUC := extractionUsecase.NewExtractionUsecase(jobRepository, emailRepository, extractor, logger,
		extractionUsecase.Options{
			WorkerCount: cfg.ExtractWorkerCount,
			JobTimeout:  cfg.ExtractJobTimeout,
			WaitTimeout: cfg.ExtractWaitTimeout,
		})
	extractionUC.Start()
	defer extractionUC.Stop()

	matcherUC := matchingUsecase.NewMatcherUsecase(directoryClient, directoryClient, logger, cfg.MatchMinConfidence)

	importUC := importingUsecase.NewImportUsecase(db, importRecordRepository, taskRepository,
		projectRepository, emailRepository, logger, cfg.ImportStrictDuplicates)

	// Gmail push notifications (optional; manual sync works without it)
	if cfg.GoogleProjectID != "" {
		notifService, err := notification.NewService(context.Background(),
			cfg.GoogleProjectID, cfg.GooglePubSubSub, emailUC, logger)
		if err != nil {
			logger.Warn("notification service disabled", zap.Error(err))
		} else {
			go notifService.Start(context.Background())
			defer func() { _ = notifService.Close() }()
		}
	}

	// Initialize HTTP handlers and routes
	r := gin.Default()
	api.SetupRoutes(r, cfg, api.Handlers{
		Email:      emailDelivery.NewEmailHandler(emailUC),
		Extraction: extractionDelivery.NewExtractionHandler(extractionUC),
		Match:      matchingDelivery.NewMatchHandler(extractionUC, matcherUC),
		Import:     importingDelivery.NewImportHandler(importUC),
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newMailSource(cfg *config.Config, logger *zap.Logger) (mailsource.Source, error) {
	switch cfg.MailProvider {
	case "gmail":
		return gmail.NewService(context.Background(),
			cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken)
	default:
		logger.Info("using IMAP mail source", zap.String("addr", cfg.IMAPAddr))
		return imapclient.NewService(cfg.IMAPAddr, cfg.IMAPUsername, cfg.IMAPPassword, cfg.IMAPMailbox), nil
	}
}
