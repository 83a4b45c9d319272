package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ynab-recon-engine/docs"
	"ynab-recon-engine/internal/adapter/csvsource"
	"ynab-recon-engine/internal/adapter/sqlmapping"
	"ynab-recon-engine/internal/adapter/ynabcatalog"
	"ynab-recon-engine/internal/adapter/ynabclient"
	"ynab-recon-engine/internal/categorize"
	"ynab-recon-engine/internal/config"
	"ynab-recon-engine/internal/creator"
	"ynab-recon-engine/internal/domain"
	"ynab-recon-engine/internal/handler"
	"ynab-recon-engine/internal/mapping"
	"ynab-recon-engine/internal/matcher"
	"ynab-recon-engine/internal/middleware"
	"ynab-recon-engine/internal/scheduler"
	"ynab-recon-engine/pkg/logger"
)

// @title Bank/YNAB Reconciliation API
// @version 1.0
// @description Reconciles bank feed transactions against a YNAB budget and infers categories.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@ynab-recon-engine.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting bank/YNAB reconciliation service")

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.GetLogger().Info("Database connection established")

	mappingStore := sqlmapping.New(db)
	ledger := ynabclient.New(cfg.Ynab.AccessToken)
	budgetId := domain.BudgetId(cfg.Ynab.BudgetId)
	ynabAccountId := domain.AccountId(cfg.Ynab.AccountId)
	catalog := ynabcatalog.New(ledger, budgetId)
	bankSource := csvsource.New(cfg.App.BankFeedPath, ynabAccountId)

	engineHandler := handler.NewEngineHandler(bankSource, ledger, catalog, mappingStore, budgetId, ynabAccountId)

	if cfg.Sync.Enabled {
		sched, err := scheduler.New(cfg.Sync.Schedule, syncFunc(ledger, bankSource, catalog, mappingStore, budgetId, ynabAccountId, cfg.App.MatchingStrategy))
		if err != nil {
			logger.GetLogger().WithError(err).Fatal("Failed to build scheduler")
		}
		sched.Start()
		defer sched.Stop()
		logger.GetLogger().WithField("schedule", cfg.Sync.Schedule).Info("Scheduled sync enabled")
	}

	router := setupRouter(engineHandler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return db, nil
}

func setupRouter(engineHandler *handler.EngineHandler) *gin.Engine {
	router := gin.New()

	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.POST("/import", engineHandler.ImportTransactions)
			transactions.POST("/categorize", engineHandler.CategorizeTransactions)
			transactions.POST("/create-missing", engineHandler.CreateMissing)
		}

		v1.POST("/reconcile", engineHandler.Reconcile)
		v1.POST("/mappings", engineHandler.SaveMappings)
	}

	return router
}

// syncFunc composes the inbound ports into one periodic
// reconcile-categorize-create cycle for the scheduler (spec §2):
// reconcile the trailing window, infer categories for whatever is
// missing from the ledger, learn from confident inferences, then
// submit the missing transactions to the ledger.
func syncFunc(
	ledger *ynabclient.Client,
	bankSource *csvsource.Source,
	catalogPort *ynabcatalog.Catalog,
	mappingStore *sqlmapping.Store,
	budgetId domain.BudgetId,
	ynabAccountId domain.AccountId,
	strategy string,
) scheduler.SyncFunc {
	engine := matcher.NewReconciliationEngine()
	strategyKind := matcher.StrategyKind(strategy)

	return func(ctx context.Context) error {
		now := time.Now()
		windowStart := now.AddDate(0, 0, -30)

		bankTxns, err := bankSource.ListByAccountAndWindow(ctx, ynabAccountId, windowStart, now)
		if err != nil {
			return err
		}
		ynabTxns, err := ledger.ListAccountTransactions(ctx, budgetId, ynabAccountId)
		if err != nil {
			return err
		}

		output, summary := engine.Reconcile(matcher.ReconciliationInput{
			AccountId:        ynabAccountId,
			WindowStart:      windowStart,
			WindowEnd:        now,
			Strategy:         strategyKind,
			BankTransactions: bankTxns,
			YnabTransactions: ynabTxns,
		})

		log := logger.GetLogger().WithField("matched", summary.MatchedCount).WithField("missing", summary.MissingCount)
		log.Info("scheduled reconciliation cycle completed")

		if len(output.MissingFromYnab) == 0 {
			return nil
		}

		catalog, err := catalogPort.ListAvailable(ctx)
		if err != nil {
			return err
		}

		categorized := make([]domain.BankTransaction, 0, len(output.MissingFromYnab))
		var learned []domain.CategoryMapping
		for _, tx := range output.MissingFromYnab {
			pattern, patternErr := domain.NewTransactionPattern(tx.MerchantName, tx.Description)
			var relevant []domain.CategoryMapping
			if patternErr == nil {
				relevant, _ = mappingStore.FindMappingsForPattern(ctx, pattern)
			}
			if result, ok := categorize.Infer(tx, catalog, relevant); ok {
				tx = tx.WithInferredCategory(result.Category)
				if patternErr == nil && result.Confidence >= domain.MinConfidence {
					if mp, mpErr := domain.NewCategoryMapping(domain.CategoryMappingId(uuid.NewString()), result.Category, pattern, result.Confidence); mpErr == nil {
						learned = append(learned, mp)
					}
				}
			}
			categorized = append(categorized, tx)
		}

		if len(learned) > 0 {
			if _, err := mapping.Learn(ctx, mappingStore, learned); err != nil {
				log.WithError(err).Warn("failed to persist learned mappings this cycle")
			}
		}

		createResp, err := creator.CreateMissing(ctx, ledger, budgetId, ynabAccountId, categorized)
		if err != nil {
			return err
		}
		log.WithField("created", len(createResp.Successes())).
			WithField("creation_failed", len(createResp.Failures())).
			Info("scheduled create-missing completed")
		return nil
	}
}
