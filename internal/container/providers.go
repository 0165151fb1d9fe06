package container

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/garyjia/shop-ledger/internal/application/dispatcher"
	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/application/service"
	"github.com/garyjia/shop-ledger/internal/config"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/domain/event"
	"github.com/garyjia/shop-ledger/internal/export"
	"github.com/garyjia/shop-ledger/internal/infrastructure/external/openai"
	"github.com/garyjia/shop-ledger/internal/infrastructure/persistence/repository"
	"github.com/garyjia/shop-ledger/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/shop-ledger/internal/parser"
	"github.com/garyjia/shop-ledger/migrations"
	"github.com/garyjia/shop-ledger/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components
type DatabaseBundle struct {
	DB        *database.DB
	TxManager *sqlite.TxManager
}

// ProvideDatabase opens the ledger database and applies pending migrations
func ProvideDatabase(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	if cfg.Path != database.MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	applied, err := database.NewMigrator(db, logger).RunMigrations(ctx, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Migrations applied", zap.Int("count", applied))

	return &DatabaseBundle{
		DB:        db,
		TxManager: sqlite.NewTxManager(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &RepositoryBundle{
		Prices:  repository.NewPriceRepository(sqlDB, logger),
		Entries: repository.NewEntryRepository(sqlDB, logger),
		Orders:  repository.NewOrderRepository(sqlDB, logger),
		Credits: repository.NewCreditRepository(sqlDB, logger),
	}, nil
}

// ProvideExtractor creates the LLM fallback, or returns nil when no API key is configured
func ProvideExtractor(cfg *config.Config, logger *zap.Logger) (port.CommandExtractor, error) {
	if !cfg.OpenAI.Enabled() {
		logger.Info("LLM fallback disabled")
		return nil, nil
	}

	prompts := openai.DefaultPrompts()
	if cfg.OpenAI.PromptsPath != "" {
		loaded, err := openai.LoadPrompts(cfg.OpenAI.PromptsPath)
		if err != nil {
			return nil, err
		}
		prompts = loaded
	}

	logger.Info("LLM fallback enabled", zap.String("model", cfg.OpenAI.Model))
	return openai.NewExtractor(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     cfg.OpenAI.Timeout,
		Currency:    cfg.Parser.CurrencySymbol,
	}, prompts, logger), nil
}

// ServiceDeps holds dependencies for creating services
type ServiceDeps struct {
	Config     *config.Config
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Dispatcher dispatcher.Dispatcher
	Extractor  port.CommandExtractor
	Logger     *zap.Logger
}

// ProvideServices creates the catalog, the parser and the application services, and subscribes
// the price learner to confirmed commands
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Config == nil || deps.Repos == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	cfg := deps.Config
	logger := dispatcher.ZapLogger(deps.Logger)

	catalog := service.NewCatalog(deps.Repos.Prices, cfg.Catalog.CacheTTL, logger)

	p := parser.New(catalog, deps.Logger.Named("parser"),
		parser.WithDefaultType(entity.EntryType(cfg.Parser.DefaultType)),
		parser.WithDefaultCustomer(cfg.Parser.DefaultCustomer),
		parser.WithCurrencySymbol(cfg.Parser.CurrencySymbol),
		parser.WithLookupTimeout(cfg.Parser.LookupTimeout),
	)

	opts := []service.CommandOption{
		service.WithQuickCapture(cfg.Parser.QuickCapture),
		service.WithCustomer(cfg.Parser.DefaultCustomer),
	}
	if deps.Extractor != nil {
		opts = append(opts, service.WithExtractor(deps.Extractor))
	}

	commands := service.NewCommandService(
		p,
		catalog,
		deps.Repos.Entries,
		deps.Repos.Orders,
		deps.Repos.Credits,
		deps.TxManager,
		deps.Dispatcher,
		logger,
		opts...,
	)

	ledger := service.NewLedgerService(
		deps.Repos.Entries,
		deps.Repos.Orders,
		deps.Repos.Credits,
		export.NewExcelExporter(cfg.Export.SheetName, deps.Logger),
		deps.Dispatcher,
		logger,
	)

	learner := service.NewPriceLearner(catalog, logger)
	deps.Dispatcher.Subscribe(event.TypeCommandConfirmed, "price-learner", learner.HandleCommandConfirmed)

	return &ServiceBundle{
		Parser:   p,
		Catalog:  catalog,
		Commands: commands,
		Ledger:   ledger,
	}, nil
}
