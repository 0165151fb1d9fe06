// Package container wires the ledger's components together and owns their lifecycle.
package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/shop-ledger/internal/application/dispatcher"
	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/application/service"
	"github.com/garyjia/shop-ledger/internal/config"
	httpapi "github.com/garyjia/shop-ledger/internal/interfaces/http"
	"github.com/garyjia/shop-ledger/internal/parser"
	"github.com/garyjia/shop-ledger/pkg/database"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	db           *database.DB
	txManager    port.TransactionManager
	repositories *RepositoryBundle

	extractor  port.CommandExtractor
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle
	server     *httpapi.Server

	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories
type RepositoryBundle struct {
	Prices  port.PriceRepository
	Entries port.EntryRepository
	Orders  port.OrderRepository
	Credits port.CreditRepository
}

// ServiceBundle groups the parser and the application services
type ServiceBundle struct {
	Parser   *parser.Parser
	Catalog  *service.Catalog
	Commands *service.CommandService
	Ledger   *service.LedgerService
}

// HealthStatus represents the health of all components
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components; call Start.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Database, migrations and repositories
// 2. LLM fallback (optional)
// 3. Event dispatcher
// 4. Parser and application services
// 5. HTTP server (not listening until Serve)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	extractor, err := ProvideExtractor(c.config, c.logger.Named("openai"))
	if err != nil {
		return fmt.Errorf("failed to initialize LLM fallback: %w", err)
	}
	c.extractor = extractor

	c.dispatcher = dispatcher.NewDispatcher(
		dispatcher.WithLogger(dispatcher.ZapLogger(c.logger.Named("dispatcher"))),
	)

	services, err := ProvideServices(&ServiceDeps{
		Config:     c.config,
		Repos:      c.repositories,
		TxManager:  c.txManager,
		Dispatcher: c.dispatcher,
		Extractor:  c.extractor,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.logger.Info("Application services initialized")

	logger := dispatcher.ZapLogger(c.logger.Named("http"))
	handlers := httpapi.NewHandlers(
		services.Commands,
		services.Catalog,
		services.Ledger,
		c.db,
		Version,
		logger,
	)
	c.server = httpapi.NewServer(httpapi.ServerConfig{
		Host:         c.config.Server.Host,
		Port:         c.config.Server.Port,
		ReadTimeout:  c.config.Server.ReadTimeout,
		WriteTimeout: c.config.Server.WriteTimeout,
	}, handlers, logger)

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	bundle, err := ProvideDatabase(ctx, &c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = bundle.DB
	c.txManager = bundle.TxManager

	repos, err := ProvideRepositories(c.db.DB, c.logger)
	if err != nil {
		_ = c.db.Close()
		return err
	}
	c.repositories = repos
	return nil
}

// Serve runs the HTTP server until ctx is cancelled
func (c *Container) Serve(ctx context.Context) error {
	if !c.ready.Load() {
		return fmt.Errorf("container not started")
	}
	return c.server.Start(ctx)
}

// Close shuts down all components in reverse order
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	var errs []error

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}
	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	switch {
	case c.db == nil:
		status.Components["database"] = ComponentHealth{Message: "not initialized"}
		status.Overall = false
	default:
		if err := c.db.PingContext(ctx); err != nil {
			status.Components["database"] = ComponentHealth{Message: fmt.Sprintf("ping failed: %v", err)}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	}

	if c.services != nil {
		status.Components["services"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["services"] = ComponentHealth{Message: "not initialized"}
		status.Overall = false
	}

	if c.extractor != nil {
		status.Components["llm_fallback"] = ComponentHealth{Healthy: true, Message: c.config.OpenAI.Model}
	} else {
		status.Components["llm_fallback"] = ComponentHealth{Healthy: true, Message: "disabled"}
	}

	return status
}

// Services returns the application services
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Repositories returns all repositories
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Dispatcher returns the event dispatcher
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Server returns the HTTP server
func (c *Container) Server() *httpapi.Server {
	return c.server
}

// Logger returns the container's logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}
