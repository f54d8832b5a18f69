package cmd

import (
	"fmt"

	"github.com/siteops/dailyup/internal/adapters/gateway"
	"github.com/siteops/dailyup/internal/adapters/storage"
	"github.com/siteops/dailyup/internal/adapters/workbook"
	"github.com/siteops/dailyup/internal/config"
	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/ports"
	"github.com/siteops/dailyup/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	BatchService   *services.BatchService
	SessionService *services.SessionService

	// Adapters used directly by commands
	Parser ports.DocumentParser

	// Internal - for cleanup only
	db    *storage.Database
	store ports.SessionStore
}

// NewContainer creates a new Container with all dependencies wired.
// The session survives the process only when persistSession is set.
func NewContainer(settings *config.Settings, persistSession bool) (*Container, error) {
	policy, err := domain.ParseReclassifyPolicy(settings.ReclassifyPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid reclassify_policy in settings.json: %w", err)
	}

	// Create adapters
	db, err := storage.Open(config.GetDBPath())
	if err != nil {
		return nil, err
	}

	var store ports.SessionStore
	if persistSession {
		sealer, err := storage.LoadOrCreateSealer(config.GetKeyPath())
		if err != nil {
			db.Close()
			return nil, err
		}
		store = storage.NewSessionStore(db, sealer)
		logging.Logger.Debug("Using persistent session store")
	} else {
		store = storage.NewMemorySessionStore()
	}

	client := gateway.NewClient(gateway.Options{
		RequestsPerSecond: settings.RateLimit(),
		Timeout:           settings.RequestTimeout(),
	})
	parser := workbook.NewParser()
	history := storage.NewHistoryRepository(db)

	// Create services
	sessionService := services.NewSessionService(client, store)
	batchService := services.NewBatchService(client, parser, history, sessionService, policy)

	return &Container{
		BatchService:   batchService,
		Parser:         parser,
		SessionService: sessionService,
		db:             db,
		store:          store,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	c.SessionService.Close()
	if err := c.store.Close(); err != nil {
		logging.Logger.Warn("Failed to close session store", "error", err)
	}
	return c.db.Close()
}
