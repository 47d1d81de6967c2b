// Package container provides dependency injection for the payment-reminder
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/payment-reminder/internal/config"
	"fjacquet/payment-reminder/internal/detector"
	"fjacquet/payment-reminder/internal/intake"
	"fjacquet/payment-reminder/internal/logging"
	"fjacquet/payment-reminder/internal/notifier"
	"fjacquet/payment-reminder/internal/resolution"
	"fjacquet/payment-reminder/internal/session"
	"fjacquet/payment-reminder/internal/store"
)

// Container holds all application dependencies and provides methods to
// access them. It is immutable after creation: fields are private and only
// reachable through getters, so dependencies cannot be swapped out after
// initialization.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	intake   *intake.Manager
	detector *detector.Detector
	engine   *resolution.Engine
	notifier *notifier.Sender
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	manager, err := intake.NewManager(cfg.Data.Directory, cfg.Data.Extension, logger)
	if err != nil {
		return nil, fmt.Errorf("creating intake manager: %w", err)
	}

	det := detector.New(logger)
	engine := resolution.NewEngine(logger, nil)
	sender := notifier.NewSender(cfg, logger)

	// The notifier is an outcome subscriber only when SMTP is configured;
	// an unconfigured notifier disables itself.
	if cfg.EmailEnabled() {
		engine.Subscribe(sender.HandleResolution)
		logger.Info("E-mail notifications enabled")
	} else {
		logger.Info("E-mail notifications disabled")
	}

	logger.Info("Container initialized successfully",
		logging.F("data_dir", cfg.Data.Directory),
		logging.F("email_enabled", cfg.EmailEnabled()))

	return &Container{
		logger:   logger,
		config:   cfg,
		intake:   manager,
		detector: det,
		engine:   engine,
		notifier: sender,
	}, nil
}

// Stores builds a store adapter for every record store the intake manager
// currently knows about, in discovery order.
func (c *Container) Stores() ([]store.PaymentStore, error) {
	locations, err := c.intake.ListStoreLocations()
	if err != nil {
		return nil, err
	}

	delimiter := []rune(c.config.Data.Delimiter)[0]
	stores := make([]store.PaymentStore, 0, len(locations))
	for _, loc := range locations {
		stores = append(stores, store.NewCSVStore(loc.Path, loc.City, delimiter, c.logger))
	}
	return stores, nil
}

// StoreProvider adapts Stores to the session's provider contract.
func (c *Container) StoreProvider() session.StoreProvider {
	return c.Stores
}

// NewSession creates a ReminderSession bound to the given presenter.
func (c *Container) NewSession(p session.Presenter) *session.Session {
	return session.New(c.StoreProvider(), c.detector, c.engine, p, c.logger,
		c.config.Reminder.MaxDeferPasses)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetIntake returns the intake manager.
func (c *Container) GetIntake() *intake.Manager {
	return c.intake
}

// GetDetector returns the due detector.
func (c *Container) GetDetector() *detector.Detector {
	return c.detector
}

// GetEngine returns the resolution engine.
func (c *Container) GetEngine() *resolution.Engine {
	return c.engine
}

// GetNotifier returns the e-mail sender.
func (c *Container) GetNotifier() *notifier.Sender {
	return c.notifier
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
