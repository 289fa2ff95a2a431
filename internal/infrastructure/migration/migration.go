// Package migration creates and upgrades the database schema.
package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for MySQL outside development. Every other combination,
// including postgres and sqlite, uses AutoMigrate because the scripts are MySQL DDL.
func NewManager(driver, environment string, log logger.Interface) *Manager {
	return NewManagerWithStrategy(SelectStrategy(driver, environment, log), log)
}

func SelectStrategy(driver, environment string, log logger.Interface) Strategy {
	if strings.EqualFold(driver, "mysql") && !strings.EqualFold(environment, constants.EnvDevelopment) {
		return NewGooseStrategy(log)
	}
	return NewGormAutoMigrateStrategy(log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB, models ...any) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, models...); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
