package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"os"
	"path/filepath"
	"strings"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {

	if !strings.HasPrefix(connectionString, "file:") && connectionString != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(connectionString), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(entities.Subscriber{})
	if err != nil {
		return fmt.Errorf("failed to migrate Subscriber entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Visitor{})
	if err != nil {
		return fmt.Errorf("failed to migrate Visitor entity: %w", err)
	}

	return nil
}

// SeedSubscribers imports chat ids from configuration, already known ones are left as is.
func (c *DbContext) SeedSubscribers(chatIDs []int64) error {
	if len(chatIDs) == 0 {
		return nil
	}

	subscribers := make([]entities.Subscriber, 0, len(chatIDs))
	for _, id := range chatIDs {
		subscribers = append(subscribers, entities.Subscriber{ChatID: id})
	}

	if err := c.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&subscribers).Error; err != nil {
		return fmt.Errorf("failed to seed subscribers: %w", err)
	}
	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
