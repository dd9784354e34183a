package db

import (
	"context"                  // Bootstrap context
	_ "embed"                  // Embedded default schema
	"errors"                   // Sentinel errors
	"fmt"                      // Error wrapping
	"nav_site/internal/domain" // Importing domain models
	"nav_site/internal/utils"  // Password hashing
	"os"                       // Reading an external schema file
	"strings"                  // Joining table names

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// RequiredTables must all exist before the store is usable
var RequiredTables = []string{"users", "menus", "cards", "ads", "friend_links"}

// ErrSchemaIncomplete means required tables are still missing after the built-in schema was applied
var ErrSchemaIncomplete = errors.New("database schema incomplete")

//go:embed schema.sql
var defaultSchema string

// Seed content inserted when the menus table is empty
const (
	seedMenuName  = "Quick Links"
	seedMenuIcon  = "mdi-flash"
	seedCardTitle = "GitHub"
	seedCardURL   = "https://github.com"
	seedCardIcon  = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"
)

func (s *Store) bootstrap(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	schema, source := s.loadSchema()
	if err := db.Exec(schema).Error; err != nil {
		return fmt.Errorf("applying %s schema: %w", source, err)
	}

	missing, err := missingTables(db)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		logrus.WithField("tables", strings.Join(missing, ", ")).Warn("Missing tables detected, re-applying built-in schema")
		if err := db.Exec(defaultSchema).Error; err != nil {
			return fmt.Errorf("applying built-in schema: %w", err)
		}
		if missing, err = missingTables(db); err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: missing %s", ErrSchemaIncomplete, strings.Join(missing, ", "))
		}
	}
	logrus.Info("Database schema initialized")

	if err := migrateLegacyFriendLinks(db); err != nil {
		logrus.WithError(err).Warn("Legacy friend link migration failed") // Old rows stay where they were
	}
	if err := s.ensureDefaultAdmin(db); err != nil {
		return err
	}
	return seedDefaultContent(db)
}

// loadSchema returns the configured schema script, or the embedded one when
// none is configured or the file is unusable.
func (s *Store) loadSchema() (string, string) {
	if s.opts.SchemaPath == "" {
		return defaultSchema, "built-in"
	}
	content, err := os.ReadFile(s.opts.SchemaPath)
	if err != nil {
		logrus.WithError(err).WithField("path", s.opts.SchemaPath).Warn("Cannot read schema file, using built-in schema")
		return defaultSchema, "built-in"
	}
	if strings.TrimSpace(string(content)) == "" {
		logrus.WithField("path", s.opts.SchemaPath).Warn("Schema file is empty, using built-in schema")
		return defaultSchema, "built-in"
	}
	return string(content), s.opts.SchemaPath
}

func missingTables(db *gorm.DB) ([]string, error) {
	var existing []string
	err := db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ?", RequiredTables).
		Scan(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("checking tables: %w", err)
	}
	found := make(map[string]bool, len(existing))
	for _, name := range existing {
		found[name] = true
	}
	var missing []string
	for _, table := range RequiredTables {
		if !found[table] {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// migrateLegacyFriendLinks copies rows from the deprecated friends table.
// Rows whose url already exists in friend_links are skipped.
func migrateLegacyFriendLinks(db *gorm.DB) error {
	var legacy int64
	if err := db.Raw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'friends'").
		Scan(&legacy).Error; err != nil {
		return err
	}
	if legacy == 0 {
		return nil // Nothing to migrate
	}
	res := db.Exec("INSERT OR IGNORE INTO friend_links (name, url, logo) SELECT name, url, logo FROM friends ORDER BY id ASC")
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		logrus.WithField("migrated", res.RowsAffected).Info("Migrated legacy friend links")
	}
	return nil
}

func (s *Store) ensureDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Where("username = ?", s.opts.AdminUsername).Count(&count).Error; err != nil {
		return fmt.Errorf("checking admin user: %w", err)
	}
	if count > 0 {
		logrus.WithField("username", s.opts.AdminUsername).Info("Admin user already exists")
		return nil
	}
	hash, err := utils.HashPassword(s.opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if err := db.Create(&domain.User{Username: s.opts.AdminUsername, Password: hash}).Error; err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	logrus.WithField("username", s.opts.AdminUsername).Warn("Default admin user created, change its password after first login")
	return nil
}

// seedDefaultContent inserts one menu and one card, only into an empty menus table
func seedDefaultContent(db *gorm.DB) error {
	var menus int64
	if err := db.Model(&domain.Menu{}).Count(&menus).Error; err != nil {
		return fmt.Errorf("counting menus: %w", err)
	}
	if menus > 0 {
		return nil
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		menuIcon := seedMenuIcon
		menu := domain.Menu{Name: seedMenuName, Icon: &menuIcon}
		if err := tx.Create(&menu).Error; err != nil {
			return err // Return error to rollback
		}
		cardIcon := seedCardIcon
		card := domain.Card{Title: seedCardTitle, URL: seedCardURL, Icon: &cardIcon, MenuID: &menu.ID}
		return tx.Create(&card).Error
	})
	if err != nil {
		return fmt.Errorf("seeding default content: %w", err)
	}
	logrus.Info("Seeded default menu and card")
	return nil
}
