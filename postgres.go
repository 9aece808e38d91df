package main

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ourApp/domain"
)

// DB provides the database connection.
type DB struct {
	// Object-relational mapping.
	Gorm *gorm.DB
	// Connection info string containing database name, user, port etc.
	ConnectionInfo string
}

// NewDB returns a new instance of DB.
func NewDB(connectionInfo string) *DB {
	return &DB{
		ConnectionInfo: connectionInfo,
	}
}

// Open opens a new database connection. It also configures query logging
// based on whether we're in development or in production.
func Open(db *DB, isProd bool) (err error) {
	if db.ConnectionInfo == "" {
		return fmt.Errorf("connectionInfo required")
	}
	// TranslateError maps driver errors like unique violations onto
	// gorm's portable error values, e.g. gorm.ErrDuplicatedKey.
	logMode := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if !isProd {
		logMode.Logger = logger.Default.LogMode(logger.Info)
	}
	db.Gorm, err = gorm.Open(postgres.Open(db.ConnectionInfo), logMode)
	if err != nil {
		return fmt.Errorf("err opening gorm postgres connection: %w", err)
	}
	return nil
}

// AutoMigrate runs database migrations for all tables, plus the indexes
// gorm tags cannot express: the full-text index backing search and the
// case-insensitive uniqueness of usernames.
func AutoMigrate(db *DB) error {
	err := db.Gorm.AutoMigrate(
		domain.User{},
		domain.Post{},
		domain.Follow{},
	)
	if err != nil {
		return fmt.Errorf("err migrating: %w", err)
	}
	err = db.Gorm.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))`,
	).Error
	if err != nil {
		return fmt.Errorf("err creating username index: %w", err)
	}
	err = db.Gorm.Exec(
		`CREATE INDEX IF NOT EXISTS idx_posts_fulltext ON posts
		 USING GIN (to_tsvector('english', title || ' ' || body))`,
	).Error
	if err != nil {
		return fmt.Errorf("err creating full-text index: %w", err)
	}
	return nil
}

// DestructiveReset drops all tables and rebuilds them.
func DestructiveReset(db *DB) error {
	err := db.Gorm.Migrator().DropTable(
		domain.User{},
		domain.Post{},
		domain.Follow{},
	)
	if err != nil {
		return err
	}
	return AutoMigrate(db)
}

// Close closes the database connection.
func Close(db *DB) error {
	sqlDb, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
