package db

import (
	"bytes"         // Header comparison
	"context"       // Request-scoped queries
	"errors"        // Error inspection
	"fmt"           // Error wrapping
	"io"            // Header reads
	"io/fs"         // fs.ErrNotExist
	"os"            // File system checks
	"path/filepath" // Path handling
	"strings"       // Prefix handling
	"sync"          // Bootstrap runs once
	"time"          // Slow query threshold

	"github.com/mattn/go-sqlite3" // SQLite error codes
	"github.com/sirupsen/logrus"  // Logrus for structured logging
	"gorm.io/driver/sqlite"       // SQLite driver for GORM
	"gorm.io/gorm"                // GORM ORM library
	"gorm.io/gorm/logger"         // GORM logger levels
)

// sqliteHeader is the magic string every SQLite 3 database file starts with
var sqliteHeader = []byte("SQLite format 3\x00")

// Options controls what bootstrap seeds
type Options struct {
	SchemaPath    string // Optional schema script, the embedded schema is used when empty or unreadable
	AdminUsername string // Default admin account
	AdminPassword string // Plain-text password hashed before insert
}

// Store is the storage context handed to every handler.
// Queries must go through DB, which waits for bootstrap to finish.
type Store struct {
	db      *gorm.DB      // Underlying connection
	path    string        // Resolved database file
	opts    Options       // Bootstrap options
	ready   chan struct{} // Closed once bootstrap has finished
	once    sync.Once     // Guards bootstrap
	initErr error         // Bootstrap outcome, read only after ready is closed
}

// Open resolves the database path, prepares the file and connects. It does not
// touch the schema; call Bootstrap before serving.
func Open(rawPath string, opts Options) (*Store, error) {
	path := NormalizePath(rawPath)
	if path == "" || path == "." {
		return nil, fmt.Errorf("invalid database path %q", rawPath)
	}
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	if err := prepareDatabaseFile(path); err != nil {
		return nil, fmt.Errorf("checking database file: %w", err)
	}

	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,            // Map constraint failures to gorm errors
		Logger:         newGormLogger(), // Only slow queries and failures, through logrus
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // SQLite has a single writer anyway

	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	logrus.WithField("path", path).Info("Connected to SQLite database")
	return &Store{
		db:    gdb,
		path:  path,
		opts:  opts,
		ready: make(chan struct{}),
	}, nil
}

// slowQueryThreshold is the duration above which gorm reports a query
const slowQueryThreshold = 200 * time.Millisecond

// gormLogWriter sends gorm's log lines to logrus
type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...any) {
	logrus.WithField("component", "gorm").Warnf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(gormLogWriter{}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true, // Handlers map not-found themselves
		Colorful:                  false,
	})
}

// Path returns the resolved database file
func (s *Store) Path() string {
	return s.path
}

// Bootstrap applies the schema and seeds defaults. It runs at most once; later
// calls return the first outcome.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.once.Do(func() {
		s.initErr = s.bootstrap(ctx)
		close(s.ready)
	})
	return s.initErr
}

// DB waits until bootstrap has finished and returns a session bound to ctx
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	select {
	case <-s.ready:
		if s.initErr != nil {
			return nil, fmt.Errorf("database not initialized: %w", s.initErr)
		}
		return s.db.WithContext(ctx), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Counts returns the row count of every required table
func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	db, err := s.DB(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(RequiredTables))
	for _, table := range RequiredTables {
		var n int64
		if err := db.Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Close releases the connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NormalizePath strips URI-style prefixes (sqlite://, sqlite:, file://, file:)
// and any query string from a configured database location.
func NormalizePath(raw string) string {
	p := strings.TrimSpace(raw)
	for _, prefix := range []string{"sqlite://", "sqlite:", "file://", "file:"} {
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimPrefix(p, prefix)
			break
		}
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// prepareDatabaseFile removes an empty leftover file and moves aside anything
// that does not carry the SQLite header, so the driver can create a fresh database.
func prepareDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("path", path).Warn("Database file not found, a new database will be created")
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		logrus.WithField("path", path).Warn("Removing empty database file")
		return os.Remove(path)
	}

	valid, err := hasSQLiteHeader(path)
	if err != nil || valid {
		return err
	}
	backup := path + ".corrupt"
	logrus.WithFields(logrus.Fields{
		"path":   path,   // Offending file
		"backup": backup, // Where it is moved
	}).Warn("Database file is not a SQLite database, moving it aside")
	return os.Rename(path, backup)
}

func hasSQLiteHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return false, nil // Shorter than a header
		}
		return false, err
	}
	return bytes.Equal(header, sqliteHeader), nil
}

// IsForeignKeyViolation reports whether err comes from a failed foreign key check
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY constraint
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}
