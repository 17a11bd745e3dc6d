package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Driver   string
	Path     string // sqlite database file, ":memory:" allowed
	URL      string // DSN for postgres and mysql
	LogLevel string // silent, error, warn, info
}

// DB is the process-wide store handle. Multi-statement writes go through
// WriteTx, which holds a single writer lock for the duration of the
// database transaction.
type DB struct {
	*gorm.DB
	driver  string
	sqlx    *sqlx.DB
	writeMu sync.Mutex
}

func Connect(cfg Config) (*DB, error) {
	dialector, bindName, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  parseLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverSQLite || cfg.Driver == "" {
		// One connection: the embedded file has a single writer anyway and
		// ":memory:" databases are per connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &DB{
		DB:     gdb,
		driver: cfg.Driver,
		sqlx:   sqlx.NewDb(sqlDB, bindName),
	}, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		path := cfg.Path
		if path == "" {
			path = "data/pos.db"
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, "", fmt.Errorf("create data dir: %w", err)
			}
		}
		return sqlite.Open(path + "?_busy_timeout=5000"), "sqlite3", nil
	case DriverPostgres:
		if cfg.URL == "" {
			return nil, "", fmt.Errorf("DATABASE_URL is required for driver %q", cfg.Driver)
		}
		return postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true,
		}), "pgx", nil
	case DriverMySQL:
		if cfg.URL == "" {
			return nil, "", fmt.Errorf("DATABASE_URL is required for driver %q", cfg.Driver)
		}
		dsn := cfg.URL
		if !strings.Contains(dsn, "parseTime") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		return mysql.Open(dsn), "mysql", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Migrate creates missing tables and indexes for the given models.
func (d *DB) Migrate(models ...interface{}) error {
	return d.AutoMigrate(models...)
}

func (d *DB) Driver() string {
	if d.driver == "" {
		return DriverSQLite
	}
	return d.driver
}

// SQLX exposes the same connection pool for hand-written queries.
func (d *DB) SQLX() *sqlx.DB {
	return d.sqlx
}

// WriteTx runs fn inside a database transaction while holding the writer
// lock. Any error returned by fn rolls the transaction back.
func (d *DB) WriteTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	return d.WithContext(ctx).Transaction(fn)
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
