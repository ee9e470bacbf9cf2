// Package repomanager provides a gorm-backed RepositoryManager for SQLite and
// PostgreSQL, wiring together repository constructors and goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/server/config"
	"github.com/dmitrijs2005/gophbank/internal/server/migrations"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/principals"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/transactions"
	"github.com/glebarez/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlitePragmas enables FK enforcement and WAL with a 5s busy wait.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// GormRepositoryManager vends gorm-backed repository implementations.
type GormRepositoryManager struct {
	db     *gorm.DB
	driver string
}

// New wraps an already opened gorm handle. driver selects the migration set.
func New(db *gorm.DB, driver string) *GormRepositoryManager {
	return &GormRepositoryManager{db: db, driver: driver}
}

// Open connects to the database named by driver and dsn. Migrations are not
// run; call RunMigrations.
func Open(ctx context.Context, driver, dsn string) (*GormRepositoryManager, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(withPragmas(dsn))
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	m := New(db, driver)
	if err := m.Ping(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

func (m *GormRepositoryManager) Principals(ctx context.Context) principals.Repository {
	return principals.NewGormRepository(m.db.WithContext(ctx))
}

func (m *GormRepositoryManager) Transactions(ctx context.Context) transactions.Repository {
	return transactions.NewGormRepository(m.db.WithContext(ctx))
}

func (m *GormRepositoryManager) WithTx(ctx context.Context, fn func(tx RepositoryManager) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepositoryManager{db: tx, driver: m.driver})
	})
}

func (m *GormRepositoryManager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *GormRepositoryManager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's driver.
func (m *GormRepositoryManager) RunMigrations(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}

	var dialect string
	switch m.driver {
	case config.DriverSQLite:
		dialect = "sqlite3"
	case config.DriverPostgres:
		dialect = "pgx"
	default:
		return fmt.Errorf("unsupported database driver %q", m.driver)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetLogger(goose.NopLogger())

	return gooseUpContext(ctx, sqlDB, m.driver)
}
