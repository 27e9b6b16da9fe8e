package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store is a storage.Store backed by a single SQLite table. The byte quota is
// enforced here so the service layer sees the same ErrQuotaExceeded a browser
// local-storage write would produce.
type Store struct {
	db       *sql.DB
	maxBytes int // 0 means unlimited
	log      *logger.Logger
}

// Open opens (creating if needed) the key-value database at path and applies
// migrations. maxBytes caps the total stored size; 0 disables the cap.
func Open(path string, maxBytes int) (*Store, error) {
	log := logger.Default().WithPrefix("kv")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening key-value database: %s", path)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1) // SQLite allows only one writer at a time

	s := &Store{db: sqlDB, maxBytes: maxBytes, log: log}

	log.Debug("applying migrations")
	if err := s.applyMigrations(context.Background()); err != nil {
		log.Error("failed to apply migrations: %v", err)
		return nil, err
	}

	log.Info("key-value database ready")
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := s.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			s.log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		s.log.Info("applying migration: %s", version)
		if _, err := s.db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_migrations WHERE version = ?`, version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sqlBuilder.Select("value").From("kv").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.log.Error("failed to get key %q: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.maxBytes > 0 {
		used, err := s.sizeExcluding(ctx, key)
		if err != nil {
			return err
		}
		if used+storage.EntrySize(key, value) > s.maxBytes {
			s.log.Warn("write of key %q rejected: quota exceeded", key)
			return storage.ErrQuotaExceeded
		}
	}

	query, args, err := sqlBuilder.
		Insert("kv").
		Columns("key", "value", "updated_at").
		Values(key, value, squirrel.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("failed to set key %q: %v", key, err)
		return err
	}
	s.log.Debug("set key %q (%d chars)", key, len(value))
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	query, args, err := sqlBuilder.Delete("kv").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error("failed to remove key %q: %v", key, err)
		return err
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	builder := sqlBuilder.Select("key").From("kv").OrderBy("key")
	if prefix != "" {
		builder = builder.Where(squirrel.Like{"key": prefix + "%"})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.log.Error("failed to list keys: %v", err)
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// sizeExcluding sums the stored size of all entries except the named key,
// using the same UTF-16 accounting the guardian reports.
func (s *Store) sizeExcluding(ctx context.Context, key string) (int, error) {
	query, args, err := sqlBuilder.
		Select("key", "value").
		From("kv").
		Where(squirrel.NotEq{"key": key}).
		ToSql()
	if err != nil {
		return 0, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return 0, err
		}
		total += storage.EntrySize(k, v)
	}
	return total, rows.Err()
}
