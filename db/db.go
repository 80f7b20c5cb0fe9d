package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charles-oliveira/web-2/logger"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// foldLowerFunc is a Unicode-aware lower-case function registered with the
// SQLite driver for case-insensitive search.
const foldLowerFunc = "fold_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldLowerFunc, 1, foldLower)
}

func foldLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	}
	return args[0], nil
}

// Dialect names the SQL backend a Storage talks to. The values double as
// database/sql driver names.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case Postgres, SQLite:
		return d, nil
	case "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// SQLiteDSN builds a modernc DSN for a database file with foreign keys, WAL
// and immediate write locks switched on.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// Storage is the relational store for categories, transactions and users.
// Every category and transaction query is scoped by owner id.
type Storage struct {
	DB      *sql.DB
	dialect Dialect
	log     *logger.Logger
	now     func() time.Time
}

// NewStorage opens and pings the database. Schema changes are applied by
// RunMigrations, not here.
func NewStorage(driver Dialect, dsn string, log *logger.Logger) (*Storage, error) {
	if log == nil {
		log = logger.Nop()
	}
	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s database: %w", driver, err)
	}
	return &Storage{
		DB:      db,
		dialect: driver,
		log:     log.WithComponent(logger.ComponentStorage),
		now:     time.Now,
	}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) Dialect() Dialect {
	return s.dialect
}

// Ping reports whether the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction and commits when fn returns nil.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *Storage) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lower folds col to lower case. SQLite's LOWER only folds ASCII, so the
// SQLite side goes through foldLowerFunc instead.
func (s *Storage) lower(col string) string {
	if s.dialect == SQLite {
		return foldLowerFunc + "(" + col + ")"
	}
	return "LOWER(" + col + ")"
}

// lockRow returns the row-locking suffix for SELECTs inside a transaction.
// SQLite transactions already hold the database write lock.
func (s *Storage) lockRow(mode string) string {
	if s.dialect == Postgres {
		return " FOR " + mode
	}
	return ""
}

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// timestamp returns the current time in the fixed-width form stored in
// every created_at, updated_at and deleted_at column.
func (s *Storage) timestamp() (time.Time, string) {
	t := s.now().UTC().Truncate(time.Microsecond)
	return t, t.Format(timestampLayout)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// likePattern turns a search term into a lower-cased LIKE pattern matching
// it anywhere, with LIKE wildcards in the term escaped.
func likePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
