package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
)

// Supported SQL drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

//go:embed schema_sqlite.sql schema_mysql.sql
var schemaFS embed.FS

// dialect holds the driver-specific statements.
type dialect struct {
	schemaFile string
	upsert     string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		schemaFile: "schema_sqlite.sql",
		upsert: `INSERT INTO app_memory (mem_key, mem_value) VALUES (?, ?)
			ON CONFLICT(mem_key) DO UPDATE SET mem_value = excluded.mem_value, updated_at = CURRENT_TIMESTAMP`,
	},
	DriverMySQL: {
		schemaFile: "schema_mysql.sql",
		upsert: `INSERT INTO app_memory (mem_key, mem_value) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE mem_value = VALUES(mem_value)`,
	},
}

// SQLStore keeps the memory as a JSON value in a key/value table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLStore opens the database and creates the table if needed.
// For sqlite3 the target is a file path; for mysql a DSN.
func NewSQLStore(driver, target string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if target == "" {
		return nil, fmt.Errorf("%s store needs a path or dsn", driver)
	}

	if driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open(driver, target)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite serializes writers anyway
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLStore{db: db, dialect: d}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile(s.dialect.schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.dialect.schemaFile, err)
	}
	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) (*models.AppMemory, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT mem_value FROM app_memory WHERE mem_key = ?", MemoryKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode([]byte(value))
}

func (s *SQLStore) Save(ctx context.Context, m *models.AppMemory) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.dialect.upsert, MemoryKey, string(data))
	return err
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
