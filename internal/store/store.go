package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/insightloop/contractmeta/config"
	"github.com/insightloop/contractmeta/internal/extraction"
)

// Store persists run status and extracted metadata in Postgres.
type Store struct {
	DB *sql.DB
}

// FileStatus is the persisted lifecycle record for one file.
type FileStatus struct {
	FileID    string
	Status    extraction.RunStatus
	Progress  int
	Error     string
	UpdatedAt time.Time
}

// New opens a connection from config and ensures the schema exists.
func New(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	dsn := cfg.URL
	if dsn == "" {
		host := cfg.Host
		if host == "" {
			host = "localhost"
		}
		ssl := cfg.SSLMode
		if ssl == "" {
			ssl = "disable"
		}
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.User, cfg.Password, host, cfg.Port, cfg.DBName, ssl)
	}
	return NewWithDSN(ctx, dsn)
}

// NewWithDSN constructs the Store using an explicit Postgres DSN.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	s := &Store{DB: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS file_status (
			file_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			progress INT NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS file_metadata (
			file_id TEXT PRIMARY KEY,
			metadata JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SetStatus upserts the lifecycle record for a file.
func (s *Store) SetStatus(ctx context.Context, fileID string, status extraction.RunStatus, progress int, errMsg string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO file_status (file_id, status, progress, error, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (file_id) DO UPDATE
		SET status = EXCLUDED.status, progress = EXCLUDED.progress, error = EXCLUDED.error, updated_at = now()`,
		fileID, string(status), progress, errMsg)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// GetStatus returns the lifecycle record for a file, if one exists.
func (s *Store) GetStatus(ctx context.Context, fileID string) (FileStatus, bool, error) {
	var (
		fs     FileStatus
		status string
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT file_id, status, progress, error, updated_at FROM file_status WHERE file_id = $1`,
		fileID).Scan(&fs.FileID, &status, &fs.Progress, &fs.Error, &fs.UpdatedAt)
	if err == sql.ErrNoRows {
		return FileStatus{}, false, nil
	}
	if err != nil {
		return FileStatus{}, false, fmt.Errorf("get status: %w", err)
	}
	fs.Status = extraction.RunStatus(status)
	return fs, true, nil
}

// SetMetadata upserts the final metadata document for a file.
func (s *Store) SetMetadata(ctx context.Context, fileID string, doc *extraction.MetadataDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO file_metadata (file_id, metadata, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (file_id) DO UPDATE
		SET metadata = EXCLUDED.metadata, updated_at = now()`,
		fileID, payload)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

// GetMetadata returns the stored metadata document for a file, if any.
func (s *Store) GetMetadata(ctx context.Context, fileID string) (*extraction.MetadataDocument, bool, error) {
	var payload []byte
	err := s.DB.QueryRowContext(ctx, `SELECT metadata FROM file_metadata WHERE file_id = $1`, fileID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get metadata: %w", err)
	}
	var doc extraction.MetadataDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, false, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &doc, true, nil
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
