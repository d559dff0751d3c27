package store

import (
	"context"
	"database/sql"
	"encoding/json"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ringlabs/saturn/internal/canonical"
	"github.com/ringlabs/saturn/internal/ledger"
	"github.com/ringlabs/saturn/internal/vec"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed block archive.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Idempotent: safe to call on an existing archive.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to archive: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}

// AppendBlock archives a sealed block. A block whose hash or index is
// already archived is silently ignored, so replaying an
// already-archived chain is a no-op.
//
// Transactions and projection are stored as canonical JSON, so the
// archived bytes re-hash to the block's stored hash on read-back.
func (s *Store) AppendBlock(ctx context.Context, b ledger.Block) error {
	txs := b.Transactions
	if txs == nil {
		txs = []map[string]any{}
	}
	txJSON, err := canonical.Marshal(txs)
	if err != nil {
		return fmt.Errorf("append block %d: %w", b.Index, err)
	}

	var projection sql.NullString
	if b.Projection != nil {
		projJSON, err := canonical.Marshal([]float64(b.Projection))
		if err != nil {
			return fmt.Errorf("append block %d: %w", b.Index, err)
		}
		projection = sql.NullString{String: string(projJSON), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blocks (block_index, timestamp, transactions, prev_hash, hash, projection)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		int64(b.Index),
		b.Timestamp,
		string(txJSON),
		b.PrevHash,
		b.Hash,
		projection,
	)
	if err != nil {
		return fmt.Errorf("append block %d: %w", b.Index, err)
	}
	return nil
}

// ReadChain returns all archived blocks in index order.
func (s *Store) ReadChain(ctx context.Context) ([]ledger.Block, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT block_index, timestamp, transactions, prev_hash, hash, projection
		FROM blocks
		ORDER BY block_index ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read chain: %w", err)
	}
	defer rows.Close()

	var chain []ledger.Block
	for rows.Next() {
		var (
			index      int64
			timestamp  float64
			txJSON     string
			prevHash   string
			hash       string
			projection sql.NullString
		)
		if err := rows.Scan(&index, &timestamp, &txJSON, &prevHash, &hash, &projection); err != nil {
			return nil, fmt.Errorf("read chain: scan: %w", err)
		}

		var txs []map[string]any
		if err := json.Unmarshal([]byte(txJSON), &txs); err != nil {
			return nil, fmt.Errorf("read chain: block %d transactions: %w", index, err)
		}

		block := ledger.Block{
			Index:        uint64(index),
			Timestamp:    timestamp,
			Transactions: txs,
			PrevHash:     prevHash,
			Hash:         hash,
		}
		if projection.Valid {
			var p []float64
			if err := json.Unmarshal([]byte(projection.String), &p); err != nil {
				return nil, fmt.Errorf("read chain: block %d projection: %w", index, err)
			}
			block.Projection = vec.Vector(p)
		}
		chain = append(chain, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read chain: %w", err)
	}
	return chain, nil
}

// Len returns the number of archived blocks.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count blocks: %w", err)
	}
	return n, nil
}
