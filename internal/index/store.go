package index

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists declarations and highlighting of analyzed files.
type Store struct {
	db *sql.DB
}

// SymbolRow is a stored declaration. Offsets are byte offsets into the file.
type SymbolRow struct {
	Name    string
	Kind    string
	Storage string
	Type    string
	Start   uint32
	End     uint32
	Seq     uint32
	Scope   uint32
}

// TokenRow is a stored highlighting class.
type TokenRow struct {
	Kind  string
	Start uint32
	End   uint32
}

// OpenStore opens a SQLite database at dbPath with WAL mode enabled.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id      INTEGER PRIMARY KEY,
  path    TEXT NOT NULL UNIQUE,
  hash    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
  id        INTEGER PRIMARY KEY,
  file_id   INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  name      TEXT NOT NULL,
  kind      TEXT NOT NULL,
  storage   TEXT NOT NULL,
  type      TEXT NOT NULL,
  start_off INTEGER NOT NULL,
  end_off   INTEGER NOT NULL,
  seq       INTEGER NOT NULL,
  scope     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(file_id, name);

CREATE TABLE IF NOT EXISTS tokens (
  id        INTEGER PRIMARY KEY,
  file_id   INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  kind      TEXT NOT NULL,
  start_off INTEGER NOT NULL,
  end_off   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tokens_file ON tokens(file_id, start_off);
`

// ReplaceFile drops everything stored for path and writes the new rows in
// one transaction.
func (s *Store) ReplaceFile(path, hash string, syms []SymbolRow, toks []TokenRow) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	res, err := tx.Exec("INSERT INTO files (path, hash) VALUES (?, ?)", path, hash)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	symStmt, err := tx.Prepare(`INSERT INTO symbols (file_id, name, kind, storage, type, start_off, end_off, seq, scope)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare symbols: %w", err)
	}
	defer symStmt.Close()
	for _, r := range syms {
		if _, err = symStmt.Exec(fileID, r.Name, r.Kind, r.Storage, r.Type, r.Start, r.End, r.Seq, r.Scope); err != nil {
			return fmt.Errorf("insert symbol %s: %w", r.Name, err)
		}
	}

	tokStmt, err := tx.Prepare("INSERT INTO tokens (file_id, kind, start_off, end_off) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare tokens: %w", err)
	}
	defer tokStmt.Close()
	for _, r := range toks {
		if _, err = tokStmt.Exec(fileID, r.Kind, r.Start, r.End); err != nil {
			return fmt.Errorf("insert token: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FileHash returns the hash stored for path; ok is false for unknown files.
func (s *Store) FileHash(path string) (hash string, ok bool, err error) {
	err = s.db.QueryRow("SELECT hash FROM files WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("file hash: %w", err)
	}
	return hash, true, nil
}

const symbolCols = "s.name, s.kind, s.storage, s.type, s.start_off, s.end_off, s.seq, s.scope"

// Definition returns the declarations of name in path, earliest first.
func (s *Store) Definition(path, name string) ([]SymbolRow, error) {
	rows, err := s.db.Query(
		"SELECT "+symbolCols+` FROM symbols s JOIN files f ON f.id = s.file_id
		 WHERE f.path = ? AND s.name = ? ORDER BY s.seq`, path, name,
	)
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}
	defer rows.Close()
	var out []SymbolRow
	for rows.Next() {
		var r SymbolRow
		if err := rows.Scan(&r.Name, &r.Kind, &r.Storage, &r.Type, &r.Start, &r.End, &r.Seq, &r.Scope); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Tokens returns the highlighting of path ordered by offset.
func (s *Store) Tokens(path string) ([]TokenRow, error) {
	rows, err := s.db.Query(
		`SELECT t.kind, t.start_off, t.end_off FROM tokens t JOIN files f ON f.id = t.file_id
		 WHERE f.path = ? ORDER BY t.start_off`, path,
	)
	if err != nil {
		return nil, fmt.Errorf("tokens: %w", err)
	}
	defer rows.Close()
	var out []TokenRow
	for rows.Next() {
		var r TokenRow
		if err := rows.Scan(&r.Kind, &r.Start, &r.End); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
