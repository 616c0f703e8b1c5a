package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB tracks which CSVs have been successfully analyzed so re-running
// the uploader over the same clip directory never re-sends them. A file is
// considered new when its path, size, or content hash changed.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS analyzed_files (
		path        TEXT PRIMARY KEY,
		size        INTEGER NOT NULL,
		hash        TEXT NOT NULL,
		analysis_id TEXT NOT NULL,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsAnalyzed checks if a file was already submitted with the same size and hash.
func (s *StateDB) IsAnalyzed(relPath string, size int64, hash string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM analyzed_files WHERE path = ? AND size = ? AND hash = ?`,
		relPath, size, hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkAnalyzed records a successful submission and the server-side analysis
// id it produced. A re-upload of a changed file replaces the old record.
func (s *StateDB) MarkAnalyzed(relPath string, size int64, hash, analysisID string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO analyzed_files (path, size, hash, analysis_id) VALUES (?, ?, ?, ?)`,
		relPath, size, hash, analysisID,
	)
	return err
}

// AnalysisID returns the stored server-side analysis id for a file, or ""
// if the file was never submitted.
func (s *StateDB) AnalysisID(relPath string) (string, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT analysis_id FROM analyzed_files WHERE path = ?`, relPath,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
