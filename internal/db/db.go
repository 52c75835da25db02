// Package db locates and opens the workspace database. All state
// lives in one SQLite file under the workspace dotdir; the schema is
// owned by the snapshot package.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	dotDir   = ".assetline"
	fileName = "assetline.db"
)

// EnsureWorkspace creates the workspace dotdir if missing.
func EnsureWorkspace(workspace string) (string, error) {
	path := filepath.Join(workspace, dotDir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Open opens the workspace database, creating the dotdir and file on
// first use. The busy timeout covers the writer goroutine and a final
// flush sharing the file at exit.
func Open(workspace string) (*sql.DB, error) {
	if _, err := EnsureWorkspace(workspace); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", Path(workspace))
	return sql.Open("sqlite", dsn)
}

// Path returns the database path for the workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, dotDir, fileName)
}
