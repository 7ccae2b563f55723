// Package backup copies the ledger database file to and from a backup
// location.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Backup copies the database file into dir, keeping its base name.
// Returns the path of the copy.
func Backup(dbPath, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(dbPath))
	if err := copyFile(dbPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Restore copies a backup made by Backup over the database file.
func Restore(dbPath, dir string) error {
	src := filepath.Join(dir, filepath.Base(dbPath))
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return copyFile(src, dbPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("failed to sync %s: %w", dst, err)
	}
	return out.Close()
}
