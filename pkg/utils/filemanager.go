// =============================================================================
// Finance Ledger Export - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the exporter:
//   - Output file naming (type prefix, timestamp, collision qualifier)
//   - Atomic file writes (no partial output on failure)
//   - Directory management
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName generates a unique output workbook name.
//
// The name carries the export type, the run timestamp and a short random
// qualifier so parallel runs within the same second never collide.
//
// EXAMPLE:
//
//	OutputFileName("排单", now) -> "排单_20240315_143022_a1b2c3d4.xlsx"
func OutputFileName(prefix string, now time.Time) string {
	qualifier := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s_%s.xlsx", prefix, now.Format("20060102_150405"), qualifier)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path via a temporary file and rename, so a
// failed run never leaves a truncated workbook for the ERP import to pick
// up.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
