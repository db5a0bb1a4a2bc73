// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupSuffix     = ".backup"
	backupTimeFormat = "2006-01-02_150405"
)

// BackupManager creates timestamped copies of target documents before
// a generate run overwrites them, and rotates old copies so a busy
// deployment does not accumulate backups without bound.
//
// Backups live alongside the original as
// "{name}.backup.{timestamp}".
type BackupManager struct {
	maxBackups int
}

// NewBackupManager creates a manager retaining at most maxBackups
// copies per file.
func NewBackupManager(maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = 5
	}
	return &BackupManager{maxBackups: maxBackups}
}

// BackupBeforeOverwrite copies path to a timestamped backup and
// returns the backup location. A missing original is not an error; it
// returns "" and nothing is written.
func (m *BackupManager) BackupBeforeOverwrite(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	backupPath := fmt.Sprintf("%s%s.%s", path, backupSuffix, time.Now().Format(backupTimeFormat))
	if err := copyFile(path, backupPath, info.Mode()); err != nil {
		return "", err
	}

	// Rotation failure does not fail the backup itself.
	if err := m.rotate(path); err != nil {
		logger.Warn("backup rotation failed", "path", path, "error", err)
	}
	return backupPath, nil
}

// rotate deletes the oldest backups of path beyond the retention
// limit.
func (m *BackupManager) rotate(path string) error {
	backups, err := listBackups(path)
	if err != nil {
		return err
	}
	if len(backups) <= m.maxBackups {
		return nil
	}
	for _, stale := range backups[m.maxBackups:] {
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", stale, err)
		}
	}
	return nil
}

// listBackups returns the backups of path, newest first.
func listBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + backupSuffix + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		backups = append(backups, filepath.Join(dir, entry.Name()))
	}

	// The timestamp format sorts lexicographically; reverse for
	// newest-first.
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
