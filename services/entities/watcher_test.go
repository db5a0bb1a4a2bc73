// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package entities

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_Validation(t *testing.T) {
	if _, err := NewWatcher(nil, 0, func([]string) {}); err == nil {
		t.Error("NewWatcher() with no files should fail")
	}
	if _, err := NewWatcher([]string{"/tmp/x"}, 0, nil); err == nil {
		t.Error("NewWatcher() with nil handler should fail")
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "outbounds.json")
	if err := os.WriteFile(target, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	changes := make(chan []string, 1)
	w, err := NewWatcher([]string{target}, 50*time.Millisecond, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watch loop a moment to come up, then touch the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(target, []byte(`{"outbounds": []}`), 0o644); err != nil {
		t.Fatalf("failed to modify file: %v", err)
	}

	select {
	case paths := <-changes:
		if len(paths) != 1 {
			t.Fatalf("changed paths = %v, want the single watched file", paths)
		}
		abs, _ := filepath.Abs(target)
		if paths[0] != abs {
			t.Errorf("changed path = %q, want %q", paths[0], abs)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the write")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "outbounds.json")
	sibling := filepath.Join(dir, "unrelated.json")
	if err := os.WriteFile(target, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	changes := make(chan []string, 1)
	w, err := NewWatcher([]string{target}, 50*time.Millisecond, func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(sibling, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	select {
	case paths := <-changes:
		t.Fatalf("watcher reported unwatched file change: %v", paths)
	case <-time.After(500 * time.Millisecond):
		// Expected: the sibling write is filtered out.
	}
}
