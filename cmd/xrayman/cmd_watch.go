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
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/xrayman/pkg/ux"
	"github.com/AleutianAI/xrayman/services/entities"
)

func runWatch(cmd *cobra.Command, args []string) error {
	targets, err := resolveTargets()
	if err != nil {
		return err
	}

	// Watch the inputs of a generate run: the database and, when
	// configured, the outbounds source. Target documents are outputs
	// and deliberately not watched, or every run would retrigger.
	files := []string{cfg.Database.Path}
	if cfg.Outbounds.Path != "" {
		files = append(files, cfg.Outbounds.Path)
	}

	handler := func(changed []string) {
		logger.Info("change detected", "files", changed)
		reg, err := openRegistry()
		if err != nil {
			logger.Error("failed to reopen registry", "error", err)
			ux.Error(err.Error())
			return
		}
		if _, err := generateOnce(reg, targets); err != nil {
			ux.Error(err.Error())
			return
		}
		ux.Success(time.Now().Format("15:04:05") + " regenerated " +
			targets.Vision + ", " + targets.Stream + ", " + targets.Routing)
	}

	watcher, err := entities.NewWatcher(files, time.Duration(debounceMilli)*time.Millisecond, handler)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ux.Info("watching for changes, press Ctrl-C to stop")
	logger.Info("watch started", "files", files, "debounce_ms", debounceMilli)
	watcher.Start(ctx)
	logger.Info("watch stopped")
	return nil
}
