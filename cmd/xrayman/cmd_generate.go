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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/xrayman/pkg/ux"
	"github.com/AleutianAI/xrayman/services/entities"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	targets, err := resolveTargets()
	if err != nil {
		return err
	}
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	result, err := generateOnce(reg, targets)
	if err != nil {
		return err
	}

	ux.Success(fmt.Sprintf("generated %d Vision clients, %d XHTTP clients, %d routing rules (flow %s)",
		result.VisionClients, result.StreamClients, result.RoutingRules, result.Flow))
	for _, b := range result.Backups {
		ux.Muted("backed up " + b)
	}
	return nil
}

// generateOnce runs one synthesis+merge pass. Shared by generate and
// watch.
func generateOnce(reg *entities.Registry, targets entities.Targets) (*entities.GenerateResult, error) {
	opts := entities.GenerateOptions{}
	if cfg.Backup.Enabled && !noBackup {
		mgr := NewBackupManager(cfg.Backup.MaxBackups)
		opts.Backup = mgr.BackupBeforeOverwrite
	}

	result, err := entities.Generate(reg, targets, opts)
	if err != nil {
		logger.Error("generate failed", "error", err)
		return nil, err
	}

	logger.Info("configs generated",
		"users", reg.Len(),
		"vision_clients", result.VisionClients,
		"stream_clients", result.StreamClients,
		"routing_rules", result.RoutingRules,
		"flow", result.Flow,
	)
	return result, nil
}
