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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/xrayman/cmd/xrayman/config"
	"github.com/AleutianAI/xrayman/pkg/ux"
	"github.com/AleutianAI/xrayman/services/entities"
)

func runOutletsLoad(cmd *cobra.Command, args []string) error {
	path := cfg.Outbounds.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no outbounds document: pass a path or set outbounds.path in %s", cfgPath)
	}

	cat, err := entities.LoadCatalogFile(path)
	if err != nil {
		return err
	}

	// Remember the source so later commands can re-load the catalog.
	if path != cfg.Outbounds.Path {
		cfg.Outbounds.Path = path
		if err := config.Save(cfg, cfgPath); err != nil {
			return fmt.Errorf("catalog loaded but config not saved: %w", err)
		}
	}

	logger.Info("outlet catalog loaded", "path", path, "outlets", cat.Len())
	if cat.Empty() {
		ux.Warning(fmt.Sprintf("%s defines no usable outlets (blackhole outbounds are excluded)", path))
		return nil
	}
	ux.Success(fmt.Sprintf("loaded %d outlets: %s", cat.Len(), strings.Join(cat.Tags(), ", ")))
	return nil
}

func runOutletsClean(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	changed, err := reg.CleanInvalidOutlets(cat)
	if err != nil {
		return err
	}
	if !changed {
		ux.Info("no invalid outlet references found, nothing to change")
		return nil
	}

	logger.Info("invalid outlet references removed", "users", reg.Len())
	ux.Success("removed all invalid outlet references")
	return nil
}
