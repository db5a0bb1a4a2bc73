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
	"strconv"
	"strings"

	"github.com/AleutianAI/xrayman/services/entities"
)

// openRegistry opens the user database at the configured path.
func openRegistry() (*entities.Registry, error) {
	return entities.OpenRegistry(cfg.Database.Path)
}

// loadCatalog loads the outlet catalog from the configured outbounds
// document. Run `xrayman outlets load <path>` first.
func loadCatalog() (*entities.Catalog, error) {
	if cfg.Outbounds.Path == "" {
		return nil, fmt.Errorf("%w: run `xrayman outlets load <outbounds.json>` first", entities.ErrCatalogNotLoaded)
	}
	cat, err := entities.LoadCatalogFile(cfg.Outbounds.Path)
	if err != nil {
		return nil, err
	}
	if cat.Empty() {
		return nil, fmt.Errorf("%w: %s defines no usable outlets", entities.ErrCatalogNotLoaded, cfg.Outbounds.Path)
	}
	return cat, nil
}

// resolveTargets combines configured target paths with per-run flag
// overrides and requires all three to be set.
func resolveTargets() (entities.Targets, error) {
	targets := entities.Targets{
		Vision:  cfg.Targets.Vision,
		Stream:  cfg.Targets.Stream,
		Routing: cfg.Targets.Routing,
	}
	if visionFlag != "" {
		targets.Vision = visionFlag
	}
	if streamFlag != "" {
		targets.Stream = streamFlag
	}
	if routingFlag != "" {
		targets.Routing = routingFlag
	}

	var missing []string
	if targets.Vision == "" {
		missing = append(missing, "vision")
	}
	if targets.Stream == "" {
		missing = append(missing, "stream")
	}
	if targets.Routing == "" {
		missing = append(missing, "routing")
	}
	if len(missing) > 0 {
		return entities.Targets{}, fmt.Errorf(
			"target documents not configured: %s (set targets.* in %s or pass --vision/--stream/--routing)",
			strings.Join(missing, ", "), cfgPath)
	}
	return targets, nil
}

// parseIndex converts a positional argument to a user index.
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid user index %q: expected a number from `xrayman user list`", arg)
	}
	return index, nil
}

// describeUser renders the one-line listing form of a user.
func describeUser(u entities.User) string {
	outlets := "no outlets"
	if len(u.Outlets) > 0 {
		outlets = strings.Join(u.Outlets, ", ")
	}
	return fmt.Sprintf("%s (%s): %s", u.Username, u.Secret, outlets)
}
