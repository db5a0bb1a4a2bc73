// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the xrayman CLI configuration: where the user
// database lives, where the outbounds source is, and which three Xray
// documents a generate run rewrites.
package config

import (
	"os"
	"path/filepath"
)

// CurrentConfigVersion is written to new config files to allow future
// migrations.
const CurrentConfigVersion = "1"

type Config struct {
	Meta MetaConfig `yaml:"meta"`

	// Database: the entity-user database file.
	Database DatabaseConfig `yaml:"database"`

	// Outbounds: the outbounds document the outlet catalog is loaded
	// from. Empty until `xrayman outlets load` has been run once.
	Outbounds OutboundsConfig `yaml:"outbounds"`

	// Targets: the three documents a generate run rewrites.
	Targets TargetsConfig `yaml:"targets"`

	// Logging: level and optional log directory.
	Logging LoggingConfig `yaml:"logging"`

	// Backup: retention for pre-overwrite copies of target documents.
	Backup BackupConfig `yaml:"backup"`
}

type MetaConfig struct {
	Version string `yaml:"version" validate:"required"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type OutboundsConfig struct {
	Path string `yaml:"path"`
}

type TargetsConfig struct {
	// Vision is the VLESS/Vision inbound config (clients with flow).
	Vision string `yaml:"vision"`

	// Stream is the XHTTP inbound config (clients without flow).
	Stream string `yaml:"stream"`

	// Routing is the routing rules config.
	Routing string `yaml:"routing"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Dir enables JSON file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir"`
}

type BackupConfig struct {
	// Enabled controls whether generate backs up targets before
	// overwriting them.
	Enabled bool `yaml:"enabled"`

	// MaxBackups is how many backups to keep per target.
	MaxBackups int `yaml:"max_backups" validate:"omitempty,min=1"`
}

// DefaultConfig returns the configuration written on first run. Target
// paths start empty; the operator points them at the right documents
// before the first generate.
func DefaultConfig() Config {
	dbPath := "user_db.json"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".xrayman", "user_db.json")
	}
	return Config{
		Meta:     MetaConfig{Version: CurrentConfigVersion},
		Database: DatabaseConfig{Path: dbPath},
		Logging:  LoggingConfig{Level: "info"},
		Backup: BackupConfig{
			Enabled:    true,
			MaxBackups: 5,
		},
	}
}
