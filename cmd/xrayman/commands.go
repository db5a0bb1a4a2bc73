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

	"github.com/AleutianAI/xrayman/cmd/xrayman/config"
	"github.com/AleutianAI/xrayman/pkg/logging"
)

// --- Global Command Variables ---
var (
	cfg     *config.Config
	cfgPath string
	logger  *logging.Logger

	// Flag storage
	configFlag    string
	assumeYes     bool
	visionFlag    string
	streamFlag    string
	routingFlag   string
	noBackup      bool
	debounceMilli int

	rootCmd = &cobra.Command{
		Use:   "xrayman",
		Short: "Manage Xray entity users and regenerate their config fragments",
		Long: `xrayman keeps a local database of entity users, each mapped to a
set of named egress outlets, and rewrites the user-owned sections of
your Xray inbound and routing documents from it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configFlag
			if path == "" {
				var err error
				path, err = config.DefaultPath()
				if err != nil {
					return err
				}
			}

			loaded, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			cfgPath = path

			logger = logging.New(logging.Config{
				Level:   logging.ParseLevel(cfg.Logging.Level),
				LogDir:  cfg.Logging.Dir,
				Service: "cli",
			})
			return nil
		},
	}

	// --- Outlets ---
	outletsCmd = &cobra.Command{
		Use:   "outlets",
		Short: "Inspect and maintain the outlet catalog",
	}
	outletsLoadCmd = &cobra.Command{
		Use:   "load [outbounds.json]",
		Short: "Load the outlet catalog from an Xray outbounds document",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOutletsLoad, // Defined in cmd_outlets.go
	}
	outletsCleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Remove outlet references no longer present in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runOutletsClean, // Defined in cmd_outlets.go
	}

	// --- Users ---
	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage entity users",
	}
	userAddCmd = &cobra.Command{
		Use:   "add [username]",
		Short: "Add an entity user and pick its outlets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runUserAdd, // Defined in cmd_users.go
	}
	userEditCmd = &cobra.Command{
		Use:   "edit <index>",
		Short: "Re-select the outlets of an existing user",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserEdit, // Defined in cmd_users.go
	}
	userDeleteCmd = &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete an entity user",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserDelete, // Defined in cmd_users.go
	}
	userListCmd = &cobra.Command{
		Use:   "list",
		Short: "List entity users with the indices the other commands take",
		Args:  cobra.NoArgs,
		RunE:  runUserList, // Defined in cmd_users.go
	}
	userShowCmd = &cobra.Command{
		Use:   "show <index>",
		Short: "Show one entity user as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserShow, // Defined in cmd_users.go
	}

	// --- Generation ---
	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Rewrite the user-owned sections of the three target documents",
		Args:  cobra.NoArgs,
		RunE:  runGenerate, // Defined in cmd_generate.go
	}
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Regenerate automatically when the outbounds document or database changes",
		Args:  cobra.NoArgs,
		RunE:  runWatch, // Defined in cmd_watch.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.xrayman/xrayman.yaml)")

	userDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	generateCmd.Flags().StringVar(&visionFlag, "vision", "", "override the Vision inbound target document")
	generateCmd.Flags().StringVar(&streamFlag, "stream", "", "override the XHTTP inbound target document")
	generateCmd.Flags().StringVar(&routingFlag, "routing", "", "override the routing target document")
	generateCmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip pre-overwrite backups for this run")

	watchCmd.Flags().IntVar(&debounceMilli, "debounce", 500, "settle time in milliseconds before regenerating")

	outletsCmd.AddCommand(outletsLoadCmd, outletsCleanCmd)
	userCmd.AddCommand(userAddCmd, userEditCmd, userDeleteCmd, userListCmd, userShowCmd)
	rootCmd.AddCommand(outletsCmd, userCmd, generateCmd, watchCmd)
}
