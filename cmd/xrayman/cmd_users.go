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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/xrayman/pkg/ux"
	"github.com/AleutianAI/xrayman/services/entities"
)

func runUserAdd(cmd *cobra.Command, args []string) error {
	username := ""
	if len(args) == 1 {
		username = args[0]
	} else {
		value, ok, err := ux.AskString("Entity username", "alice")
		if err != nil {
			return err
		}
		if !ok {
			ux.Muted("cancelled, nothing changed")
			return nil
		}
		username = value
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return entities.ErrEmptyUsername
	}

	// The catalog gates user creation: outlets can only be picked from
	// currently defined outbounds.
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	outlets, ok, err := ux.MultiSelect("Outlets for "+username, cat.Tags(), nil)
	if err != nil {
		return err
	}
	if !ok {
		ux.Muted("cancelled, nothing changed")
		return nil
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	user, err := reg.Add(username, outlets)
	if err != nil {
		return err
	}

	logger.Info("user added", "username", user.Username, "outlets", len(user.Outlets))
	ux.Success(fmt.Sprintf("added %s", describeUser(user)))
	return nil
}

func runUserEdit(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	user, err := reg.User(index)
	if err != nil {
		return err
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	outlets, ok, err := ux.MultiSelect("Outlets for "+user.Username, cat.Tags(), user.Outlets)
	if err != nil {
		return err
	}
	if !ok {
		ux.Muted("cancelled, nothing changed")
		return nil
	}

	if err := reg.Edit(index, outlets); err != nil {
		return err
	}

	logger.Info("user edited", "username", user.Username, "outlets", len(outlets))
	ux.Success(fmt.Sprintf("updated outlets for %s", user.Username))
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	user, err := reg.User(index)
	if err != nil {
		return err
	}

	if !assumeYes {
		confirmed, err := ux.Confirm(fmt.Sprintf("Delete user %s?", user.Username))
		if err != nil {
			return err
		}
		if !confirmed {
			ux.Muted("cancelled, nothing changed")
			return nil
		}
	}

	if err := reg.Delete(index); err != nil {
		return err
	}

	logger.Info("user deleted", "username", user.Username)
	ux.Success(fmt.Sprintf("deleted %s", user.Username))
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	users := reg.Users()
	if len(users) == 0 {
		ux.Muted("no entity users yet, add one with `xrayman user add`")
		return nil
	}

	ux.Title(fmt.Sprintf("Entity users (%d)", len(users)))
	for i, u := range users {
		ux.ListItem(i, describeUser(u))
	}
	return nil
}

func runUserShow(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	reg, err := openRegistry()
	if err != nil {
		return err
	}
	user, err := reg.User(index)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
