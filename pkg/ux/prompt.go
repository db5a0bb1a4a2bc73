// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// aleutianTheme returns the huh form theme in the Aleutian palette.
func aleutianTheme() *huh.Theme {
	theme := huh.ThemeBase()
	theme.Focused.Title = theme.Focused.Title.Foreground(ColorTealPrimary).Bold(true)
	theme.Focused.SelectedOption = theme.Focused.SelectedOption.Foreground(ColorTealBright)
	theme.Focused.SelectSelector = theme.Focused.SelectSelector.Foreground(ColorTealBright)
	theme.Focused.MultiSelectSelector = theme.Focused.MultiSelectSelector.Foreground(ColorTealBright)
	theme.Focused.FocusedButton = theme.Focused.FocusedButton.Background(ColorTealDeep)
	theme.Blurred.Title = theme.Blurred.Title.Foreground(ColorSlate)
	return theme
}

// truncate shortens s to at most maxLen runes, ellipsized.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

// AskString prompts for a single line of input. ok is false when the
// operator aborted the prompt; that is a no-op, not an error.
func AskString(title, placeholder string) (value string, ok bool, err error) {
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	form := huh.NewForm(huh.NewGroup(input)).WithTheme(aleutianTheme())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("input prompt failed: %w", err)
	}
	return value, true, nil
}

// MultiSelect prompts for a subset of options, with preselected entries
// already checked. Confirming an empty selection is a valid choice and
// returns an empty slice with ok=true; aborting returns ok=false.
func MultiSelect(title string, options []string, preselected []string) (selected []string, ok bool, err error) {
	pre := make(map[string]struct{}, len(preselected))
	for _, p := range preselected {
		pre[p] = struct{}{}
	}

	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		_, checked := pre[o]
		opts = append(opts, huh.NewOption(truncate(o, 60), o).Selected(checked))
	}

	sel := huh.NewMultiSelect[string]().
		Title(title).
		Options(opts...).
		Value(&selected)
	form := huh.NewForm(huh.NewGroup(sel)).WithTheme(aleutianTheme())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("selection prompt failed: %w", err)
	}
	return selected, true, nil
}

// Confirm asks a yes/no question. Aborting counts as no.
func Confirm(title string) (bool, error) {
	var confirmed bool
	prompt := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)
	form := huh.NewForm(huh.NewGroup(prompt)).WithTheme(aleutianTheme())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm prompt failed: %w", err)
	}
	return confirmed, nil
}
