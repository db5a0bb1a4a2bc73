// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides rich terminal output styling for the xrayman CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Aleutian color palette - deep ocean teals and arctic waters
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // Bright teal - highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // Primary teal - main brand color
	ColorTealDeep    = lipgloss.Color("#16858E") // Deep teal - borders, accents
	ColorSlate       = lipgloss.Color("#2C4A54") // Slate - muted text, borders

	// Semantic colors (standard conventions for clarity)
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#2C4A54")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Index   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Foreground(ColorTealPrimary).Bold(true),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Index:   lipgloss.NewStyle().Foreground(ColorTealDeep).Bold(true),
}

// IsInteractive reports whether stdout is a terminal. Styled output and
// prompts are only appropriate when it is.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func render(style lipgloss.Style, text string) string {
	if !IsInteractive() {
		return text
	}
	return style.Render(text)
}

// Title prints a section heading.
func Title(text string) {
	fmt.Println(render(Styles.Title, text))
}

// Success prints a success line with a leading check mark.
func Success(text string) {
	fmt.Println(render(Styles.Success, "✓ "+text))
}

// Warning prints a warning line.
func Warning(text string) {
	fmt.Println(render(Styles.Warning, "! "+text))
}

// Error prints an error line to stderr.
func Error(text string) {
	fmt.Fprintln(os.Stderr, render(Styles.Error, "✗ "+text))
}

// Info prints a neutral informational line.
func Info(text string) {
	fmt.Println(render(Styles.Bold, text))
}

// Muted prints a de-emphasized line.
func Muted(text string) {
	fmt.Println(render(Styles.Muted, text))
}

// ListItem prints one indexed row of a listing, with the index styled
// separately so it reads as the handle the other commands take.
func ListItem(index int, text string) {
	fmt.Printf("%s %s\n", render(Styles.Index, fmt.Sprintf("[%d]", index)), text)
}
