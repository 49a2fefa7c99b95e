// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// InitAnswers holds the results of the interactive workspace-init wizard,
// shaped to feed straight into gitws.InitOptions.
type InitAnswers struct {
	MainPath     string
	ManifestPath string
	GroupFilters []string
	Depth        string
}

// InitWizard walks the user through the handful of choices gitws.Init
// takes.
type InitWizard struct {
	printer *Printer
}

// NewInitWizard creates a new workspace-init wizard.
func NewInitWizard() *InitWizard {
	return &InitWizard{printer: NewPrinter()}
}

// Run prompts for main path, manifest path, group filters and clone
// depth, then prints a summary before returning the answers to the
// caller (which performs the actual gitws.Init call).
func (w *InitWizard) Run(detectedMain string) (InitAnswers, error) {
	w.printer.PrintHeader(IconRocket, "Workspace Init Wizard")

	answers := InitAnswers{
		MainPath:     detectedMain,
		ManifestPath: "git-ws.toml",
	}
	var groupFiltersRaw string
	var depthRaw string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Main project path").
				Description("Workspace-relative path of the main project; leave blank for a mainless workspace").
				Placeholder(detectedMain).
				Value(&answers.MainPath),

			huh.NewInput().
				Title("Manifest file name").
				Description("Relative to the main project").
				Placeholder("git-ws.toml").
				Value(&answers.ManifestPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Group filters").
				Description("Comma-separated, e.g. +test,-doc@vendor/*").
				Value(&groupFiltersRaw),

			huh.NewInput().
				Title("Default clone depth").
				Description("0 for full history").
				Placeholder("0").
				Value(&depthRaw).
				Validate(validateOptionalInt),
		),
	)

	if err := form.Run(); err != nil {
		return InitAnswers{}, err
	}

	if answers.ManifestPath == "" {
		answers.ManifestPath = "git-ws.toml"
	}
	answers.GroupFilters = splitCommaList(groupFiltersRaw)
	answers.Depth = depthRaw

	w.printer.PrintSummary("Workspace", map[string]string{
		"main path":     displayOrDefault(answers.MainPath, "(none)"),
		"manifest path": answers.ManifestPath,
		"group filters": displayOrDefault(groupFiltersRaw, "(none)"),
		"depth":         displayOrDefault(depthRaw, "0 (full history)"),
	})

	return answers, nil
}

func validateOptionalInt(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
