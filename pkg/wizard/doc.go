// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package wizard provides interactive setup wizards for git-ws commands.
//
// The wizard package uses charmbracelet/huh for form-based interactive input
// and survey/v2 for plain yes/no prompts, guiding users through workspace
// setup step by step.
//
// Available Wizards:
//   - InitWizard: prompt for main path, manifest path, group filters and
//     clone depth when running `git-ws init -i`
//   - Confirm: a plain yes/no prompt for destructive, single-shot operations
//
// Example usage:
//
//	answers, err := wizard.NewInitWizard().Run(detectedMain)
//	if err != nil {
//	    return err
//	}
//	// Use answers to build gitws.InitOptions
package wizard
