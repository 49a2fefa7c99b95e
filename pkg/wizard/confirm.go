// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package wizard

import (
	"github.com/AlecAivazis/survey/v2"
)

// Confirm asks a plain yes/no question for the destructive, single-shot
// operations (deinit) that don't warrant a full huh form.
func Confirm(message string, defaultYes bool) (bool, error) {
	ok := defaultYes
	prompt := &survey.Confirm{Message: message, Default: defaultYes}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
