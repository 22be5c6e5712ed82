// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user presses Ctrl+C at a prompt.
var ErrAborted = errors.New("aborted")

// runner is the part of promptui.Prompt the confirmations use.
type runner interface {
	Run() (string, error)
}

// newDangerPrompt builds the prompt ConfirmDanger runs. Tests replace it.
var newDangerPrompt = func(label, confirmWord string) runner {
	return &promptui.Prompt{
		Label:    fmt.Sprintf("%s (type '%s' to confirm)", label, confirmWord),
		Validate: confirmValidator(confirmWord),
	}
}

func confirmValidator(confirmWord string) promptui.ValidateFunc {
	return func(input string) error {
		if input != confirmWord {
			return fmt.Errorf("type '%s' to confirm", confirmWord)
		}
		return nil
	}
}

// ConfirmDanger prompts for confirmation of a dangerous operation.
// Requires typing the confirmation word to proceed.
func ConfirmDanger(label, confirmWord string) (bool, error) {
	result, err := newDangerPrompt(label, confirmWord).Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrAborted
		}
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}

	return result == confirmWord, nil
}

// ConfirmDangerWithForce returns true immediately if force is true,
// otherwise prompts for the confirmation word.
func ConfirmDangerWithForce(label, confirmWord string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return ConfirmDanger(label, confirmWord)
}
