package cli

import (
	"github.com/charmbracelet/huh"
)

// Confirmer asks a yes/no question. Tests swap it out on Context.
type Confirmer func(title, description string) (bool, error)

// HuhConfirm asks on the terminal with a huh confirm field, defaulting to no.
func HuhConfirm(title, description string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Confirm uses the context's confirmer, or a terminal prompt.
func (c *Context) Confirm(title, description string) (bool, error) {
	if c.Confirmer != nil {
		return c.Confirmer(title, description)
	}
	return HuhConfirm(title, description)
}
