package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a save slot has no stored character.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("character %q not found", e.Name)
}

func IsNotFound(err error) bool {
	var notFound *ErrNotFound
	return errors.As(err, &notFound)
}
