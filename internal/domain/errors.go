package domain

import (
	"fmt"
	"strings"
)

// User-facing messages for the two validation failures the form can report.
const (
	MsgMissingFields = "Todos los campos son obligatorios."
	MsgDuplicateID   = "El número de guía ya existe."
)

// One or more required fields were empty after trimming, or did not parse.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) UserMessage() string { return MsgMissingFields }

// A guide with the same ID is already stored.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("guide %q already exists", e.ID)
}

func (e *DuplicateIDError) UserMessage() string { return MsgDuplicateID }

// A guide that does not satisfy the record invariants (seed data only).
type InvariantError struct {
	ID     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("guide %q: %s", e.ID, e.Reason)
}
