package domain

import "github.com/google/uuid"

// ID is an opaque entity identifier. Callers treat it as a value; only
// storage knows it is a UUID underneath.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return id == ""
}
