// Package ident generates prefixed identifiers for saves and game entities.
package ident

import (
	"github.com/google/uuid"
)

// New returns a fresh identifier of the form "<prefix>_<uuid>". IDs are
// random, never derived from the clock, so two calls in the same instant
// still differ.
func New(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
