// Package id generates prefixed NanoID identifiers.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// AlignmentPrefix prefixes stored alignment record IDs.
const AlignmentPrefix = "aln"

// Generate creates a prefixed unique ID, for example "aln-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewAlignmentID returns a fresh alignment record ID.
func NewAlignmentID() (string, error) {
	return Generate(AlignmentPrefix)
}

// HasPrefix reports whether id was generated with prefix.
func HasPrefix(id, prefix string) bool {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	return ok && rest != ""
}
