package testutil

import "fmt"

// SequenceIDGenerator returns "<prefix>-0001", "<prefix>-0002", ...
//
// This enables deterministic run IDs in rendered reports and golden files.
// Not safe for concurrent use.
type SequenceIDGenerator struct {
	prefix string
	n      int
}

// NewSequenceIDGenerator creates a generator with the given prefix.
// If prefix is empty, "run" is used.
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequenceIDGenerator{prefix: prefix}
}

// Generate returns the next ID in sequence.
func (g *SequenceIDGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
