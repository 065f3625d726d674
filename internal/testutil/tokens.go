package testutil

import (
	"fmt"
	"sync"
)

// SequentialTokens hands out predictable run tokens ("test-run-000001",
// "test-run-000002", ...) in place of the store's UUIDv7 tokens, so test
// output and golden files stay stable across runs.
//
// Like the real tokens, later tokens sort after earlier ones.
//
// Thread-safety: Next is safe for concurrent use via internal mutex.
type SequentialTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialTokens creates a generator. An empty prefix defaults to
// "test-run".
func NewSequentialTokens(prefix string) *SequentialTokens {
	if prefix == "" {
		prefix = "test-run"
	}
	return &SequentialTokens{prefix: prefix}
}

// Next returns the next token in sequence.
func (g *SequentialTokens) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%06d", g.prefix, g.n)
}

// Reset restarts the sequence. After Reset the next token is the first
// one again, for test reuse.
func (g *SequentialTokens) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
