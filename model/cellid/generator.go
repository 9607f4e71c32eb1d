package cellid

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
)

// ID identifies a notebook cell.
type ID string

// SetupID is reserved for the setup cell. A Generator never issues it.
const SetupID ID = "setup"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// DefaultTokenLength yields 52^4 distinct tokens.
	DefaultTokenLength = 4
	// DefaultMaxAttempts bounds the collision re-draw loop.
	DefaultMaxAttempts = 1000

	seedHi uint64 = 0x6e62_6365_6c6c_0001
	seedLo uint64 = 42
)

// ErrExhausted is returned when no fresh token was found within the
// configured number of attempts.
var ErrExhausted = errors.New("cellid: generator exhausted")

// Generator produces unique identifiers from a fixed seed.
type Generator struct {
	rnd         *rand.Rand
	seen        map[ID]struct{}
	issued      int
	tokenLength int
	maxAttempts int
}

// Option customises a Generator.
type Option func(g *Generator)

// WithTokenLength sets the number of characters per token.
func WithTokenLength(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.tokenLength = n
		}
	}
}

// WithMaxAttempts sets the number of draws tried before giving up.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// New returns a fresh generator. Each call starts from the same seed.
func New(options ...Option) *Generator {
	g := &Generator{
		rnd:         rand.New(rand.NewPCG(seedHi, seedLo)),
		seen:        map[ID]struct{}{SetupID: {}},
		tokenLength: DefaultTokenLength,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Create returns the next unused identifier and records it as seen.
func (g *Generator) Create() (ID, error) {
	buf := make([]byte, g.tokenLength)
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		for i := range buf {
			buf[i] = alphabet[g.rnd.IntN(len(alphabet))]
		}
		id := ID(buf)
		if _, ok := g.seen[id]; ok {
			continue
		}
		g.seen[id] = struct{}{}
		g.issued++
		return id, nil
	}
	return "", fmt.Errorf("%w: no fresh token after %d attempts (%d issued, token length %d)",
		ErrExhausted, g.maxAttempts, g.issued, g.tokenLength)
}

// Seen reports whether id was issued by g (or is the reserved SetupID).
func (g *Generator) Seen(id ID) bool {
	_, ok := g.seen[id]
	return ok
}

// Len returns the number of identifiers issued so far.
func (g *Generator) Len() int {
	return g.issued
}

// SeenIDs returns a sorted copy of every issued identifier. The reserved
// SetupID is not included.
func (g *Generator) SeenIDs() []ID {
	ret := make([]ID, 0, len(g.seen))
	for id := range g.seen {
		if id == SetupID {
			continue
		}
		ret = append(ret, id)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}
