package ebgen

import (
	"math/rand/v2"
	"time"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "eu-west-2"

// timeLayout is ISO-8601 UTC with microseconds and a literal Z suffix,
// matching the time format EventBridge puts on envelopes.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// defaultMaxDepth bounds schema recursion. Hand-written documents contain
// cyclic component references; past the limit a nested value degrades to
// the unresolved-reference fallback instead of overflowing the stack.
const defaultMaxDepth = 32

// Options configures a Generator. The zero value is usable.
type Options struct {
	// Region used for envelope metadata and synthesized ARNs.
	// Defaults to DefaultRegion.
	Region string

	// Rand is the randomness source. Defaults to a fresh seeded source.
	// A Generator must not share a source across goroutines.
	Rand *rand.Rand

	// Now supplies timestamps. Defaults to time.Now.
	Now func() time.Time

	// MaxDepth bounds schema recursion. Defaults to 32.
	MaxDepth int
}

// Generator produces sample events from schema documents.
type Generator struct {
	region   string
	rand     *rand.Rand
	now      func() time.Time
	maxDepth int
}

// New creates a Generator.
func New(opts Options) *Generator {
	g := &Generator{
		region:   opts.Region,
		rand:     opts.Rand,
		now:      opts.Now,
		maxDepth: opts.MaxDepth,
	}
	if g.region == "" {
		g.region = DefaultRegion
	}
	if g.rand == nil {
		g.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.maxDepth <= 0 {
		g.maxDepth = defaultMaxDepth
	}
	return g
}

// Region returns the configured region.
func (g *Generator) Region() string {
	return g.region
}

func (g *Generator) timestamp() string {
	return g.now().UTC().Format(timeLayout)
}
