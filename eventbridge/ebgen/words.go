package ebgen

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
)

// vocabulary feeds every random-word value. Plain lowercase nouns keep
// generated payloads readable in logs and the dev UI.
var vocabulary = []string{
	"acorn", "alloy", "amber", "anchor", "antler", "apron", "arch", "arrow",
	"aspen", "atlas", "badge", "bamboo", "barrel", "basin", "beacon", "bell",
	"birch", "blanket", "bloom", "bolt", "border", "bottle", "boulder",
	"bramble", "brass", "breeze", "brick", "bridge", "brook", "bucket",
	"bureau", "cabin", "cable", "candle", "canvas", "canyon", "carbon",
	"cargo", "carton", "cedar", "cellar", "chalk", "chapel", "charcoal",
	"chart", "chisel", "cider", "cinder", "circuit", "citron", "clay",
	"cliff", "clover", "cobalt", "comet", "compass", "copper", "coral",
	"cotton", "cove", "crane", "crater", "creek", "crest", "crystal",
	"current", "cycle", "dagger", "dale", "delta", "dew", "dome", "drift",
	"dune", "dusk", "echo", "ember", "engine", "fable", "falcon", "fennel",
	"fern", "fjord", "flint", "fog", "forge", "fossil", "fountain", "frost",
	"garnet", "gate", "glacier", "glade", "glen", "granite", "grove",
	"gulf", "harbor", "hazel", "heath", "hedge", "helm", "hollow", "ingot",
	"iris", "iron", "island", "ivory", "jade", "jasper", "juniper", "keel",
	"kelp", "kestrel", "kiln", "knoll", "lagoon", "lantern", "larch",
	"ledge", "lichen", "lilac", "linen", "loam", "locket", "lotus",
	"lumber", "lunar", "magnet", "mantle", "maple", "marble", "marsh",
	"meadow", "mesa", "mica", "mill", "mineral", "mist", "moss", "mulberry",
	"nectar", "nickel", "north", "oaken", "oasis", "obsidian", "ochre",
	"onyx", "opal", "orchard", "osprey", "otter", "oxide", "pebble",
	"pigment", "pine", "pistachio", "plume", "pond", "poplar", "prairie",
	"prism", "quarry", "quartz", "quill", "raven", "reed", "ridge", "river",
	"rowan", "rust", "saffron", "sage", "sandbar", "sequoia", "shale",
	"shore", "silver", "slate", "sorrel", "spruce", "summit", "sycamore",
	"tarn", "thicket", "thistle", "timber", "topaz", "trellis", "tundra",
	"umber", "vale", "vapor", "walnut", "wharf", "willow", "zephyr",
}

var fileExtensions = []string{"json", "txt", "csv", "log", "pdf", "png", "yaml", "zip"}

// between returns a uniform value in [lo, hi].
func between[T constraints.Integer](r *rand.Rand, lo, hi T) T {
	return lo + T(r.Int64N(int64(hi-lo)+1))
}

func (g *Generator) word() string {
	return vocabulary[g.rand.IntN(len(vocabulary))]
}

// wordMap builds a small synthetic mapping for object descriptors that
// declare no properties of their own. Duplicate keys collapse, so the
// result holds at most the drawn count.
func (g *Generator) wordMap() map[string]any {
	n := between(g.rand, 1, 3)
	m := make(map[string]any, n)
	for i := 0; i < n; i++ {
		m[g.word()] = g.word()
	}
	return m
}

const hexDigits = "0123456789abcdef"

func (g *Generator) hex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = hexDigits[g.rand.IntN(16)]
	}
	return string(b)
}

const decimalDigits = "0123456789"

// accountID is a synthetic 12-digit AWS account number.
func (g *Generator) accountID() string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = decimalDigits[g.rand.IntN(10)]
	}
	return string(b)
}

func (g *Generator) ipv4() string {
	b := make([]byte, 0, 15)
	for i := 0; i < 4; i++ {
		if i > 0 {
			b = append(b, '.')
		}
		b = appendDecimal(b, g.rand.IntN(256))
	}
	return string(b)
}

func appendDecimal(b []byte, n int) []byte {
	if n >= 100 {
		b = append(b, decimalDigits[n/100])
	}
	if n >= 10 {
		b = append(b, decimalDigits[(n/10)%10])
	}
	return append(b, decimalDigits[n%10])
}

func (g *Generator) fileName() string {
	return g.word() + "." + fileExtensions[g.rand.IntN(len(fileExtensions))]
}

// resourceID is a word plus a short hex suffix, e.g. "maple-0a1b2c3d".
func (g *Generator) resourceID() string {
	return g.word() + "-" + g.hex(8)
}

// randReader adapts the generator's source to io.Reader for UUID
// construction, so ids stay reproducible under a seeded source.
type randReader struct {
	r *rand.Rand
}

func (rr randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(rr.r.UintN(256))
	}
	return len(p), nil
}

func (g *Generator) uuidString() string {
	u, err := uuid.NewRandomFromReader(randReader{g.rand})
	if err != nil {
		// the reader cannot fail
		panic(err)
	}
	return u.String()
}
