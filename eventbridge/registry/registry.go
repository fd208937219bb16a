// Package registry discovers event schema documents on disk. Files follow
// the schema registry export naming convention
// aws.<service>@<EventName>.json, e.g. aws.s3@ObjectCreated.json.
package registry

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultDir is where schema exports are kept by convention.
const DefaultDir = "data/aws_event_schemas"

// ErrSchemaNotFound is returned when no file matches the requested event
// type under any lookup strategy.
var ErrSchemaNotFound = errors.New("schema not found")

var fileRE = regexp.MustCompile(`^aws\.([^@]+)@(.+)\.json$`)

// Entry is one discovered schema file.
type Entry struct {
	// Service and Event come from the filename. Both are empty for a
	// file resolved by literal name that does not follow the convention.
	Service string
	Event   string
	Path    string
}

// Name returns the service:event form used on the command line.
func (e Entry) Name() string {
	if e.Service == "" {
		return filepath.Base(e.Path)
	}
	return e.Service + ":" + e.Event
}

// Options configures a Registry.
type Options struct {
	// Dir is the schema directory. Defaults to DefaultDir.
	Dir string

	// Rand drives the random pick for bare service lookups.
	// Defaults to a fresh seeded source.
	Rand *rand.Rand
}

// Registry lists and resolves schema files in one directory.
type Registry struct {
	dir  string
	rand *rand.Rand
}

// New creates a Registry.
func New(opts Options) *Registry {
	r := &Registry{dir: opts.Dir, rand: opts.Rand}
	if r.dir == "" {
		r.dir = DefaultDir
	}
	if r.rand == nil {
		r.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return r
}

// Dir returns the schema directory.
func (r *Registry) Dir() string {
	return r.dir
}

// List returns every conventionally named schema file, in filename order.
func (r *Registry) List() ([]Entry, error) {
	names, err := r.fileNames()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if e, ok := r.parse(name); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Find resolves an event type argument to a schema file. Strategies are
// tried in order:
//
//  1. service:event, matched case-insensitively against the filename parts
//  2. a literal .json filename inside the schema directory
//  3. a bare service name, picking one of that service's schemas at random
//  4. a substring of the filename, first match in filename order
func (r *Registry) Find(eventType string) (Entry, error) {
	names, err := r.fileNames()
	if err != nil {
		return Entry{}, err
	}

	if service, event, ok := strings.Cut(eventType, ":"); ok {
		for _, name := range names {
			e, ok := r.parse(name)
			if ok && strings.EqualFold(e.Service, service) && strings.EqualFold(e.Event, event) {
				return e, nil
			}
		}
	}

	if strings.HasSuffix(eventType, ".json") {
		for _, name := range names {
			if name == eventType {
				return r.entryFor(name), nil
			}
		}
	}

	var sameService []Entry
	for _, name := range names {
		if e, ok := r.parse(name); ok && strings.EqualFold(e.Service, eventType) {
			sameService = append(sameService, e)
		}
	}
	if len(sameService) > 0 {
		return sameService[r.rand.IntN(len(sameService))], nil
	}

	lower := strings.ToLower(eventType)
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return r.entryFor(name), nil
		}
	}

	return Entry{}, fmt.Errorf("%w: %q in %s", ErrSchemaNotFound, eventType, r.dir)
}

// fileNames returns the .json filenames in the schema directory, in the
// sorted order os.ReadDir guarantees.
func (r *Registry) fileNames() ([]string, error) {
	dirents, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read schema directory %s: %w", r.dir, err)
	}
	var names []string
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			continue
		}
		names = append(names, d.Name())
	}
	return names, nil
}

func (r *Registry) parse(name string) (Entry, bool) {
	m := fileRE.FindStringSubmatch(name)
	if m == nil {
		return Entry{}, false
	}
	return Entry{Service: m[1], Event: m[2], Path: filepath.Join(r.dir, name)}, true
}

func (r *Registry) entryFor(name string) Entry {
	if e, ok := r.parse(name); ok {
		return e
	}
	return Entry{Path: filepath.Join(r.dir, name)}
}
