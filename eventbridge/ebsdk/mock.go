package ebsdk

import (
	"github.com/acksell/jassy/eventbridge/ebstore"
)

// NewMock returns an IO backed by an in-memory local bus, for tests and
// offline publishing.
func NewMock() IO {
	store, err := ebstore.New(ebstore.Options{InMemory: true})
	if err != nil {
		panic(err)
	}
	return New(store)
}
