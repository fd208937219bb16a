// Package ebstore is an EventBridge-compatible event bus backed by
// BadgerDB. It answers the same PutEvents and TestEventPattern calls as
// the AWS client, evaluates rules locally via the pattern package, and
// archives every accepted event for later inspection.
package ebstore

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

// DefaultBus is created on open and receives entries without a bus name.
const DefaultBus = "default"

// localAccount is stamped onto envelopes assembled by the local bus.
const localAccount = "000000000000"

// Store is a local event bus backed by BadgerDB.
type Store struct {
	db         *badger.DB
	region     string
	account    string
	now        func() time.Time
	onDelivery func(Delivery)
}

// Options configures the BadgerDB store.
type Options struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Region stamped onto assembled envelopes. Defaults to the generator
	// region.
	Region string
	// Account stamped onto assembled envelopes. Defaults to a local
	// placeholder account.
	Account string
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger badger.Logger
	// Now supplies envelope timestamps. Defaults to time.Now.
	Now func() time.Time
	// OnDelivery is called once per recorded delivery, after the event
	// transaction commits. Used for metrics.
	OnDelivery func(Delivery)
}

// New opens a BadgerDB-backed bus store and ensures the default bus
// exists.
func New(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(opts.Logger)
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{
		db:         db,
		region:     opts.Region,
		account:    opts.Account,
		now:        opts.Now,
		onDelivery: opts.OnDelivery,
	}
	if s.region == "" {
		s.region = ebgen.DefaultRegion
	}
	if s.account == "" {
		s.account = localAccount
	}
	if s.now == nil {
		s.now = time.Now
	}

	if err := s.ensureBus(DefaultBus); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}
