package ebstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

// ErrNotFound is returned for lookups of records that do not exist.
var ErrNotFound = errors.New("not found")

// StoredEvent is an archived envelope plus bus metadata.
type StoredEvent struct {
	Bus        string      `json:"bus"`
	IngestedAt time.Time   `json:"ingestedAt"`
	Event      ebgen.Event `json:"event"`
}

// EventQuery selects archived events. The zero value returns the most
// recent events on the default bus.
type EventQuery struct {
	Bus          string
	SourcePrefix string
	Limit        int
}

const defaultQueryLimit = 50

// Events returns archived events newest first.
func (s *Store) Events(ctx context.Context, q EventQuery) ([]StoredEvent, error) {
	if q.Bus == "" {
		q.Bus = DefaultBus
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	prefix := eventPrefix(q.Bus)

	var events []StoredEvent
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(incrementBytes(prefix)); it.Valid(); it.Next() {
			var stored StoredEvent
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return err
			}
			if q.SourcePrefix != "" && !strings.HasPrefix(stored.Event.Source, q.SourcePrefix) {
				continue
			}
			events = append(events, stored)
			if len(events) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

// GetEvent looks up one archived event by id.
func (s *Store) GetEvent(ctx context.Context, bus, id string) (*StoredEvent, error) {
	if bus == "" {
		bus = DefaultBus
	}
	var stored StoredEvent
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(eventIDKey(bus, id))
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err = txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &stored, nil
}
