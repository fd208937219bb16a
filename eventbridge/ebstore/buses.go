package ebstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type busRecord struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateBus creates a new named event bus. Creating a bus that already
// exists is an error.
func (s *Store) CreateBus(ctx context.Context, name string) error {
	if !validName(name) {
		return fmt.Errorf("invalid bus name %q", name)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(busKey(name))
		if err == nil {
			return fmt.Errorf("bus %q already exists", name)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		value, err := json.Marshal(busRecord{Name: name, CreatedAt: s.now().UTC()})
		if err != nil {
			return fmt.Errorf("marshal bus record: %w", err)
		}
		return txn.Set(busKey(name), value)
	})
}

// ListBuses returns the names of all buses in key order.
func (s *Store) ListBuses(ctx context.Context) ([]string, error) {
	var buses []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = busPrefix()
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(busPrefix()); it.Valid(); it.Next() {
			var record busRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			buses = append(buses, record.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}
	return buses, nil
}

func (s *Store) ensureBus(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(busKey(name))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		value, err := json.Marshal(busRecord{Name: name, CreatedAt: s.now().UTC()})
		if err != nil {
			return fmt.Errorf("marshal bus record: %w", err)
		}
		return txn.Set(busKey(name), value)
	})
}
