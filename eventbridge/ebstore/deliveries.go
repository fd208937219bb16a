package ebstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Delivery records a rule matching an archived event.
type Delivery struct {
	Bus         string    `json:"bus"`
	Rule        string    `json:"rule"`
	EventID     string    `json:"eventId"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// Deliveries returns the deliveries recorded for one rule, newest first.
func (s *Store) Deliveries(ctx context.Context, bus, rule string) ([]Delivery, error) {
	if bus == "" {
		bus = DefaultBus
	}
	prefix := deliveryPrefix(bus, rule)

	var deliveries []Delivery
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(incrementBytes(prefix)); it.Valid(); it.Next() {
			var delivery Delivery
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &delivery)
			}); err != nil {
				return err
			}
			deliveries = append(deliveries, delivery)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	return deliveries, nil
}
