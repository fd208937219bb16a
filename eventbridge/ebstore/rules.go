package ebstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/acksell/jassy/eventbridge/pattern"
)

// Rule routes matching events on one bus into a delivery log.
type Rule struct {
	Name        string    `json:"name" yaml:"name"`
	Bus         string    `json:"bus" yaml:"bus"`
	Pattern     string    `json:"pattern" yaml:"pattern"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-"`
}

// PutRule creates or replaces a rule. The pattern is validated before the
// rule is written. An empty bus targets the default bus.
func (s *Store) PutRule(ctx context.Context, rule Rule) error {
	if !validName(rule.Name) {
		return fmt.Errorf("invalid rule name %q", rule.Name)
	}
	if rule.Bus == "" {
		rule.Bus = DefaultBus
	}
	if _, err := pattern.Parse([]byte(rule.Pattern)); err != nil {
		return fmt.Errorf("rule %s: %w", rule.Name, err)
	}
	rule.CreatedAt = s.now().UTC()

	value, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("marshal rule: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(busKey(rule.Bus)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("bus %q does not exist", rule.Bus)
			}
			return err
		}
		return txn.Set(ruleKey(rule.Bus, rule.Name), value)
	})
}

// DeleteRule removes a rule from its bus. Recorded deliveries are kept.
func (s *Store) DeleteRule(ctx context.Context, bus, name string) error {
	if bus == "" {
		bus = DefaultBus
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := ruleKey(bus, name)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("rule %q on bus %q: %w", name, bus, ErrNotFound)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// ListRules returns the rules of one bus in name order.
func (s *Store) ListRules(ctx context.Context, bus string) ([]Rule, error) {
	if bus == "" {
		bus = DefaultBus
	}
	var rules []Rule
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rules, err = readRules(txn, bus)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

func readRules(txn *badger.Txn, bus string) ([]Rule, error) {
	var rules []Rule
	opts := badger.DefaultIteratorOptions
	opts.Prefix = rulePrefix(bus)
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(rulePrefix(bus)); it.Valid(); it.Next() {
		var rule Rule
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &rule)
		}); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
