package ebstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/acksell/jassy/eventbridge/ebgen"
	"github.com/acksell/jassy/eventbridge/pattern"
)

// envelopeTimeLayout matches the second precision EventBridge stamps onto
// delivered envelopes.
const envelopeTimeLayout = "2006-01-02T15:04:05Z"

// entryError is a per-entry failure reported in the result entry rather
// than as a call error, matching PutEvents semantics.
type entryError struct {
	code    string
	message string
}

func (e *entryError) Error() string {
	return e.code + ": " + e.message
}

// PutEvents ingests entries onto their buses. Each accepted entry is
// assembled into a full envelope, archived, and evaluated against the
// rules of its bus. Failures are reported per entry.
func (s *Store) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required")
	}
	if len(params.Entries) == 0 {
		return nil, fmt.Errorf("at least one entry is required")
	}

	out := &eventbridge.PutEventsOutput{
		Entries: make([]types.PutEventsResultEntry, len(params.Entries)),
	}
	for i, entry := range params.Entries {
		id, entryErr, err := s.ingest(entry)
		if err != nil {
			return nil, err
		}
		if entryErr != nil {
			out.FailedEntryCount++
			out.Entries[i] = types.PutEventsResultEntry{
				ErrorCode:    aws.String(entryErr.code),
				ErrorMessage: aws.String(entryErr.message),
			}
			continue
		}
		out.Entries[i] = types.PutEventsResultEntry{EventId: aws.String(id)}
	}
	return out, nil
}

func (s *Store) ingest(entry types.PutEventsRequestEntry) (string, *entryError, error) {
	source := aws.ToString(entry.Source)
	detailType := aws.ToString(entry.DetailType)
	if source == "" {
		return "", &entryError{"InvalidArgument", "Source is required"}, nil
	}
	if detailType == "" {
		return "", &entryError{"InvalidArgument", "DetailType is required"}, nil
	}

	detail := map[string]any{}
	if raw := aws.ToString(entry.Detail); raw != "" {
		if err := json.Unmarshal([]byte(raw), &detail); err != nil {
			return "", &entryError{"MalformedDetail", "Detail is not valid JSON"}, nil
		}
	}

	bus := aws.ToString(entry.EventBusName)
	if bus == "" {
		bus = DefaultBus
	}

	ingestedAt := s.now().UTC()
	eventTime := ingestedAt
	if entry.Time != nil {
		eventTime = entry.Time.UTC()
	}

	event := ebgen.Event{
		Version:    "0",
		ID:         uuid.NewString(),
		DetailType: detailType,
		Source:     source,
		Account:    s.account,
		Time:       eventTime.Format(envelopeTimeLayout),
		Region:     s.region,
		Resources:  entry.Resources,
		Detail:     detail,
	}

	stored := StoredEvent{Bus: bus, IngestedAt: ingestedAt, Event: event}
	value, err := json.Marshal(stored)
	if err != nil {
		return "", nil, fmt.Errorf("marshal stored event: %w", err)
	}

	envelope, err := eventDocument(event)
	if err != nil {
		return "", nil, err
	}

	var busMissing bool
	var delivered []Delivery
	err = s.db.Update(func(txn *badger.Txn) error {
		delivered = delivered[:0]
		if _, err := txn.Get(busKey(bus)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				busMissing = true
				return nil
			}
			return err
		}

		key := eventKey(bus, ingestedAt, event.ID)
		if err := txn.Set(key, value); err != nil {
			return err
		}
		if err := txn.Set(eventIDKey(bus, event.ID), key); err != nil {
			return err
		}

		rules, err := readRules(txn, bus)
		if err != nil {
			return err
		}
		for _, rule := range rules {
			p, err := pattern.Parse([]byte(rule.Pattern))
			if err != nil {
				// Patterns are validated on write, skip anything unreadable.
				continue
			}
			if !p.Matches(envelope) {
				continue
			}
			delivery := Delivery{
				Bus:         bus,
				Rule:        rule.Name,
				EventID:     event.ID,
				DeliveredAt: ingestedAt,
			}
			dv, err := json.Marshal(delivery)
			if err != nil {
				return fmt.Errorf("marshal delivery: %w", err)
			}
			if err := txn.Set(deliveryKey(bus, rule.Name, ingestedAt, event.ID), dv); err != nil {
				return err
			}
			delivered = append(delivered, delivery)
		}
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("store event: %w", err)
	}
	if busMissing {
		return "", &entryError{"ResourceNotFoundException", fmt.Sprintf("Event bus %s does not exist.", bus)}, nil
	}
	if s.onDelivery != nil {
		for _, d := range delivered {
			s.onDelivery(d)
		}
	}
	return event.ID, nil, nil
}

// eventDocument round-trips the envelope through JSON so pattern matching
// sees the same value types as a decoded event document.
func eventDocument(event ebgen.Event) (map[string]any, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return doc, nil
}
