package ebstore

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// tickingClock returns a clock advancing one second per call, so archived
// events get distinct, ordered timestamps.
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func putOne(t *testing.T, store *Store, source, detailType, detail, bus string) string {
	t.Helper()
	entry := types.PutEventsRequestEntry{
		Source:     aws.String(source),
		DetailType: aws.String(detailType),
	}
	if detail != "" {
		entry.Detail = aws.String(detail)
	}
	if bus != "" {
		entry.EventBusName = aws.String(bus)
	}
	out, err := store.PutEvents(context.Background(), &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{entry},
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, out.FailedEntryCount)
	return aws.ToString(out.Entries[0].EventId)
}

func TestNewCreatesDefaultBus(t *testing.T) {
	store := newTestStore(t)

	buses, err := store.ListBuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultBus}, buses)
}

func TestCreateBus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateBus(ctx, "orders"))

	buses, err := store.ListBuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultBus, "orders"}, buses)

	err = store.CreateBus(ctx, "orders")
	require.Error(t, err, "duplicate bus should be rejected")

	err = store.CreateBus(ctx, "bad bus name")
	require.Error(t, err)
}

func TestReopenKeepsEvents(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(Options{Path: dir})
	require.NoError(t, err)
	id := putOne(t, store, "demo.aws.s3", "Object Created", `{"size": 1}`, "")
	require.NoError(t, store.Close())

	reopened, err := New(Options{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.Events(ctx, EventQuery{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].Event.ID)
}
