package registry

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, files ...string) *Registry {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("{}"), 0644))
	}
	return New(Options{Dir: dir, Rand: rand.New(rand.NewPCG(1, 1))})
}

func TestList(t *testing.T) {
	r := newTestRegistry(t,
		"aws.s3@ObjectCreated.json",
		"aws.ec2@InstanceStateChange.json",
		"aws.s3@ObjectDeleted.json",
		"custom.json",
		"notes.txt",
	)

	entries, err := r.List()
	require.NoError(t, err)
	require.Len(t, entries, 3, "only conventionally named files are listed")

	assert.Equal(t, "ec2", entries[0].Service)
	assert.Equal(t, "InstanceStateChange", entries[0].Event)
	assert.Equal(t, "s3", entries[1].Service)
	assert.Equal(t, "ObjectCreated", entries[1].Event)
	assert.Equal(t, "s3", entries[2].Service)
	assert.Equal(t, "ObjectDeleted", entries[2].Event)

	assert.Equal(t, "s3:ObjectCreated", entries[1].Name())
}

func TestListMissingDirectory(t *testing.T) {
	r := New(Options{Dir: filepath.Join(t.TempDir(), "nope")})
	_, err := r.List()
	require.Error(t, err)
}

func TestFindServiceEvent(t *testing.T) {
	r := newTestRegistry(t,
		"aws.s3@ObjectCreated.json",
		"aws.s3@ObjectDeleted.json",
	)

	e, err := r.Find("s3:objectcreated")
	require.NoError(t, err)
	assert.Equal(t, "ObjectCreated", e.Event)

	e, err = r.Find("S3:OBJECTDELETED")
	require.NoError(t, err)
	assert.Equal(t, "ObjectDeleted", e.Event)
}

func TestFindLiteralFilename(t *testing.T) {
	r := newTestRegistry(t, "aws.s3@ObjectCreated.json", "custom.json")

	e, err := r.Find("aws.s3@ObjectCreated.json")
	require.NoError(t, err)
	assert.Equal(t, "s3", e.Service)

	e, err = r.Find("custom.json")
	require.NoError(t, err)
	assert.Empty(t, e.Service)
	assert.Equal(t, "custom.json", filepath.Base(e.Path))
	assert.Equal(t, "custom.json", e.Name())
}

func TestFindBareServicePicksRandomly(t *testing.T) {
	r := newTestRegistry(t,
		"aws.s3@ObjectCreated.json",
		"aws.s3@ObjectDeleted.json",
		"aws.ec2@InstanceStateChange.json",
	)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		e, err := r.Find("s3")
		require.NoError(t, err)
		assert.Equal(t, "s3", e.Service)
		seen[e.Event] = true
	}
	assert.True(t, seen["ObjectCreated"] && seen["ObjectDeleted"],
		"repeated bare-service lookups should hit both schemas, saw %v", seen)
}

func TestFindSubstring(t *testing.T) {
	r := newTestRegistry(t,
		"aws.ec2@InstanceStateChange.json",
		"aws.s3@ObjectDeleted.json",
	)

	e, err := r.Find("Deleted")
	require.NoError(t, err)
	assert.Equal(t, "ObjectDeleted", e.Event)

	e, err = r.Find("statechange")
	require.NoError(t, err)
	assert.Equal(t, "InstanceStateChange", e.Event)
}

func TestFindNotFound(t *testing.T) {
	r := newTestRegistry(t, "aws.s3@ObjectCreated.json")
	_, err := r.Find("dynamodb:StreamRecord")
	require.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestFindStrategyOrder(t *testing.T) {
	// A file whose name contains "s3" must not shadow the service pick,
	// and a service:event hit must win over a substring hit.
	r := newTestRegistry(t,
		"aws.ec2@S3Backup.json",
		"aws.s3@ObjectCreated.json",
	)

	e, err := r.Find("s3")
	require.NoError(t, err)
	assert.Equal(t, "s3", e.Service, "bare service lookup beats substring")

	e, err = r.Find("ec2:S3Backup")
	require.NoError(t, err)
	assert.Equal(t, "ec2", e.Service)
}
