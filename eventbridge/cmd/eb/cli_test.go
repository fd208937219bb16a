package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

const s3FixtureDoc = `{
  "components": {
    "schemas": {
      "AWSEvent": {
        "type": "object",
        "x-amazon-events-detail-type": "Object Created",
        "x-amazon-events-source": "aws.s3",
        "properties": {
          "detail": {"$ref": "#/components/schemas/S3Detail"}
        }
      },
      "S3Detail": {
        "type": "object",
        "properties": {
          "bucketName": {"type": "string"},
          "size": {"type": "integer"}
        },
        "required": ["bucketName"]
      }
    }
  }
}`

func schemaFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "aws.s3@ObjectCreated.json")
	require.NoError(t, os.WriteFile(path, []byte(s3FixtureDoc), 0644))
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	dir := schemaFixtureDir(t)

	out, err := runCLI(t, "--schema-dir", dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Available event types:")
	assert.Contains(t, out, "s3:")
	assert.Contains(t, out, "  - s3:ObjectCreated")
}

func TestGenerateToFile(t *testing.T) {
	dir := schemaFixtureDir(t)
	outFile := filepath.Join(t.TempDir(), "event.json")

	_, err := runCLI(t, "--schema-dir", dir, "generate", "s3:ObjectCreated", "--seed", "42", "--output", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var evt ebgen.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, "demo.aws.s3", evt.Source)
	assert.Equal(t, "Object Created", evt.DetailType)
	assert.Equal(t, "eu-west-2", evt.Region)
	assert.Contains(t, evt.Detail, "bucketName")
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	dir := schemaFixtureDir(t)
	tmp := t.TempDir()
	first := filepath.Join(tmp, "first.json")
	second := filepath.Join(tmp, "second.json")

	_, err := runCLI(t, "--schema-dir", dir, "generate", "s3", "--seed", "7", "--output", first)
	require.NoError(t, err)
	_, err = runCLI(t, "--schema-dir", dir, "generate", "s3", "--seed", "7", "--output", second)
	require.NoError(t, err)

	var a, b ebgen.Event
	data, err := os.ReadFile(first)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &a))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &b))

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.Account, b.Account)
	assert.Equal(t, a.Detail, b.Detail)
}

func TestGenerateToStdout(t *testing.T) {
	dir := schemaFixtureDir(t)

	out, err := runCLI(t, "--schema-dir", dir, "generate", "s3:ObjectCreated")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "demo.aws.s3"`)
	assert.Contains(t, out, `"detail-type": "Object Created"`)
}

func TestGenerateUnknownEventType(t *testing.T) {
	_, err := runCLI(t, "--schema-dir", t.TempDir(), "generate", "nope:Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema for event type")
}

func TestGenerateRegionFlag(t *testing.T) {
	dir := schemaFixtureDir(t)
	outFile := filepath.Join(t.TempDir(), "event.json")

	_, err := runCLI(t, "--schema-dir", dir, "--region", "us-east-1", "generate", "s3", "--output", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var evt ebgen.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, "us-east-1", evt.Region)
}

func TestGenerateTestPatternOffline(t *testing.T) {
	dir := schemaFixtureDir(t)

	// Without --publish the pattern test runs against the local bus, so
	// no credentials are needed.
	out, err := runCLI(t, "--schema-dir", dir, "generate", "s3", "--test-pattern")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "demo.aws.s3"`)
}
