package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags(opts *rootOptions) *pflag.FlagSet {
	flags := pflag.NewFlagSet("eb", pflag.ContinueOnError)
	flags.StringVar(&opts.region, "region", "eu-west-2", "")
	flags.StringVar(&opts.schemaDir, "schema-dir", "data/aws_event_schemas", "")
	flags.BoolVar(&opts.debug, "debug", false, "")
	return flags
}

func TestApplyConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	opts := &rootOptions{}
	flags := newTestFlags(opts)

	require.NoError(t, applyConfig(flags, opts))
	assert.Equal(t, "eu-west-2", opts.region)
	assert.Equal(t, "data/aws_event_schemas", opts.schemaDir)
	assert.False(t, opts.debug)
}

func TestApplyConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	config := "region: us-east-1\nschema_dir: ./schemas\ndebug: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eb.yaml"), []byte(config), 0644))
	t.Chdir(dir)

	opts := &rootOptions{}
	flags := newTestFlags(opts)

	require.NoError(t, applyConfig(flags, opts))
	assert.Equal(t, "us-east-1", opts.region)
	assert.Equal(t, "./schemas", opts.schemaDir)
	assert.True(t, opts.debug)
}

func TestApplyConfigFlagWins(t *testing.T) {
	dir := t.TempDir()
	config := "region: us-east-1\nschema_dir: ./schemas\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eb.yaml"), []byte(config), 0644))
	t.Chdir(dir)

	opts := &rootOptions{}
	flags := newTestFlags(opts)
	require.NoError(t, flags.Set("region", "ap-southeast-2"))

	require.NoError(t, applyConfig(flags, opts))
	assert.Equal(t, "ap-southeast-2", opts.region, "explicit flag beats config file")
	assert.Equal(t, "./schemas", opts.schemaDir, "unset flag takes the config value")
}

func TestApplyConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "eb.yaml"), []byte("region: us-east-1\n"), 0644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	opts := &rootOptions{}
	flags := newTestFlags(opts)

	require.NoError(t, applyConfig(flags, opts))
	assert.Equal(t, "us-east-1", opts.region, "config found in an ancestor directory")
}

func TestApplyConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EB_REGION", "us-west-1")

	opts := &rootOptions{}
	flags := newTestFlags(opts)

	require.NoError(t, applyConfig(flags, opts))
	assert.Equal(t, "us-west-1", opts.region)
}

func TestApplyConfigRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "eb.yaml"), []byte("region: [unclosed"), 0644))
	t.Chdir(dir)

	opts := &rootOptions{}
	flags := newTestFlags(opts)
	assert.Error(t, applyConfig(flags, opts))
}
