package ebstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acksell/jassy/eventbridge/pattern"
)

func TestPutRule(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutRule(ctx, Rule{
		Name:    "all-demo-events",
		Pattern: pattern.DemoSourcePattern,
	}))

	rules, err := store.ListRules(ctx, "")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "all-demo-events", rules[0].Name)
	assert.Equal(t, DefaultBus, rules[0].Bus)
	assert.Equal(t, pattern.DemoSourcePattern, rules[0].Pattern)
	assert.False(t, rules[0].CreatedAt.IsZero())
}

func TestPutRuleReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutRule(ctx, Rule{Name: "r1", Pattern: `{"source": ["demo.aws.s3"]}`}))
	require.NoError(t, store.PutRule(ctx, Rule{Name: "r1", Pattern: `{"source": ["demo.aws.ec2"]}`}))

	rules, err := store.ListRules(ctx, "")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Contains(t, rules[0].Pattern, "ec2")
}

func TestPutRuleValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.PutRule(ctx, Rule{Name: "bad name", Pattern: pattern.DemoSourcePattern})
	require.Error(t, err, "name with spaces should be rejected")

	err = store.PutRule(ctx, Rule{Name: "r1", Pattern: `{}`})
	require.Error(t, err, "empty pattern should be rejected")

	err = store.PutRule(ctx, Rule{Name: "r1", Bus: "nope", Pattern: pattern.DemoSourcePattern})
	require.Error(t, err, "unknown bus should be rejected")
}

func TestDeleteRule(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutRule(ctx, Rule{Name: "r1", Pattern: pattern.DemoSourcePattern}))
	require.NoError(t, store.DeleteRule(ctx, "", "r1"))

	rules, err := store.ListRules(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, rules)

	err = store.DeleteRule(ctx, "", "r1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplyRulesFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `rules:
  - name: all-demo-events
    pattern: '{"source":[{"prefix":"demo.aws"}]}'
  - name: s3-only
    bus: default
    description: objects created in s3
    pattern: '{"source":["demo.aws.s3"]}'
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	n, err := store.ApplyRulesFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rules, err := store.ListRules(ctx, "")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "all-demo-events", rules[0].Name)
	assert.Equal(t, "s3-only", rules[1].Name)
	assert.Equal(t, "objects created in s3", rules[1].Description)
}

func TestApplyRulesFileRejectsBadPattern(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `rules:
  - name: broken
    pattern: '{"source": "not-a-list"}'
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := store.ApplyRulesFile(ctx, path)
	require.Error(t, err)
}

func TestLoadRulesFileMissing(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
