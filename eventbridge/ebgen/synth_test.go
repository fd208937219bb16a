package ebgen

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/acksell/jassy/eventbridge/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInstant = time.Date(2025, 6, 1, 12, 30, 45, 123456000, time.UTC)

func testGenerator(seed uint64) *Generator {
	return New(Options{
		Rand: rand.New(rand.NewPCG(seed, seed)),
		Now:  func() time.Time { return testInstant },
	})
}

func (g *Generator) synthTest(name string, prop *schema.PropertyNode) any {
	return g.synthesize(name, prop, nil, g.maxDepth)
}

func TestSynthesizeNameHeuristics(t *testing.T) {
	g := testGenerator(1)

	t.Run("account variants give 12 digits", func(t *testing.T) {
		for _, name := range []string{"account", "account-id", "accountId"} {
			v, ok := g.synthTest(name, schema.Scalar("string")).(string)
			require.True(t, ok, "account value for %q should be a string", name)
			assert.Regexp(t, `^\d{12}$`, v)
		}
	})

	t.Run("accountId wins over the Id suffix rule", func(t *testing.T) {
		v := g.synthTest("accountId", nil).(string)
		assert.Regexp(t, `^\d{12}$`, v)
		_, err := uuid.Parse(v)
		assert.Error(t, err, "must not be a UUID")
	})

	t.Run("region returns the configured region", func(t *testing.T) {
		assert.Equal(t, DefaultRegion, g.synthTest("region", schema.Scalar("integer")))
	})

	t.Run("id and Id suffix give UUIDs", func(t *testing.T) {
		for _, name := range []string{"id", "requestId", "parentId"} {
			v, ok := g.synthTest(name, nil).(string)
			require.True(t, ok)
			_, err := uuid.Parse(v)
			assert.NoError(t, err, "value for %q should parse as UUID", name)
		}
	})

	t.Run("time names give ISO-8601 with Z", func(t *testing.T) {
		for _, name := range []string{"time", "uploadTime", "createdAt"} {
			v, ok := g.synthTest(name, schema.Scalar("string")).(string)
			require.True(t, ok)
			assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{1,6})?Z$`, v)
			assert.Equal(t, "2025-06-01T12:30:45.123456Z", v)
		}
	})

	t.Run("arn names give ARNs with the derived service", func(t *testing.T) {
		v := g.synthTest("topicArn", nil).(string)
		assert.True(t, strings.HasPrefix(v, "arn:aws:topic:"+DefaultRegion+":"), v)

		v = g.synthTest("accountArn", nil).(string)
		assert.True(t, strings.HasPrefix(v, "arn:aws:account:"), v)
	})

	t.Run("s3 arn skips region and account", func(t *testing.T) {
		v := g.synthTest("s3Arn", nil).(string)
		assert.True(t, strings.HasPrefix(v, "arn:aws:s3:::"), v)
	})

	t.Run("arn without a service suffix gets the generic token", func(t *testing.T) {
		for _, name := range []string{"arn", "arnValue", "ARN"} {
			v := g.synthTest(name, nil).(string)
			assert.True(t, strings.HasPrefix(v, "arn:aws:service:"), "%q gave %q", name, v)
		}
	})

	t.Run("source gets the demo namespace", func(t *testing.T) {
		v := g.synthTest("source", schema.Scalar("string")).(string)
		assert.True(t, strings.HasPrefix(v, "demo.aws."), v)
	})
}

func TestSynthesizeStringHeuristics(t *testing.T) {
	g := testGenerator(2)

	t.Run("name suffix gives two hyphenated words", func(t *testing.T) {
		v := g.synthTest("bucketName", schema.Scalar("string")).(string)
		parts := strings.Split(v, "-")
		require.Len(t, parts, 2)
		assert.NotEmpty(t, parts[0])
		assert.NotEmpty(t, parts[1])
	})

	t.Run("ip gives a dotted quad", func(t *testing.T) {
		v := g.synthTest("sourceIp", schema.Scalar("string")).(string)
		assert.Regexp(t, `^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`, v)
	})

	t.Run("etag gives 32 hex chars", func(t *testing.T) {
		v := g.synthTest("eTag", schema.Scalar("string")).(string)
		assert.Regexp(t, `^[0-9a-f]{32}$`, v)
	})

	t.Run("key gives a slash path with a file name", func(t *testing.T) {
		v := g.synthTest("objectKey", schema.Scalar("string")).(string)
		assert.Regexp(t, `^[a-z]+/[a-z]+\.[a-z]+$`, v)
	})

	t.Run("plain string gives one word", func(t *testing.T) {
		v := g.synthTest("reason", schema.Scalar("string")).(string)
		assert.Regexp(t, `^[a-z]+$`, v)
	})
}

func TestSynthesizeTypeDispatch(t *testing.T) {
	g := testGenerator(3)

	t.Run("number and integer stay in range", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			n := g.synthTest("size", schema.Scalar("integer")).(int)
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, 10000)
		}
	})

	t.Run("boolean", func(t *testing.T) {
		_, ok := g.synthTest("enabled", schema.Scalar("boolean")).(bool)
		assert.True(t, ok)
	})

	t.Run("array gives one to three items", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			items, ok := g.synthTest("tags", schema.ArrayOf(schema.Scalar("string"))).([]any)
			require.True(t, ok)
			assert.GreaterOrEqual(t, len(items), 1)
			assert.LessOrEqual(t, len(items), 3)
			for _, it := range items {
				_, ok := it.(string)
				assert.True(t, ok)
			}
		}
	})

	t.Run("name heuristics win over array dispatch", func(t *testing.T) {
		// roleArns contains "arn", so the ARN rule fires before the
		// array type is ever consulted: one ARN string, not a slice.
		v, ok := g.synthTest("roleArns", schema.ArrayOf(schema.Unknown())).(string)
		require.True(t, ok, "expected a string, got %#v", v)
		assert.True(t, strings.HasPrefix(v, "arn:aws:"), v)
	})

	t.Run("array items inherit the derived item name", func(t *testing.T) {
		// sourceIps_item still contains "ip", so every element is an
		// IPv4 string instead of a plain word.
		items, ok := g.synthTest("sourceIps", schema.ArrayOf(schema.Scalar("string"))).([]any)
		require.True(t, ok)
		require.NotEmpty(t, items)
		for _, it := range items {
			assert.Regexp(t, `^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`, it)
		}
	})

	t.Run("inline object materializes its properties", func(t *testing.T) {
		prop := schema.Object([]schema.Property{
			{Name: "bucketName", Node: schema.Scalar("string")},
		}, []string{"bucketName"})
		v, ok := g.synthTest("bucket", prop).(map[string]any)
		require.True(t, ok)
		assert.Contains(t, v, "bucketName")
	})

	t.Run("object without properties gives a word map", func(t *testing.T) {
		v, ok := g.synthTest("metadata", schema.Object(nil, nil)).(map[string]any)
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(v), 1)
		assert.LessOrEqual(t, len(v), 3)
	})

	t.Run("unknown descriptor gives a word", func(t *testing.T) {
		v, ok := g.synthTest("mystery", schema.Unknown()).(string)
		require.True(t, ok)
		assert.NotEmpty(t, v)
	})

	t.Run("nil descriptor gives a word", func(t *testing.T) {
		v, ok := g.synthTest("mystery", nil).(string)
		require.True(t, ok)
		assert.NotEmpty(t, v)
	})

	t.Run("unrecognized type gives a word", func(t *testing.T) {
		v, ok := g.synthTest("oddball", schema.Scalar("null")).(string)
		require.True(t, ok)
		assert.NotEmpty(t, v)
	})
}

func TestServiceToken(t *testing.T) {
	tests := map[string]string{
		"topicArn":    "topic",
		"s3Arn":       "s3",
		"RoleArn":     "role",
		"arn":         "service",
		"arnValue":    "service",
		"resourceARN": "service",
		"Arn":         "service",
	}
	for name, want := range tests {
		assert.Equal(t, want, serviceToken(name), "serviceToken(%q)", name)
	}
}
