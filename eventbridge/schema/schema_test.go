package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const s3ObjectCreatedDoc = `{
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
          "eTag": {"type": "string"},
          "size": {"type": "integer"}
        },
        "required": ["bucketName"]
      }
    }
  }
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(s3ObjectCreatedDoc))
	require.NoError(t, err)

	root, ok := doc.Root()
	require.True(t, ok, "AWSEvent component should be present")
	assert.Equal(t, "Object Created", root.DetailType)
	assert.Equal(t, "aws.s3", root.Source)

	detail, ok := root.Property("detail")
	require.True(t, ok)
	assert.Equal(t, KindRef, detail.Kind)
	assert.Equal(t, "S3Detail", detail.Ref)

	s3, ok := doc.Component("S3Detail")
	require.True(t, ok)
	require.Len(t, s3.Properties, 3)
	assert.Equal(t, "bucketName", s3.Properties[0].Name)
	assert.Equal(t, "eTag", s3.Properties[1].Name)
	assert.Equal(t, "size", s3.Properties[2].Name)
	assert.True(t, s3.IsRequired("bucketName"))
	assert.False(t, s3.IsRequired("eTag"))
}

func TestParseNoComponents(t *testing.T) {
	for name, data := range map[string]string{
		"empty document":   `{}`,
		"empty components": `{"components": {}}`,
		"null schemas":     `{"components": {"schemas": null}}`,
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(data))
			require.NoError(t, err)
			assert.Nil(t, doc.Components)
			_, ok := doc.Root()
			assert.False(t, ok)
		})
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"components":`))
	require.Error(t, err)
}

func TestPropertyOrderPreserved(t *testing.T) {
	doc, err := Parse([]byte(`{
	  "components": {"schemas": {"AWSEvent": {
	    "type": "object",
	    "properties": {
	      "zebra": {"type": "string"},
	      "alpha": {"type": "string"},
	      "mike": {"type": "string"},
	      "bravo": {"type": "string"}
	    }
	  }}}
	}`))
	require.NoError(t, err)
	root, ok := doc.Root()
	require.True(t, ok)

	names := make([]string, 0, len(root.Properties))
	for _, p := range root.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"zebra", "alpha", "mike", "bravo"}, names)
}

func TestDecodePropertyVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want func(t *testing.T, p *PropertyNode)
	}{
		{
			name: "scalar string",
			raw:  `{"type": "string"}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindScalar, p.Kind)
				assert.Equal(t, "string", p.Type)
			},
		},
		{
			name: "ref resolves to last path segment",
			raw:  `{"$ref": "#/components/schemas/Bucket"}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindRef, p.Kind)
				assert.Equal(t, "Bucket", p.Ref)
			},
		},
		{
			name: "bare ref name",
			raw:  `{"$ref": "Bucket"}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindRef, p.Kind)
				assert.Equal(t, "Bucket", p.Ref)
			},
		},
		{
			name: "array with items",
			raw:  `{"type": "array", "items": {"type": "integer"}}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindArray, p.Kind)
				require.NotNil(t, p.Items)
				assert.Equal(t, KindScalar, p.Items.Kind)
				assert.Equal(t, "integer", p.Items.Type)
			},
		},
		{
			name: "array without items",
			raw:  `{"type": "array"}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindArray, p.Kind)
				require.NotNil(t, p.Items)
				assert.Equal(t, KindUnknown, p.Items.Kind)
			},
		},
		{
			name: "inline object",
			raw:  `{"type": "object", "properties": {"a": {"type": "string"}}, "required": ["a"]}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindObject, p.Kind)
				require.Len(t, p.Properties, 1)
				assert.Equal(t, "a", p.Properties[0].Name)
				assert.Equal(t, []string{"a"}, p.Required)
			},
		},
		{
			name: "object without properties",
			raw:  `{"type": "object"}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindObject, p.Kind)
				assert.Empty(t, p.Properties)
			},
		},
		{
			name: "no type at all",
			raw:  `{}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindUnknown, p.Kind)
			},
		},
		{
			name: "unrecognized type keeps its name",
			raw:  `{"type": "null"}`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindScalar, p.Kind)
				assert.Equal(t, "null", p.Type)
			},
		},
		{
			name: "non-object descriptor degrades to unknown",
			raw:  `true`,
			want: func(t *testing.T, p *PropertyNode) {
				assert.Equal(t, KindUnknown, p.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, decodeProperty([]byte(tt.raw)))
		})
	}
}
