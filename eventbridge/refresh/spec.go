package refresh

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var resourceTypeRE = regexp.MustCompile(`AWS::[A-Za-z0-9]+::[A-Za-z0-9]+`)

// Spec is the slice of the CloudFormation resource specification the job
// filters. Type bodies pass through untouched.
type Spec struct {
	ResourceTypes map[string]json.RawMessage `json:"ResourceTypes"`
	PropertyTypes map[string]json.RawMessage `json:"PropertyTypes"`
}

// FilterSpec keeps the resource types present in keep, and the property
// types belonging to one of them.
func FilterSpec(spec *Spec, keep map[string]struct{}) *Spec {
	out := &Spec{
		ResourceTypes: make(map[string]json.RawMessage),
		PropertyTypes: make(map[string]json.RawMessage),
	}
	for k, v := range spec.ResourceTypes {
		if _, ok := keep[k]; ok {
			out.ResourceTypes[k] = v
		}
	}
	for k, v := range spec.PropertyTypes {
		owner, _, _ := strings.Cut(k, ".")
		if _, ok := keep[owner]; ok {
			out.PropertyTypes[k] = v
		}
	}
	return out
}

// Run downloads the spec, trims it to the types AWS Config tracks, and
// uploads the result under a dated key.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	raw, err := j.fetchBytes(ctx, j.specURL)
	if err != nil {
		return nil, fmt.Errorf("fetch resource spec: %w", err)
	}
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse resource spec: %w", err)
	}

	keep, err := j.ConfigResourceTypes(ctx)
	if err != nil {
		return nil, err
	}

	trimmed := FilterSpec(&spec, keep)
	payload, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trimmed spec: %w", err)
	}

	key := fmt.Sprintf("%sconfig_resource_spec_%s_%s.json",
		j.keyPrefix, j.region, j.now().UTC().Format("2006-01-02"))

	_, err = j.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(j.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json; charset=utf-8"),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	j.log.Info().
		Str("s3Key", key).
		Int("keptTypes", len(trimmed.ResourceTypes)).
		Msg("resource spec refreshed")

	return &Result{
		Status:    "SUCCESS",
		Region:    j.region,
		KeptTypes: len(trimmed.ResourceTypes),
		S3Key:     key,
	}, nil
}

// ConfigResourceTypes scrapes the AWS Config reference page for the
// resource types it tracks.
func (j *Job) ConfigResourceTypes(ctx context.Context) (map[string]struct{}, error) {
	page, err := j.fetchBytes(ctx, j.docURL)
	if err != nil {
		return nil, fmt.Errorf("fetch config reference: %w", err)
	}
	keep := make(map[string]struct{})
	for _, match := range resourceTypeRE.FindAllString(string(page), -1) {
		keep[match] = struct{}{}
	}
	return keep, nil
}

// fetchBytes downloads a URL. The CloudFront spec link serves gzip, so a
// gzip body is decompressed and anything else passes through.
func (j *Job) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := j.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	if decompressed, err := gunzip(data); err == nil {
		return decompressed, nil
	}
	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
