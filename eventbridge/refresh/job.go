// Package refresh downloads the CloudFormation resource specification,
// trims it down to the resource types AWS Config tracks, and uploads the
// result to S3. The schema registry commands read these uploads to stay
// current with what Config can record.
package refresh

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

// specURLs maps regions to their CloudFormation spec distribution, per
// the region table in the CloudFormation user guide.
var specURLs = map[string]string{
	"eu-west-2": "https://d1742qcu2c1ncx.cloudfront.net/latest/gzip/CloudFormationResourceSpecification.json",
}

const configDocURL = "https://docs.aws.amazon.com/config/latest/developerguide/resource-config-reference.html"

const defaultKeyPrefix = "config-specs/"

// S3Putter is the subset of the S3 API the job uses.
type S3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config configures a refresh job.
type Config struct {
	// Bucket receiving the trimmed spec. Required.
	Bucket string
	// KeyPrefix for uploaded objects. Defaults to "config-specs/".
	KeyPrefix string
	// Region selects the spec distribution and is embedded in the object
	// key. Defaults to the generator region.
	Region string
	// SpecURL overrides the region table, mainly for tests.
	SpecURL string
	// DocURL overrides the Config reference page, mainly for tests.
	DocURL string
	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client
	Logger     zerolog.Logger
	// Now supplies the date embedded in the object key. Defaults to
	// time.Now.
	Now func() time.Time
}

// FromEnv builds a Config from the environment variables the deployed
// job uses: DEST_BUCKET, DEST_KEY_PREFIX and REGION.
func FromEnv() (Config, error) {
	bucket := os.Getenv("DEST_BUCKET")
	if bucket == "" {
		return Config{}, fmt.Errorf("DEST_BUCKET is required")
	}
	return Config{
		Bucket:    bucket,
		KeyPrefix: os.Getenv("DEST_KEY_PREFIX"),
		Region:    os.Getenv("REGION"),
	}, nil
}

// Job refreshes the trimmed resource spec in S3.
type Job struct {
	bucket    string
	keyPrefix string
	region    string
	specURL   string
	docURL    string
	client    *http.Client
	s3        S3Putter
	log       zerolog.Logger
	now       func() time.Time
}

// NewJob validates the config and resolves the spec distribution for the
// configured region.
func NewJob(cfg Config, s3Client S3Putter) (*Job, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = ebgen.DefaultRegion
	}
	specURL := cfg.SpecURL
	if specURL == "" {
		url, ok := specURLs[region]
		if !ok {
			return nil, fmt.Errorf("no resource spec url for region %q", region)
		}
		specURL = url
	}
	docURL := cfg.DocURL
	if docURL == "" {
		docURL = configDocURL
	}
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Job{
		bucket:    cfg.Bucket,
		keyPrefix: keyPrefix,
		region:    region,
		specURL:   specURL,
		docURL:    docURL,
		client:    client,
		s3:        s3Client,
		log:       cfg.Logger,
		now:       now,
	}, nil
}

// Result summarizes one refresh run.
type Result struct {
	Status    string `json:"status"`
	Region    string `json:"region"`
	KeptTypes int    `json:"keptTypes"`
	S3Key     string `json:"s3Key"`
	Message   string `json:"message,omitempty"`
}

// ErrorResult wraps a failed run into the result shape the deployed job
// reports.
func ErrorResult(err error) *Result {
	return &Result{Status: "ERROR", Message: err.Error()}
}
