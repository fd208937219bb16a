// eb generates synthetic AWS EventBridge events from schema registry
// exports and publishes them to EventBridge, a local bus, or Kafka.
//
// # Installation
//
//	go install github.com/acksell/jassy/eventbridge/cmd/eb@latest
//
// # Usage
//
// List the event types found under data/aws_event_schemas:
//
//	eb list
//
// Generate one sample S3 event and print it:
//
//	eb generate s3:ObjectCreated
//
// Publish straight to EventBridge, testing the demo source pattern
// first:
//
//	eb generate s3 --publish --test-pattern
//
// Run the local dev server with a persistent archive:
//
//	eb serve --db ./data/bus --port 8080
//
// Flags can also come from an eb.yaml in the working directory or from
// EB_ environment variables, e.g. EB_REGION and EB_SCHEMA_DIR.
package main

import (
	"os"
)

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
