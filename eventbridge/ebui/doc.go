// Package ebui provides a local development server for EventBridge sample
// events: browse the schema registry, generate events, publish them onto
// the badger-backed local bus, and inspect the archive, rules and
// deliveries.
//
// # Usage
//
// Start the server through the CLI:
//
//	eb serve --schema-dir ./data/aws_event_schemas --port 3080
//
// This serves a JSON API at http://localhost:3080 backed by an in-memory
// bus. To persist the archive between runs, provide a database path:
//
//	eb serve --schema-dir ./data/aws_event_schemas --db ./data/bus
//
// Prometheus metrics are exposed on /metrics, liveness on /healthz.
package ebui
