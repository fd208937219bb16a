// Package ebgen generates concrete sample events from EventBridge registry
// schema documents.
//
// # Usage
//
// Load a schema document, then ask a Generator for an event:
//
//	doc, err := schema.Load("data/aws_event_schemas/aws.s3@ObjectCreated.json")
//	if err != nil {
//	    return err
//	}
//	gen := ebgen.New(ebgen.Options{Region: "eu-west-2"})
//	evt, err := gen.Generate(doc)
//
// Generation is randomized but never fails on missing schema details: a
// dangling $ref, an absent detail schema, or a property with no usable type
// all degrade to documented substitute values. The only hard failures are a
// document with no components table or no AWSEvent root descriptor, reported
// as a *SchemaStructureError.
//
// Generated sources are rewritten to the demo.aws. namespace so downstream
// rules can match sample traffic without colliding with real AWS events.
//
// For reproducible output (tests, fixtures), inject a seeded source and a
// fixed clock:
//
//	gen := ebgen.New(ebgen.Options{
//	    Rand: rand.New(rand.NewPCG(1, 2)),
//	    Now:  func() time.Time { return someInstant },
//	})
package ebgen
