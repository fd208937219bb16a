package ebsdk

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

// AWSEventBridgeClientV2 is the subset of the EventBridge API this package
// uses. The real SDK client satisfies it, as does the local ebstore bus.
type AWSEventBridgeClientV2 interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
	TestEventPattern(ctx context.Context, params *eventbridge.TestEventPatternInput, optFns ...func(*eventbridge.Options)) (*eventbridge.TestEventPatternOutput, error)
}

// AWSSTSClientV2 is the subset of the STS API used to resolve the caller
// identity for debug output.
type AWSSTSClientV2 interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type IO interface {
	Publisher
	PatternTester
}

type Publisher interface {
	// Publish sends one generated event and returns the assigned event id.
	Publish(ctx context.Context, event *ebgen.Event, bus string) (string, error)
}

type PatternTester interface {
	// TestPattern reports whether the event would match the given event
	// pattern document.
	TestPattern(ctx context.Context, eventPattern string, event *ebgen.Event) (bool, error)
}
