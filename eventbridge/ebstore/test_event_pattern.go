package ebstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"

	"github.com/acksell/jassy/eventbridge/pattern"
)

// TestEventPattern evaluates an event against an event pattern without
// touching any bus, answering the same call as the AWS client.
func (s *Store) TestEventPattern(ctx context.Context, params *eventbridge.TestEventPatternInput, optFns ...func(*eventbridge.Options)) (*eventbridge.TestEventPatternOutput, error) {
	if params == nil || params.Event == nil || params.EventPattern == nil {
		return nil, fmt.Errorf("event and event pattern are required")
	}
	p, err := pattern.Parse([]byte(aws.ToString(params.EventPattern)))
	if err != nil {
		return nil, fmt.Errorf("invalid event pattern: %w", err)
	}
	ok, err := p.MatchesJSON([]byte(aws.ToString(params.Event)))
	if err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	return &eventbridge.TestEventPatternOutput{Result: ok}, nil
}
