package ebsdk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

// TestPattern asks the bus whether the event matches the given pattern.
// Against AWS this calls TestEventPattern, against the local bus the same
// call is answered by the pattern package.
func (c *Client) TestPattern(ctx context.Context, eventPattern string, event *ebgen.Event) (bool, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event: %w", err)
	}
	out, err := c.awseb.TestEventPattern(ctx, &eventbridge.TestEventPatternInput{
		Event:        aws.String(string(payload)),
		EventPattern: aws.String(eventPattern),
	})
	if err != nil {
		return false, fmt.Errorf("failed to test event pattern: %w", err)
	}
	return out.Result, nil
}
