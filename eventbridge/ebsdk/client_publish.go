package ebsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/acksell/jassy/eventbridge/ebgen"
)

// Publish sends one generated event via PutEvents and returns the event id
// assigned by the bus.
func (c *Client) Publish(ctx context.Context, event *ebgen.Event, bus string) (string, error) {
	entry, err := Entry(event, bus)
	if err != nil {
		return "", err
	}
	out, err := c.awseb.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{entry},
	})
	if err != nil {
		return "", fmt.Errorf("failed to put events: %w", err)
	}
	if len(out.Entries) == 0 {
		return "", fmt.Errorf("put events returned no result entries")
	}
	if out.FailedEntryCount > 0 {
		res := out.Entries[0]
		return "", fmt.Errorf("event rejected: %s: %s", aws.ToString(res.ErrorCode), aws.ToString(res.ErrorMessage))
	}
	return aws.ToString(out.Entries[0].EventId), nil
}

// Entry converts a generated event into a put-events request entry.
//
// The detail document is serialized to JSON, an empty detail becomes the
// literal "{}". The bus name is attached only when set. Resources are
// forwarded only when every one of them is an ARN, since PutEvents rejects
// entries carrying non-ARN resources.
func Entry(event *ebgen.Event, bus string) (types.PutEventsRequestEntry, error) {
	detail := "{}"
	if len(event.Detail) > 0 {
		data, err := json.Marshal(event.Detail)
		if err != nil {
			return types.PutEventsRequestEntry{}, fmt.Errorf("failed to marshal event detail: %w", err)
		}
		detail = string(data)
	}

	entry := types.PutEventsRequestEntry{
		Source:     aws.String(event.Source),
		DetailType: aws.String(event.DetailType),
		Detail:     aws.String(detail),
	}
	if bus != "" {
		entry.EventBusName = aws.String(bus)
	}
	if allARNs(event.Resources) {
		entry.Resources = event.Resources
	}
	return entry, nil
}

func allARNs(resources []string) bool {
	if len(resources) == 0 {
		return false
	}
	for _, r := range resources {
		if !strings.HasPrefix(r, "arn:") {
			return false
		}
	}
	return true
}
