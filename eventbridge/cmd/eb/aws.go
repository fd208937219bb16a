package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/acksell/jassy/eventbridge/ebsdk"
)

// newBusIO returns the bus client commands publish and pattern-test
// through. Commands that never reach AWS get an in-memory local bus, so
// generating and pattern testing work without credentials.
func newBusIO(ctx context.Context, opts *rootOptions, aws bool) (ebsdk.IO, error) {
	if !aws {
		return ebsdk.NewMock(), nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if opts.debug {
		identity, err := ebsdk.WhoAmI(ctx, sts.NewFromConfig(cfg))
		if err != nil {
			opts.log.Warn().Err(err).Msg("could not resolve caller identity, check your credentials or aws-vault profile")
		} else {
			opts.log.Debug().
				Str("account", identity.Account).
				Str("arn", identity.ARN).
				Msg("aws caller identity")
		}
	}

	return ebsdk.New(eventbridge.NewFromConfig(cfg)), nil
}
