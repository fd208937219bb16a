package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acksell/jassy/eventbridge/ebgen"
	"github.com/acksell/jassy/eventbridge/ebsdk"
	"github.com/acksell/jassy/eventbridge/ebstore"
)

func newPublishCmd(opts *rootOptions) *cobra.Command {
	var (
		bus          string
		localPath    string
		kafkaBrokers []string
		kafkaTopic   string
	)

	cmd := &cobra.Command{
		Use:   "publish <event.json>",
		Short: "Publish a previously generated event from a file",
		Long: `Publish an event saved with "eb generate --output". The default
target is AWS EventBridge. With --local the event goes onto the
BadgerDB bus used by "eb serve", and --kafka-brokers additionally
mirrors it onto a Kafka topic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read event file: %w", err)
			}
			var evt ebgen.Event
			if err := json.Unmarshal(data, &evt); err != nil {
				return fmt.Errorf("parse event file %s: %w", args[0], err)
			}
			if evt.Source == "" || evt.DetailType == "" {
				return fmt.Errorf("event file %s must carry source and detail-type", args[0])
			}

			var busIO ebsdk.IO
			if localPath != "" {
				store, err := ebstore.New(ebstore.Options{
					Path:   localPath,
					Region: opts.region,
					Logger: ebstore.NewBadgerLogger(opts.log),
				})
				if err != nil {
					return fmt.Errorf("open local bus: %w", err)
				}
				defer store.Close()
				busIO = ebsdk.New(store)
			} else {
				busIO, err = newBusIO(ctx, opts, true)
				if err != nil {
					return err
				}
			}

			id, err := busIO.Publish(ctx, &evt, bus)
			if err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			opts.log.Info().
				Str("eventId", id).
				Str("source", evt.Source).
				Str("bus", bus).
				Msg("event published")

			if len(kafkaBrokers) > 0 {
				sink := ebsdk.NewKafkaSink(ebsdk.KafkaConfig{
					Brokers: kafkaBrokers,
					Topic:   kafkaTopic,
					Logger:  opts.log,
				})
				defer sink.Close()
				if err := sink.Send(ctx, &evt); err != nil {
					return fmt.Errorf("kafka: %w", err)
				}
				opts.log.Info().Str("topic", kafkaTopic).Msg("event mirrored to kafka")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bus, "bus", "", "event bus name (defaults to the default bus)")
	cmd.Flags().StringVar(&localPath, "local", "", "publish onto a local BadgerDB bus at this path instead of AWS")
	cmd.Flags().StringSliceVar(&kafkaBrokers, "kafka-brokers", nil, "Kafka broker addresses to mirror the event to")
	cmd.Flags().StringVar(&kafkaTopic, "kafka-topic", "demo-aws-events", "Kafka topic for mirrored events")
	return cmd
}
