package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/acksell/jassy/eventbridge/ebgen"
	"github.com/acksell/jassy/eventbridge/registry"
)

// rootOptions carries the persistent flags shared by every subcommand,
// resolved against config file and environment before a command runs.
type rootOptions struct {
	region    string
	schemaDir string
	debug     bool

	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "eb",
		Short: "Generate and publish synthetic AWS EventBridge events",
		Long: `eb generates realistic sample events from AWS schema registry exports
and publishes them to EventBridge, a local bus, or Kafka.

Schema files follow the registry export naming convention
aws.<service>@<EventName>.json and live in data/aws_event_schemas by
default. Generated events carry a demo.aws. source namespace so rules
can match them apart from real AWS traffic.`,
		Version:      version,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.region, "region", ebgen.DefaultRegion, "AWS region stamped onto events and used for publishing")
	pf.StringVar(&opts.schemaDir, "schema-dir", registry.DefaultDir, "directory holding schema registry exports")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging and credential diagnostics")

	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if err := applyConfig(pf, opts); err != nil {
			return err
		}
		opts.log = newLogger(opts.debug)
		return nil
	}

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newPublishCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRefreshCmd(opts))
	return cmd
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
