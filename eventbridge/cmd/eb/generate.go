package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acksell/jassy/eventbridge/ebgen"
	"github.com/acksell/jassy/eventbridge/pattern"
	"github.com/acksell/jassy/eventbridge/registry"
	"github.com/acksell/jassy/eventbridge/schema"
)

type generateOptions struct {
	eventType   string
	output      string
	seed        uint64
	seedSet     bool
	publishBus  string
	publish     bool
	testPattern bool
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		output      string
		seed        uint64
		publishBus  string
		testPattern bool
	)

	cmd := &cobra.Command{
		Use:   "generate <event-type>",
		Short: "Generate a sample event from a schema",
		Long: `Generate one sample event. The event type is an event name like
"s3:ObjectCreated", a bare service name like "s3" (a random event of
that service is picked), or a schema filename.

The event prints to stdout unless --output names a file. With --publish
the event also goes to AWS EventBridge, optionally onto a named bus.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, generateOptions{
				eventType:   args[0],
				output:      output,
				seed:        seed,
				seedSet:     cmd.Flags().Changed("seed"),
				publishBus:  publishBus,
				publish:     cmd.Flags().Changed("publish"),
				testPattern: testPattern,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the event to a file instead of stdout")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the generator for reproducible events")
	cmd.Flags().StringVar(&publishBus, "publish", "", "publish to AWS EventBridge, optionally naming an event bus")
	cmd.Flags().Lookup("publish").NoOptDefVal = "default"
	cmd.Flags().BoolVar(&testPattern, "test-pattern", false, "test the event against the demo source pattern before publishing")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, gen generateOptions) error {
	ctx := cmd.Context()

	reg := registry.New(registry.Options{Dir: opts.schemaDir})
	entry, err := reg.Find(gen.eventType)
	if err != nil {
		if errors.Is(err, registry.ErrSchemaNotFound) {
			return fmt.Errorf("no schema for event type or service %q, run \"eb list\" to see available event types", gen.eventType)
		}
		return err
	}
	if strings.EqualFold(entry.Service, gen.eventType) {
		opts.log.Info().Str("eventType", entry.Name()).Msg("randomly selected event type")
	}

	doc, err := schema.Load(entry.Path)
	if err != nil {
		return err
	}

	genOpts := ebgen.Options{Region: opts.region}
	if gen.seedSet {
		genOpts.Rand = rand.New(rand.NewPCG(gen.seed, gen.seed))
	}
	evt, err := ebgen.New(genOpts).Generate(doc)
	if err != nil {
		return fmt.Errorf("generate %s: %w", entry.Name(), err)
	}

	bus, err := newBusIO(ctx, opts, gen.publish)
	if err != nil {
		return err
	}

	if gen.testPattern {
		matches, err := bus.TestPattern(ctx, pattern.DemoSourcePattern, evt)
		if err != nil {
			return fmt.Errorf("test pattern: %w", err)
		}
		opts.log.Info().Bool("matches", matches).Str("pattern", pattern.DemoSourcePattern).Msg("pattern test")
		if !matches {
			opts.log.Warn().Msg("event does not match the demo source pattern, rules may not fire")
		}
	}

	data, err := json.MarshalIndent(evt, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if gen.output != "" {
		if err := os.WriteFile(gen.output, data, 0644); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		opts.log.Info().Str("path", gen.output).Msg("event saved")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	if gen.publish {
		id, err := bus.Publish(ctx, evt, gen.publishBus)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		opts.log.Info().
			Str("eventId", id).
			Str("bus", gen.publishBus).
			Str("region", opts.region).
			Msg("event published")
	}
	return nil
}
