package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/acksell/jassy/eventbridge/registry"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available event types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := registry.New(registry.Options{Dir: opts.schemaDir})
			entries, err := reg.List()
			if err != nil {
				return err
			}

			services := make(map[string][]string)
			for _, e := range entries {
				services[e.Service] = append(services[e.Service], e.Event)
			}
			names := make([]string, 0, len(services))
			for name := range services {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available event types:")
			for _, service := range names {
				fmt.Fprintf(out, "\n%s:\n", service)
				sort.Strings(services[service])
				for _, event := range services[service] {
					fmt.Fprintf(out, "  - %s:%s\n", service, event)
				}
			}
			return nil
		},
	}
}
