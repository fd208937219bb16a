package main

import (
	"github.com/spf13/cobra"

	"github.com/acksell/jassy/eventbridge/ebui"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port      int
		dbPath    string
		inMemory  bool
		rulesFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local EventBridge dev server",
		Long: `Run a local EventBridge stand-in: browse schemas, generate events,
publish onto local buses, and watch rules match, all over a JSON API.

The archive lives in BadgerDB. Without --db the server runs in-memory
and the archive is lost on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := ebui.NewServer(ebui.ServerConfig{
				Port:      port,
				SchemaDir: opts.schemaDir,
				DBPath:    dbPath,
				InMemory:  inMemory,
				Region:    opts.region,
				RulesFile: rulesFile,
				Logger:    opts.log,
			})
			if err != nil {
				return err
			}
			return server.Run()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port to listen on")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to BadgerDB database (empty for in-memory)")
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "force in-memory mode even when --db is set")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML rule set applied on startup")
	return cmd
}
