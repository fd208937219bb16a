package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configFileName is the optional per-project config file, searched from
// the working directory up to the filesystem root:
//
//	region: eu-west-2
//	schema_dir: data/aws_event_schemas
//	debug: false
const configFileName = "eb.yaml"

// applyConfig overlays config file and environment values onto flags the
// user did not set explicitly. Precedence is flag, then EB_ environment
// variable, then eb.yaml, then the flag default.
func applyConfig(flags *pflag.FlagSet, opts *rootOptions) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EB")
	v.AutomaticEnv()

	if path := findConfigFile(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}

	if !flags.Changed("region") {
		if s := v.GetString("region"); s != "" {
			opts.region = s
		}
	}
	if !flags.Changed("schema-dir") {
		if s := v.GetString("schema_dir"); s != "" {
			opts.schemaDir = s
		}
	}
	if !flags.Changed("debug") && v.GetBool("debug") {
		opts.debug = true
	}
	return nil
}

// findConfigFile searches for eb.yaml walking up from the current
// directory, so running eb from a subdirectory of a project still picks
// up the project config.
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
