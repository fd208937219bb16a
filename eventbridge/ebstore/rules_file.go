package ebstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RulesFile is the on-disk rule set format:
//
//	rules:
//	  - name: all-demo-events
//	    bus: default
//	    pattern: '{"source":[{"prefix":"demo.aws"}]}'
type RulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRulesFile reads and decodes a YAML rule set.
func LoadRulesFile(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", filepath.Base(path), err)
	}
	return &file, nil
}

// ApplyRulesFile loads a YAML rule set and writes every rule to the
// store. It returns the number of rules applied.
func (s *Store) ApplyRulesFile(ctx context.Context, path string) (int, error) {
	file, err := LoadRulesFile(path)
	if err != nil {
		return 0, err
	}
	for _, rule := range file.Rules {
		if err := s.PutRule(ctx, rule); err != nil {
			return 0, err
		}
	}
	return len(file.Rules), nil
}
