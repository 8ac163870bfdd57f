package loader

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadKeyOutcomes reads key outcome bullets from a YAML file. The file holds
// either a plain list of strings or a mapping with a key_outcomes list.
// An empty list is returned as an empty, non-nil slice.
func LoadKeyOutcomes(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key outcomes: %w", err)
	}

	outcomes := []string{}
	if len(bytes.TrimSpace(data)) == 0 {
		return outcomes, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse key outcomes %s: %w", path, err)
	}

	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&outcomes); err != nil {
			return nil, fmt.Errorf("invalid key outcomes list in %s: %w", path, err)
		}
	case yaml.MappingNode:
		var doc struct {
			KeyOutcomes []string `yaml:"key_outcomes"`
		}
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid key outcomes in %s: %w", path, err)
		}
		if doc.KeyOutcomes != nil {
			outcomes = doc.KeyOutcomes
		}
	default:
		return nil, fmt.Errorf("key outcomes in %s must be a list or a key_outcomes mapping", path)
	}

	return outcomes, nil
}
