package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RepositorySetting is `repository:` in the config: a shorthand or URL,
// `false` to disable hosted links, or absent for auto-detection.
type RepositorySetting struct {
	Value    string
	Disabled bool
}

// IsZero reports an absent setting.
func (r RepositorySetting) IsZero() bool { return r.Value == "" && !r.Disabled }

// UnmarshalYAML accepts a string or `false`.
func (r *RepositorySetting) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("repository: expected a string or false (line %d)", node.Line)
	}
	if node.Tag == "!!bool" {
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return err
		}
		if enabled {
			return fmt.Errorf("repository: true is not a repository (line %d)", node.Line)
		}
		*r = RepositorySetting{Disabled: true}
		return nil
	}
	*r = RepositorySetting{Value: node.Value}
	return nil
}

// MarshalYAML writes the setting back in the same shape.
func (r RepositorySetting) MarshalYAML() (any, error) {
	if r.Disabled {
		return false, nil
	}
	return r.Value, nil
}
