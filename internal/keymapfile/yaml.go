package keymapfile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadYAML parses a YAML keymap document.
func LoadYAML(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML keymap: %w", err)
	}
	return &f, nil
}
