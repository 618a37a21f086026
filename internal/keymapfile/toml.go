package keymapfile

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// LoadTOML parses a TOML keymap document.
func LoadTOML(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing TOML keymap: %w", err)
	}
	return &f, nil
}
