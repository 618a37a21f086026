package keymapfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads and parses a keymap file, choosing the parser by extension:
// .toml, .yaml/.yml, or .lua.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".lua":
		return LoadLua(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
