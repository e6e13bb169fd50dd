// Package configloader reads the YAML files shipped under config/.
package configloader

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes dir/subPath into target. Unknown keys are rejected so a
// misspelled prompt field fails loudly instead of falling back to defaults.
func LoadYAML(dir, subPath string, target any) error {
	path := filepath.Join(dir, subPath)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
