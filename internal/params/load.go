package params

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML parameter file and overlays it onto the built-in
// defaults. Fields absent from the file keep their default values, so a
// partial override file is always safe.
func Load(path string) (Params, error) {
	p := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read params file: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params file %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("params file %s: %w", path, err)
	}
	return p, nil
}
