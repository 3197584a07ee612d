// Package yamlutil wraps YAML encoding to isolate the external dependency:
// the only YAML texlens produces is the `texlens doctor --format=yaml`
// diagnostic report, and nothing outside this package imports goccy/go-yaml
// directly.
package yamlutil

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
