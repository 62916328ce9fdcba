package stats

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridline/racesim/internal/overlay"
)

// FileProvider reads statistics from a YAML or JSON file.
type FileProvider struct {
	Path string
}

// Fetch reads and decodes the file. YAML is a superset of JSON so both
// formats decode the same way.
func (p FileProvider) Fetch(ctx context.Context) (*overlay.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats file: %w", err)
	}
	var s overlay.Stats
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse stats file %s: %w", p.Path, err)
	}
	return &s, nil
}

func (p FileProvider) String() string {
	return p.Path
}
