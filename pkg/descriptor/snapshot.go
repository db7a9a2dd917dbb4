package descriptor

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Snapshot is a file-backed Source: a YAML (or JSON, which yaml.v3 also
// decodes) document listing the routes and schemas of one API surface.
// Exporters on the server side write this file; fluid-gen consumes it.
type Snapshot struct {
	RouteList  []RouteDescriptor  `yaml:"routes"`
	SchemaList []SchemaDescriptor `yaml:"schemas"`
}

// LoadSnapshot reads a descriptor snapshot from path.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &s, nil
}

// Routes implements Source.
func (s *Snapshot) Routes(ctx context.Context) ([]RouteDescriptor, error) {
	return s.RouteList, nil
}

// Schemas implements Source.
func (s *Snapshot) Schemas(ctx context.Context) ([]SchemaDescriptor, error) {
	return s.SchemaList, nil
}
