package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the feed source list
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the YAML source list, applies defaults and validates it
func (l *Loader) Load() (*List, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var list List
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&list)

	if err := l.validate(&list); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", l.path, err)
	}

	return &list, nil
}

func (l *Loader) setDefaults(list *List) {
	for i := range list.Sources {
		if list.Sources[i].Category == "" {
			list.Sources[i].Category = "general"
		}
	}
}

func (l *Loader) validate(list *List) error {
	if len(list.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	seen := make(map[string]bool)
	for i, src := range list.Sources {
		if src.Name == "" {
			return fmt.Errorf("source at index %d: name is required", i)
		}
		if src.URL == "" {
			return fmt.Errorf("source at index %d: URL is required", i)
		}
		if seen[src.URL] {
			return fmt.Errorf("source at index %d: duplicate URL %s", i, src.URL)
		}
		seen[src.URL] = true
	}

	return nil
}
