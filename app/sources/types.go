package sources

// Source is one configured feed. Loaded at startup, never mutated.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type List struct {
	Sources         []Source `yaml:"sources"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}
