package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"call4papers/internal/conference"
)

// Setup is a named bundle of filtering criteria that can be selected with
// one flag instead of spelling out every list.
type Setup struct {
	Keywords   []string `yaml:"keywords"`
	NoKeywords []string `yaml:"nokeywords"`
	Whitelist  []string `yaml:"whitelist"`
	Blacklist  []string `yaml:"blacklist"`
	Ratings    []string `yaml:"ratings"`
}

// FilterSpec converts the setup into the filter engine's configuration.
func (s Setup) FilterSpec() conference.FilterSpec {
	return conference.FilterSpec{
		Keywords:   s.Keywords,
		NoKeywords: s.NoKeywords,
		Whitelist:  s.Whitelist,
		Blacklist:  s.Blacklist,
		Ratings:    s.Ratings,
	}
}

// DefaultSetups returns the baked-in bundles.
func DefaultSetups() map[string]Setup {
	return map[string]Setup{
		"nlp": {
			Keywords: []string{
				"computational linguistics",
				"machine translation",
				"natural language",
				"artificial intelligence",
				"pattern recognition",
				"machine learning",
				"neural networks",
				"neural",
				"language",
				"learning",
			},
			Ratings:   []string{"A*", "A", "B", "C", "1", "2", "3"},
			Blacklist: []string{"CICLING"},
		},
		"ai": {
			Keywords: []string{
				"artificial intelligence",
				"machine learning",
				"neural",
				"data mining",
				"computer vision",
			},
			Ratings:   []string{"A*", "A", "1", "2"},
			Whitelist: []string{"AAAI", "IJCAI", "NEURIPS", "ICML", "ICLR"},
		},
	}
}

// LoadSetups merges a YAML setups file over the defaults. Bundles in the
// file replace same-named defaults wholesale; new names are added. An
// empty path returns just the defaults.
func LoadSetups(path string) (map[string]Setup, error) {
	setups := DefaultSetups()
	if path == "" {
		return setups, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("setups: %w", err)
	}
	var parsed map[string]Setup
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("setups: parse %s: %w", path, err)
	}
	for name, s := range parsed {
		setups[name] = s
	}
	return setups, nil
}

// SetupNames lists the available bundle names for help output.
func SetupNames(setups map[string]Setup) []string {
	names := make([]string, 0, len(setups))
	for name := range setups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
