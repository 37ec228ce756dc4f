package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules configures which element IDs the extractor recognizes as price
// display regions, in priority order.
type Rules struct {
	ElementIDs []string `yaml:"element_ids"`
}

// DefaultRules returns the built-in element ID list.
func DefaultRules() Rules {
	return Rules{
		ElementIDs: []string{
			"priceblock_ourprice",
			"priceblock_dealprice",
			"priceblock_saleprice",
		},
	}
}

// LoadRules reads a YAML rules file. Deployments use this to extend the
// recognized element IDs without a rebuild.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file %s: %w", path, err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(rules.ElementIDs) == 0 {
		return Rules{}, fmt.Errorf("rules file %s: no element_ids defined", path)
	}
	return rules, nil
}
