package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// plansFile is the on-disk shape of the tracked-plans list.
type plansFile struct {
	Plans []Plan `yaml:"plans"`
}

// LoadPlans reads the ordered tracked-plan list from a YAML file. The list
// is injected configuration, never a compiled-in constant.
func LoadPlans(path string) ([]Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans file: %w", err)
	}

	var pf plansFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse plans file: %w", err)
	}

	if len(pf.Plans) == 0 {
		return nil, domain.ErrNoPlans
	}

	seen := make(map[string]struct{}, len(pf.Plans))
	for _, p := range pf.Plans {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate plan name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return pf.Plans, nil
}
