package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/categorit/core"
)

// yamlDualRule mirrors the shape of the curated production table: one
// target category, a per-type subcategory map, optional per-type category
// overrides and an optional wildcard subcategory.
type yamlDualRule struct {
	Category            string            `yaml:"category"`
	Subcategory         string            `yaml:"subcategory"`
	TargetCategory      string            `yaml:"target_category"`
	WildcardSubcategory string            `yaml:"wildcard_subcategory,omitempty"`
	PerType             map[string]string `yaml:"per_type,omitempty"`
	CategoryOverrides   map[string]string `yaml:"category_overrides,omitempty"`
	ForceDisambiguation bool              `yaml:"force_disambiguation,omitempty"`
}

type yamlMultiRule struct {
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory"`
	Targets     []Target `yaml:"targets"`
}

type yamlExternalMapping struct {
	Label      string           `yaml:"label"`
	Type       string           `yaml:"type"`
	Categories []string         `yaml:"categories,omitempty"`
	Mappings   []PartialMapping `yaml:"mappings,omitempty"`
}

type yamlRulesFile struct {
	Dual        []yamlDualRule        `yaml:"dual,omitempty"`
	Multi       []yamlMultiRule       `yaml:"multi,omitempty"`
	External    []yamlExternalMapping `yaml:"external,omitempty"`
	Constraints map[string][]string   `yaml:"constraints,omitempty"`
}

// LoadTables returns the built-in tables, overridden per key by the YAML
// rules file at path. An empty path returns the defaults unchanged.
func LoadTables(path string) (*Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading rules file: %w", core.ErrConfig, err)
	}

	var file yamlRulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing rules file %s: %w", core.ErrConfig, path, err)
	}

	for _, rule := range file.Dual {
		if rule.Category == "" || rule.Subcategory == "" {
			return nil, fmt.Errorf("%w: dual rule missing category or subcategory", core.ErrConfig)
		}
		converted := DualRule{
			ForceDisambiguation: rule.ForceDisambiguation,
		}
		if rule.WildcardSubcategory != "" {
			converted.WildcardTarget = &Target{
				Category:    rule.TargetCategory,
				Subcategory: rule.WildcardSubcategory,
			}
		}
		if len(rule.PerType) > 0 {
			converted.PerTypeTarget = make(map[string]Target, len(rule.PerType))
			for productType, subcategory := range rule.PerType {
				converted.PerTypeTarget[productType] = Target{
					Category:    rule.TargetCategory,
					Subcategory: subcategory,
				}
			}
		}
		if len(rule.CategoryOverrides) > 0 {
			converted.PerTypeCategoryOverride = rule.CategoryOverrides
		}
		tables.Dual[core.Pair{Category: rule.Category, Subcategory: rule.Subcategory}] = converted
	}

	for _, rule := range file.Multi {
		if rule.Category == "" || rule.Subcategory == "" {
			return nil, fmt.Errorf("%w: multi rule missing category or subcategory", core.ErrConfig)
		}
		tables.Multi[core.Pair{Category: rule.Category, Subcategory: rule.Subcategory}] = rule.Targets
	}

	for _, mapping := range file.External {
		if mapping.Label == "" {
			return nil, fmt.Errorf("%w: external mapping missing label", core.ErrConfig)
		}
		mappingType := MappingType(strings.ToUpper(mapping.Type))
		switch mappingType {
		case MappingDirect, MappingPartial, MappingMulti:
		default:
			return nil, fmt.Errorf("%w: external mapping %q has unknown type %q", core.ErrConfig, mapping.Label, mapping.Type)
		}
		tables.External[strings.ToLower(mapping.Label)] = ExternalMapping{
			Type:       mappingType,
			Categories: mapping.Categories,
			Mappings:   mapping.Mappings,
		}
	}

	for label, categories := range file.Constraints {
		tables.Constraints[strings.ToLower(label)] = categories
	}

	return tables, nil
}
