package rules

import "github.com/poiesic/categorit/core"

// Target is the (category, subcategory) destination of a dual or multi rule.
type Target struct {
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
}

// DualRule decides the secondary leaf for products resolved under one
// (category, subcategory) pair. Per-type entries win over the wildcard;
// PerTypeCategoryOverride redirects the target category for specific
// product types (non-alcoholic beer goes to Beer, not Wine).
type DualRule struct {
	WildcardTarget          *Target
	PerTypeTarget           map[string]Target
	PerTypeCategoryOverride map[string]string
	ForceDisambiguation     bool
}

// MappingType discriminates external mapping table entries.
type MappingType string

const (
	MappingDirect  MappingType = "DIRECT"
	MappingPartial MappingType = "PARTIAL"
	MappingMulti   MappingType = "MULTI"
)

// PartialMapping is one PARTIAL table row. An empty Subcategory contributes
// a whole category, a non-empty one contributes a pair.
type PartialMapping struct {
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory,omitempty"`
}

// ExternalMapping translates one coarse upstream label. DIRECT and MULTI
// carry Categories; PARTIAL carries Mappings.
type ExternalMapping struct {
	Type       MappingType
	Categories []string
	Mappings   []PartialMapping
}

// Tables bundles every rule table. Read-only after load.
type Tables struct {
	// Dual maps a resolved pair to its dual-categorization rule.
	Dual map[core.Pair]DualRule

	// Multi maps a resolved pair to several secondary targets. Independent
	// of Dual and takes precedence when both exist for a pair.
	Multi map[core.Pair][]Target

	// External maps lowercased upstream labels to taxonomy categories and
	// pairs (DIRECT / PARTIAL / MULTI).
	External map[string]ExternalMapping

	// Constraints maps lowercased upstream labels to the taxonomy
	// categories retrieval may search under.
	Constraints map[string][]string
}
