// Package rules holds the static decision tables of the categorization
// pipeline and the components that apply them.
//
// Three tables live here. The dual/multi tables decide whether a resolved
// taxonomy leaf implies additional leaves elsewhere in the tree (oat milk is
// both a beverage and a dairy-aisle item). The external mapping table
// translates coarse upstream catalog labels into taxonomy categories and
// pairs. The constraint table is a thinner variant of the external table
// used only to pre-filter semantic retrieval.
//
// All tables ship with curated built-in defaults and may be overridden per
// key from a YAML file. Tables are validated against the taxonomy at load:
// a rule pointing at a nonexistent pair is dropped with a warning, never
// applied.
package rules
