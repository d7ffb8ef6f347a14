package selection

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/categorit/core"
)

// Attributes carries the optional product context included in prompts.
type Attributes struct {
	Brand         string
	Storage       string
	CountryOrigin string
}

type pairEntry struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type typeEntry struct {
	ProductType string `json:"product_type"`
}

func pairPrompt(text string, attrs Attributes, candidates []core.Pair) string {
	entries := make([]pairEntry, len(candidates))
	for i, pair := range candidates {
		entries[i] = pairEntry{Category: pair.Category, Subcategory: pair.Subcategory}
	}
	candidateJSON, _ := json.MarshalIndent(entries, "", "  ")

	return fmt.Sprintf(`SELECT ONE category-subcategory pair for this product: %q

PRODUCT DETAILS:
- Product: %q
- Brand: %q
- Storage: %q
- Country Origin: %q

REQUIREMENTS:
- Select ONE category-subcategory pair that best matches this product
- Copy EXACTLY from candidates - no inventing new subcategories
- Return ONLY a JSON with category and subcategory (no product_type yet)

Example response format:
{
"category": "[EXACT category from candidates]",
"subcategory": "[EXACT subcategory from candidates]"
}

CANDIDATES (category-subcategory pairs only):
%s

CRITICAL: CHOOSE ONLY FROM THE EXACT CANDIDATES ABOVE.
DO NOT CREATE NEW CATEGORIES OR SUBCATEGORIES.
COPY AND PASTE FROM THE LIST ONLY.
`, text, text, attrs.Brand, orUnknown(attrs.Storage), orUnknown(attrs.CountryOrigin), candidateJSON)
}

func typePrompt(text string, attrs Attributes, category, subcategory string, availableTypes []string) string {
	entries := make([]typeEntry, len(availableTypes))
	for i, productType := range availableTypes {
		entries[i] = typeEntry{ProductType: productType}
	}
	candidateJSON, _ := json.MarshalIndent(entries, "", "  ")

	return fmt.Sprintf(`SELECT ONE product type for %q in %s -> %s

PRODUCT DETAILS:
- Product: %q
- Brand: %q
- Already categorized as: %s -> %s

REQUIREMENTS:
- Select ONE product type that best fits this product within its category-subcategory
- Copy exact product_type text (no modifications)
- Return ONLY a JSON with category, subcategory, and product_type

Example response format:
{
"category": %q,
"subcategory": %q,
"product_type": "[EXACT product_type from candidates]"
}

PRODUCT TYPE CANDIDATES:
%s

SELECT ONE PRODUCT TYPE ONLY. Copy exactly from candidates.
`, text, category, subcategory, text, attrs.Brand, category, subcategory,
		category, subcategory, candidateJSON)
}

func reducedTypePrompt(text, category, subcategory string, availableTypes []string) string {
	candidateJSON, _ := json.MarshalIndent(availableTypes, "", "  ")

	return fmt.Sprintf(`CLASSIFY THIS PRODUCT: %q

REQUIREMENTS:
- Select ONE product type from the list below for this product in %s -> %s
- Copy EXACTLY from the product types list - no inventing new types
- Return ONLY a JSON object with ONLY a "product_type" field
- DO NOT include markdown code blocks, explanations, justifications, or additional text
- DO NOT start your response with "="

AVAILABLE PRODUCT TYPES:
%s

RETURN FORMAT (EXACTLY THIS FORMAT AND NOTHING ELSE):
{
"product_type": "[EXACT product type from the list]"
}

CRITICAL: YOUR ENTIRE RESPONSE MUST BE VALID JSON. NO EXPLANATIONS, NO MARKDOWN.
`, text, category, subcategory, candidateJSON)
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}
