package rules

import "github.com/poiesic/categorit/core"

// DefaultTables returns the built-in curated rule tables. Callers may
// mutate the result before validation (the YAML loader does); each call
// returns a fresh copy.
func DefaultTables() *Tables {
	return &Tables{
		Dual:        defaultDualRules(),
		Multi:       map[core.Pair][]Target{},
		External:    defaultExternalMappings(),
		Constraints: defaultConstraints(),
	}
}

func defaultDualRules() map[core.Pair]DualRule {
	return map[core.Pair]DualRule{
		{Category: "Beverages", Subcategory: "Milk"}: {
			PerTypeTarget: map[string]Target{
				"Plant-Based Milk":  {Category: "Dairy & Eggs", Subcategory: "Plant-Based Milk"},
				"Plain Milk":        {Category: "Dairy & Eggs", Subcategory: "Milk"},
				"Lactose-Free Milk": {Category: "Dairy & Eggs", Subcategory: "Milk"},
				"Flavored Milk":     {Category: "Dairy & Eggs", Subcategory: "Milk"},
			},
		},
		{Category: "Beverages", Subcategory: "Mixers & Non-Alcoholic Drinks"}: {
			PerTypeTarget: map[string]Target{
				"Non-Alcoholic Wine": {Category: "Wine", Subcategory: "Non-Alcoholic Wines"},
				"Non-Alcoholic Beer": {Category: "Wine", Subcategory: "Non-Alcoholic Beers"},
			},
			PerTypeCategoryOverride: map[string]string{
				"Non-Alcoholic Beer": "Beer",
			},
		},
		{Category: "Dairy & Eggs", Subcategory: "Plant-Based Milk"}: {
			WildcardTarget: &Target{Category: "Beverages", Subcategory: "Milk"},
		},
		{Category: "Dairy & Eggs", Subcategory: "Milk"}: {
			WildcardTarget: &Target{Category: "Beverages", Subcategory: "Milk"},
		},
		{Category: "Canned Goods & Soups", Subcategory: "Canned Tomatoes"}: {
			WildcardTarget: &Target{Category: "Dry Goods & Pasta", Subcategory: "Canned Tomatoes"},
		},
		{Category: "Dry Goods & Pasta", Subcategory: "Canned Tomatoes"}: {
			WildcardTarget: &Target{Category: "Canned Goods & Soups", Subcategory: "Canned Tomatoes"},
		},
		// Pizza Sauce intentionally has no entry: it stays single-category.
		{Category: "Dry Goods & Pasta", Subcategory: "Pasta & Pizza Sauces"}: {
			PerTypeTarget: map[string]Target{
				"Tomato Based Sauces": {Category: "Condiments & Sauces", Subcategory: "Pasta Sauces"},
				"Alfredo Sauce":       {Category: "Condiments & Sauces", Subcategory: "Pasta Sauces"},
				"Pesto":               {Category: "Condiments & Sauces", Subcategory: "Pasta Sauces"},
			},
		},
		{Category: "Condiments & Sauces", Subcategory: "Pasta Sauces"}: {
			WildcardTarget: &Target{Category: "Dry Goods & Pasta", Subcategory: "Pasta & Pizza Sauces"},
		},
		{Category: "Condiments & Sauces", Subcategory: "Salsa"}: {
			WildcardTarget: &Target{Category: "Snacks & Candy", Subcategory: "Dips"},
		},
		{Category: "Snacks & Candy", Subcategory: "Dips"}: {
			PerTypeTarget: map[string]Target{
				"Salsa":       {Category: "Condiments & Sauces", Subcategory: "Salsa"},
				"Hummus":      {Category: "Condiments & Sauces", Subcategory: "Olives, Dips, & Spreads"},
				"Guacamole":   {Category: "Condiments & Sauces", Subcategory: "Olives, Dips, & Spreads"},
				"Cheese Dips": {Category: "Condiments & Sauces", Subcategory: "Olives, Dips, & Spreads"},
			},
			PerTypeCategoryOverride: map[string]string{
				"Hummus":      "Deli",
				"Guacamole":   "Deli",
				"Cheese Dips": "Deli",
			},
		},
		{Category: "Liquor", Subcategory: "Canned Cocktails"}: {
			WildcardTarget: &Target{Category: "Hard Beverages", Subcategory: "Ready-to-Drink"},
		},
		{Category: "Hard Beverages", Subcategory: "Ready-to-Drink"}: {
			PerTypeTarget: map[string]Target{
				"Canned Cocktails":    {Category: "Liquor", Subcategory: "Canned Cocktails"},
				"Pre-Mixed Cocktails": {Category: "Liquor", Subcategory: "Canned Cocktails"},
			},
		},
		{Category: "Meat & Seafood", Subcategory: "Plant-Based Meat"}: {
			PerTypeTarget: map[string]Target{
				"Tofu": {Category: "Deli", Subcategory: "Tofu & Meat Alternatives"},
			},
		},
		{Category: "Deli", Subcategory: "Tofu & Meat Alternatives"}: {
			PerTypeTarget: map[string]Target{
				"Tofu": {Category: "Meat & Seafood", Subcategory: "Plant-Based Meat"},
			},
		},
		{Category: "Deli", Subcategory: "Olives, Dips, & Spreads"}: {
			PerTypeTarget: map[string]Target{
				"Hummus":      {Category: "Snacks & Candy", Subcategory: "Dips"},
				"Guacamole":   {Category: "Snacks & Candy", Subcategory: "Dips"},
				"Cheese Dips": {Category: "Snacks & Candy", Subcategory: "Dips"},
			},
		},
		{Category: "Wine", Subcategory: "Non-Alcoholic Wines"}: {
			WildcardTarget: &Target{Category: "Beverages", Subcategory: "Mixers & Non-Alcoholic Drinks"},
		},
		{Category: "Beer", Subcategory: "Non-Alcoholic Beers"}: {
			WildcardTarget: &Target{Category: "Beverages", Subcategory: "Mixers & Non-Alcoholic Drinks"},
		},
	}
}

func defaultExternalMappings() map[string]ExternalMapping {
	return map[string]ExternalMapping{
		"produce": {Type: MappingDirect, Categories: []string{"Produce"}},
		"beverages": {Type: MappingMulti,
			Categories: []string{"Beverages", "Hard Beverages"}},
		"snacks": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Snacks & Candy"},
		}},
		"candy": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Snacks & Candy", Subcategory: "Chocolate & Candy"},
		}},
		"meat & seafood": {Type: MappingMulti,
			Categories: []string{"Meat & Seafood", "Canned Goods & Soups", "Prepared Foods", "Frozen"}},
		"frozen": {Type: MappingDirect, Categories: []string{"Frozen"}},
		"dairy": {Type: MappingMulti,
			Categories: []string{"Dairy & Eggs", "Beverages", "Baking Essentials", "Snacks & Candy"}},
		"deli": {Type: MappingMulti,
			Categories: []string{"Prepared Foods", "Snacks & Candy", "Condiments & Sauces"}},
		"floral":            {Type: MappingDirect, Categories: []string{"Floral"}},
		"cleaning products": {Type: MappingDirect, Categories: []string{"Household"}},
		"bakery": {Type: MappingMulti,
			Categories: []string{"Bakery", "Breakfast", "Snacks & Candy"}},
		"canned & packaged": {Type: MappingMulti,
			Categories: []string{"Canned Goods & Soups", "Dry Goods & Pasta", "Condiments & Sauces", "Prepared Foods"}},
		"pet care": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Pets"},
		}},
		"breakfast": {Type: MappingMulti,
			Categories: []string{"Breakfast", "Frozen", "Prepared Foods", "Bakery", "Beverages"}},
		"condiment & sauces": {Type: MappingMulti,
			Categories: []string{"Condiments & Sauces", "Oils, Vinegars, & Spices", "Snacks & Candy"}},
		"pasta, sauces, grain": {Type: MappingDirect, Categories: []string{"Dry Goods & Pasta"}},
		"personal care":        {Type: MappingDirect, Categories: []string{"Personal Care"}},
		"health": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Health Care", Subcategory: "Cold, Flu & Allergy"},
			{Category: "Health Care"},
			{Category: "Snacks & Candy"},
		}},
		"baking goods": {Type: MappingMulti,
			Categories: []string{"Baking Essentials", "Oils, Vinegars, & Spices", "Snacks & Candy", "Beverages"}},
		"kitchen": {Type: MappingDirect, Categories: []string{"Kitchen Supplies"}},
		"party": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Party & Gift Supplies"},
		}},
		"office, school, & crafts": {Type: MappingDirect, Categories: []string{"Office & Craft"}},
		"baby": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Baby"},
			{Category: "Snacks & Candy", Subcategory: "Dried Fruit & Fruit Snacks"},
			{Category: "Personal Care", Subcategory: "Body Care"},
			{Category: "Beverages"},
		}},
		"international": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Oils, Vinegars, & Spices"},
			{Category: "Condiments & Sauces"},
			{Category: "Produce"},
		}},
		"adult beverage": {Type: MappingDirect,
			Categories: []string{"Wine", "Beer", "Liquor", "Hard Beverages", "Beverages"}},
		"home decor": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Household", Subcategory: "Candles & Air Fresheners"},
			{Category: "Miscellaneous", Subcategory: "Home & Garden"},
		}},
		"automotive": {Type: MappingPartial, Mappings: []PartialMapping{
			{Category: "Miscellaneous", Subcategory: "Auto"},
		}},
		"beauty": {Type: MappingDirect, Categories: []string{"Personal Care"}},
	}
}

func defaultConstraints() map[string][]string {
	return map[string][]string{
		"produce":           {"Produce"},
		"snacks":            {"Snacks & Candy", "Prepared Foods", "Breakfast"},
		"canned & packaged": {"Canned Goods & Soups", "Dry Goods & Pasta", "Condiments & Sauces", "Prepared Foods"},
		"meat & seafood":    {"Meat & Seafood", "Canned Goods & Soups", "Prepared Foods", "Frozen"},
		"frozen":            {"Frozen"},
		"baking goods":      {"Baking Essentials", "Oils, Vinegars, & Spices", "Snacks & Candy", "Beverages"},
		"beverages":         {"Beverages", "Hard Beverages"},
		"dairy":             {"Dairy & Eggs", "Beverages", "Baking Essentials", "Snacks & Candy"},
		"candy":             {"Snacks & Candy"},
		"bakery":            {"Bakery", "Breakfast", "Snacks & Candy"},
		"baby":              {"Baby", "Snacks & Candy", "Personal Care", "Beverages"},
		"deli":              {"Deli", "Prepared Foods", "Bakery", "Snacks & Candy", "Condiments & Sauces"},
		"cleaning products": {"Household"},
		"breakfast":         {"Breakfast", "Bakery", "Frozen", "Prepared Foods", "Beverages"},
		"adult beverage":    {"Wine", "Beer", "Liquor", "Hard Beverages", "Beverages"},
		"pet care":          {"Pets"},
		"personal care":     {"Personal Care"},
		"home decor":        {"Household", "Miscellaneous"},
		"health":            {"Health Care", "Snacks & Candy"},
		"kitchen":           {"Kitchen Supplies"},
		"beauty":            {"Personal Care"},
		"garden & patio":    {"Miscellaneous", "Household"},
		"electronics":       {"Miscellaneous"},
		"condiment & sauces": {
			"Condiments & Sauces", "Oils, Vinegars, & Spices", "Snacks & Candy"},
		"floral": {"Floral"},
		"pasta, sauces, grain": {
			"Dry Goods & Pasta", "Condiments & Sauces", "Canned Goods & Soups"},
		"party":                    {"Party & Gift Supplies"},
		"office, school, & crafts": {"Office & Craft"},
		"apparel":                  {"Miscellaneous"},
		"entertainment":            {"Miscellaneous"},
		"automotive":               {"Miscellaneous"},
		"sporting goods":           {"Miscellaneous"},
		"hardware":                 {"Miscellaneous"},
		"bed & bath":               {"Miscellaneous"},
		"international": {
			"Oils, Vinegars, & Spices", "Condiments & Sauces", "Produce", "Dry Goods & Pasta"},
	}
}
