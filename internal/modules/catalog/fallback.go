package catalog

// builtinProduct is the last hop of the fallback chain, so the storefront
// still renders something when both the remote API and the bundled file are
// gone. Keep it in sync with data/product.json.
var builtinProduct = Product{
	ID:          "prod-001",
	Title:       "Aurora Wireless Headphones",
	Price:       149.99,
	Description: "Over-ear wireless headphones with active noise cancellation and 30-hour battery life.",
	Images:      []string{},
	Variants: []Variant{
		{ID: "v-black", Name: "Midnight Black"},
		{ID: "v-silver", Name: "Arctic Silver"},
		{ID: "v-blue", Name: "Deep Sea Blue"},
	},
}
