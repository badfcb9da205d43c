package view

type CartItem struct {
	ProductID   string `json:"productId"`
	VariantID   string `json:"variantId"`
	VariantName string `json:"variantName"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	Qty         int    `json:"qty"`

	UnitPrice string `json:"unitPrice"` // "$100.00"
	Subtotal  string `json:"subtotal"`
}

type CartPage struct {
	Items []CartItem `json:"items"`
	Total string     `json:"total"`
	Count int        `json:"count"` // sum of quantities
	Empty bool       `json:"empty"`
}
