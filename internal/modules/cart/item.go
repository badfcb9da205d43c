package cart

// LineItem is one (product, variant) entry with a quantity and the display
// fields cached at first add. JSON tags match the widget's localStorage record,
// so a cart saved by the browser hydrates here unchanged.
type LineItem struct {
	ProductID string  `json:"productId"`
	VariantID string  `json:"variantId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"qty"`
	Image     string  `json:"image"`
}

type itemKey struct {
	productID string
	variantID string
}

func (li LineItem) key() itemKey {
	return itemKey{productID: li.ProductID, variantID: li.VariantID}
}

// Entry is the input to AddItem. ProductID and VariantID are required; the
// rest default (title "Product", price 0, qty 1, image empty).
type Entry struct {
	ProductID string
	VariantID string
	Title     string
	UnitPrice float64
	Quantity  int
	Image     string
}

func (e Entry) toItem() LineItem {
	li := LineItem{
		ProductID: e.ProductID,
		VariantID: e.VariantID,
		Title:     e.Title,
		UnitPrice: e.UnitPrice,
		Quantity:  e.Quantity,
		Image:     e.Image,
	}
	if li.Title == "" {
		li.Title = "Product"
	}
	if li.UnitPrice < 0 {
		li.UnitPrice = 0
	}
	if li.Quantity < 1 {
		li.Quantity = 1
	}
	return li
}
