package catalog

// PlaceholderImage substitutes for products shipped without images; the widget
// also falls back to it when an image URL is broken at render time.
const PlaceholderImage = "https://via.placeholder.com/800x600?text=No+Image"

type Variant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is the data contract consumed by the widget: GET /api/products
// returns exactly this shape.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Variants    []Variant `json:"variants"`
}

func (p *Product) normalize() {
	if len(p.Images) == 0 {
		p.Images = []string{PlaceholderImage}
	}
}

// VariantNames is the id -> display-name map handed to the cart view builder.
func (p Product) VariantNames() map[string]string {
	names := make(map[string]string, len(p.Variants))
	for _, v := range p.Variants {
		names[v.ID] = v.Name
	}
	return names
}
