package cart

import (
	"github.com/shopspring/decimal"

	"github.com/ojasshelke/product-detail-mini-cart/pkg/view"
)

// BuildCartPage turns a ledger snapshot into the render contract: per-line
// subtotal, grand total and item count, all money formatted to two decimals.
// Variant ids resolve to display names through variantNames; unknown ids fall
// back to the raw id.
func BuildCartPage(items []LineItem, variantNames map[string]string) view.CartPage {
	vm := view.CartPage{Items: make([]view.CartItem, 0, len(items))}

	total := decimal.Zero
	count := 0

	for _, it := range items {
		unit := decimal.NewFromFloat(it.UnitPrice)
		line := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
		count += it.Quantity

		name := variantNames[it.VariantID]
		if name == "" {
			name = it.VariantID
		}

		vm.Items = append(vm.Items, view.CartItem{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			VariantName: name,
			Title:       it.Title,
			Image:       it.Image,
			Qty:         it.Quantity,
			UnitPrice:   view.FormatAmount(unit),
			Subtotal:    view.FormatAmount(line),
		})
	}

	vm.Total = view.FormatAmount(total)
	vm.Count = count
	vm.Empty = len(vm.Items) == 0
	return vm
}
