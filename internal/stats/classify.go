package stats

import (
	"strings"

	"github.com/terra-clan/techdesk/internal/models"
)

// Category is one of the inventory display categories
type Category string

const (
	CategoryLaptops     Category = "Laptops"
	CategoryPCs         Category = "PCs"
	CategoryPeripherals Category = "Peripherals"
	CategoryComponents  Category = "Components"
	CategoryAccessories Category = "Accessories"
)

type categoryRule struct {
	category Category
	keywords []string
}

// Evaluated in order, first match wins. Spanish forms match the shop's
// legacy stock names.
var categoryRules = []categoryRule{
	{CategoryLaptops, []string{"laptop", "portable", "portátil"}},
	{CategoryPCs, []string{"pc", "computer", "computadora", "desktop"}},
	{CategoryPeripherals, []string{"keyboard", "teclado", "mouse", "monitor"}},
	{CategoryComponents, []string{"ram", "disk", "disco", "processor", "procesador"}},
}

// Classify maps a free-text component name to its display category
func Classify(component string) Category {
	name := strings.ToLower(component)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return CategoryAccessories
}

// InventoryByCategory sums item quantities per category
func InventoryByCategory(items []*models.InventoryItem) models.InventoryBreakdown {
	var b models.InventoryBreakdown
	for _, item := range items {
		if item == nil {
			continue
		}
		switch Classify(item.Component) {
		case CategoryLaptops:
			b.Laptops += item.Quantity
		case CategoryPCs:
			b.PCs += item.Quantity
		case CategoryPeripherals:
			b.Peripherals += item.Quantity
		case CategoryComponents:
			b.Components += item.Quantity
		default:
			b.Accessories += item.Quantity
		}
	}
	return b
}
