package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terra-clan/techdesk/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		component string
		want      Category
	}{
		{"Gaming Laptop Mouse", CategoryLaptops},
		{"Laptop Lenovo ThinkPad", CategoryLaptops},
		{"Portátil HP", CategoryLaptops},
		{"Portable SSD", CategoryLaptops},
		{"PC Gamer", CategoryPCs},
		{"Computadora de escritorio", CategoryPCs},
		{"Desktop tower", CategoryPCs},
		{"Desktop keyboard", CategoryPCs},
		{"Teclado mecánico", CategoryPeripherals},
		{"Wireless MOUSE", CategoryPeripherals},
		{"Monitor 27in", CategoryPeripherals},
		{"RAM DDR4 16GB", CategoryComponents},
		{"Disco SSD 1TB", CategoryComponents},
		{"Hard disk", CategoryComponents},
		{"Procesador Intel i7", CategoryComponents},
		{"Cable HDMI", CategoryAccessories},
		{"", CategoryAccessories},
	}

	for _, tt := range tests {
		t.Run(tt.component, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.component))
		})
	}
}

func TestInventoryByCategory(t *testing.T) {
	items := []*models.InventoryItem{
		{Component: "Gaming Laptop Mouse", Quantity: 2},
		{Component: "Laptop Asus", Quantity: 3},
		{Component: "PC Oficina", Quantity: 4},
		{Component: "Mouse óptico", Quantity: 10},
		{Component: "Memoria RAM", Quantity: 8},
		{Component: "Cargador universal", Quantity: 6},
		nil,
	}

	got := InventoryByCategory(items)

	assert.Equal(t, models.InventoryBreakdown{
		Laptops:     5,
		PCs:         4,
		Peripherals: 10,
		Components:  8,
		Accessories: 6,
	}, got)

	summary := Summarize(nil, nil, nil, items)
	assert.Equal(t, summary.TotalInventory, got.Total())
}
