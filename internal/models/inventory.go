package models

// ItemCondition describes the physical state of stocked items
type ItemCondition string

const (
	ConditionNew  ItemCondition = "NEW"
	ConditionGood ItemCondition = "GOOD"
	ConditionFair ItemCondition = "FAIR"
	ConditionPoor ItemCondition = "POOR"
)

// Valid reports whether c is a known condition
func (c ItemCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// InventoryItem is a stocked component. Quantity is never negative.
type InventoryItem struct {
	ID        int64         `json:"id"`
	Component string        `json:"component" validate:"required,max=100"`
	Quantity  int           `json:"quantity" validate:"gte=0"`
	Condition ItemCondition `json:"condition" validate:"oneof=NEW GOOD FAIR POOR"`
}
