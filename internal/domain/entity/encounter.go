package entity

import "bazaar/internal/domain/value"

// Encounter: активная встреча. Для продавца заполнен Product,
// для покупателя Item и InventoryIndex.
type Encounter struct {
	Kind           value.Kind     `json:"kind"`
	Product        *Product       `json:"product,omitempty"`
	Item           *InventoryItem `json:"item,omitempty"`
	Price          int            `json:"price"`
	OrigPrice      int            `json:"origPrice"`
	InventoryIndex int            `json:"inventoryIndex"`
}

// Flags of the goods on the table, whichever side brought them.
func (e *Encounter) Flags() value.Flags {
	if e.Item != nil {
		return e.Item.Flags
	}
	if e.Product != nil {
		return e.Product.Flags
	}
	return value.Flags{}
}

// Key of the goods on the table.
func (e *Encounter) Key() string {
	if e.Item != nil {
		return e.Item.Key
	}
	if e.Product != nil {
		return e.Product.Key
	}
	return ""
}
