package entity

import "bazaar/internal/domain/value"

// Product: товар продавца. Неизменяем после генерации встречи.
type Product struct {
	Key  string `json:"key"`
	Base int    `json:"base"`
	value.Flags
}

// InventoryItem: купленный товар. PaidPrice: итоговая цена сделки,
// OriginalPrice: запрос продавца до сканирования.
type InventoryItem struct {
	PaidPrice     int    `json:"paidPrice"`
	OriginalPrice int    `json:"originalPrice"`
	Key           string `json:"key"`
	value.Flags
}

// Basis: опорная цена для предложений покупателей и штрафов.
func (i InventoryItem) Basis() int {
	if i.Flagged() {
		return i.OriginalPrice
	}
	return i.PaidPrice
}
