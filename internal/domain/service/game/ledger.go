package game

import "bazaar/internal/domain/entity"

// Ledger: инвентарь игрока с фиксированной вместимостью, порядок покупок сохраняется.
type Ledger struct {
	items    []entity.InventoryItem
	capacity int
}

func NewLedger(capacity int) *Ledger {
	return &Ledger{
		items:    make([]entity.InventoryItem, 0, capacity),
		capacity: capacity,
	}
}

// TryAdd ничего не делает и возвращает false, если инвентарь полон.
func (l *Ledger) TryAdd(item entity.InventoryItem) bool {
	if l.Full() {
		return false
	}

	l.items = append(l.items, item)

	return true
}

func (l *Ledger) Remove(index int) (entity.InventoryItem, bool) {
	if index < 0 || index >= len(l.items) {
		return entity.InventoryItem{}, false
	}

	item := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)

	return item, true
}

func (l *Ledger) At(index int) (entity.InventoryItem, bool) {
	if index < 0 || index >= len(l.items) {
		return entity.InventoryItem{}, false
	}

	return l.items[index], true
}

func (l *Ledger) Len() int { return len(l.items) }
func (l *Ledger) Capacity() int { return l.capacity }
func (l *Ledger) Full() bool { return len(l.items) >= l.capacity }

// Items returns a copy.
func (l *Ledger) Items() []entity.InventoryItem {
	out := make([]entity.InventoryItem, len(l.items))
	copy(out, l.items)

	return out
}

func (l *Ledger) Reset() {
	l.items = l.items[:0]
}
