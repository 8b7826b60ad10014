package game

import (
	"github.com/samber/lo"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/value"
	"bazaar/pkg/randx"
)

// Catalog: статическая таблица товаров.
type Catalog struct {
	entries []entity.CatalogEntry
}

func NewCatalog(entries []entity.CatalogEntry) Catalog {
	return Catalog{entries: entries}
}

func (c Catalog) Keys() []string {
	return lo.Map(c.entries, func(e entity.CatalogEntry, _ int) string { return e.Key })
}

func (c Catalog) Base(key string) (int, bool) {
	e, ok := lo.Find(c.entries, func(e entity.CatalogEntry) bool { return e.Key == key })
	return e.Base, ok
}

// Draw выбирает товар равновероятно, затем разыгрывает подделку и опасность.
func (c Catalog) Draw(rnd randx.Source, rules entity.Rules) entity.Product {
	e := c.entries[rnd.IntRange(0, len(c.entries)-1)]

	return entity.Product{
		Key:  e.Key,
		Base: e.Base,
		Flags: value.Flags{
			Fake:   rnd.Float64() < rules.FakeChance,
			Danger: rnd.Float64() < rules.DangerChance,
		},
	}
}
