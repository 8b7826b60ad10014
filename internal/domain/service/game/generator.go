package game

import (
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/pricing"
	"bazaar/internal/domain/value"
	"bazaar/pkg/randx"
)

// Generator выбирает следующего клиента по состоянию инвентаря.
type Generator struct {
	rnd     randx.Source
	rules   entity.Rules
	pricing pricing.Engine
	catalog Catalog
}

func NewGenerator(rnd randx.Source, rules entity.Rules) Generator {
	return Generator{
		rnd:     rnd,
		rules:   rules,
		pricing: pricing.New(rnd, rules),
		catalog: NewCatalog(rules.Catalog),
	}
}

// Kind выбирает встречу. Пустой инвентарь даёт продавца, полный даёт покупателя, иначе монетка.
func (g Generator) Kind(l *Ledger) value.Kind {
	switch {
	case l.Len() == 0:
		return value.KindSeller
	case l.Full():
		return value.KindBuyer
	case g.rnd.Float64() < 1-g.rules.BuyerChance:
		return value.KindSeller
	default:
		return value.KindBuyer
	}
}

func (g Generator) Next(l *Ledger) entity.Encounter {
	if g.Kind(l) == value.KindBuyer {
		return g.buyer(l)
	}
	return g.seller()
}

func (g Generator) seller() entity.Encounter {
	p := g.catalog.Draw(g.rnd, g.rules)
	ask := g.pricing.SellerAsk(p)

	return entity.Encounter{
		Kind:           value.KindSeller,
		Product:        &p,
		Price:          ask,
		OrigPrice:      ask,
		InventoryIndex: -1,
	}
}

func (g Generator) buyer(l *Ledger) entity.Encounter {
	idx := g.rnd.IntRange(0, l.Len()-1)
	item, _ := l.At(idx)
	offer := g.pricing.BuyerOffer(item)

	return entity.Encounter{
		Kind:           value.KindBuyer,
		Item:           &item,
		Price:          offer,
		OrigPrice:      offer,
		InventoryIndex: idx,
	}
}
