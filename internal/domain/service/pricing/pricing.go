package pricing

import (
	"math"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/value"
	"bazaar/pkg/randx"
)

// Engine считает цены встреч. Все случайные величины берутся из одного источника.
type Engine struct {
	rnd   randx.Source
	rules entity.Rules
}

func New(rnd randx.Source, rules entity.Rules) Engine {
	return Engine{rnd: rnd, rules: rules}
}

// SellerAsk возвращает запрос продавца round(base × U(ask_spread)), не меньше 1.
func (e Engine) SellerAsk(p entity.Product) int {
	return atLeastOne(float64(p.Base) * randx.Uniform(e.rnd, e.rules.AskSpread.Min, e.rules.AskSpread.Max))
}

// BuyerOffer: предложение покупателя от опорной цены предмета.
func (e Engine) BuyerOffer(item entity.InventoryItem) int {
	return atLeastOne(float64(item.Basis()) * randx.Uniform(e.rnd, e.rules.OfferSpread.Min, e.rules.OfferSpread.Max))
}

// CounterStep returns the player's next proposal: lower than price when
// buying from a seller, higher when selling to a buyer.
func (e Engine) CounterStep(price int, kind value.Kind) int {
	pct := float64(e.rnd.IntRange(e.rules.CounterPercent.Min, e.rules.CounterPercent.Max)) / 100

	if kind == value.KindBuyer {
		return atLeastOne(float64(price) * (1 + pct))
	}

	return atLeastOne(float64(price) * (1 - pct))
}

// RevealAdjusted: цена после сканирования. Опасный товар перекрывает подделку.
func RevealAdjusted(origPrice int, flags value.Flags) int {
	switch {
	case flags.Danger:
		return atLeastOne(float64(origPrice) / 3)
	case flags.Fake:
		return atLeastOne(float64(origPrice) * 2 / 3)
	default:
		return max(1, origPrice)
	}
}

// AcceptChance: шанс, что контрагент примет встречное предложение.
func AcceptChance(base float64, pending, price int) float64 {
	delta := math.Abs(float64(pending-price)) / float64(max(1, price))

	return math.Min(1, base+delta)
}

func atLeastOne(x float64) int {
	return max(1, int(math.Round(x)))
}
