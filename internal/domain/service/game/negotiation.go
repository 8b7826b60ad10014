package game

import (
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/pricing"
	"bazaar/internal/domain/value"
	"bazaar/pkg/randx"
)

// Negotiation is the state machine of one encounter. The zero value has no
// encounter.
type Negotiation struct {
	enc     *entity.Encounter
	stage   value.Stage
	scanned bool
	pending *int
}

//nolint:gochecknoglobals
var allowed = map[value.Kind]map[value.Stage][]value.Action{
	value.KindSeller: {
		value.StagePresented:   {value.ActionScan, value.ActionReject},
		value.StageScanned:     {value.ActionCounter, value.ActionReject, value.ActionReport, value.ActionDeal},
		value.StageNegotiating: {value.ActionCounter, value.ActionReject, value.ActionDeal},
	},
	value.KindBuyer: {
		value.StagePresented:   {value.ActionCounter, value.ActionReject, value.ActionDeal},
		value.StageNegotiating: {value.ActionCounter, value.ActionReject, value.ActionDeal},
	},
}

// Open начинает переговоры. Покупатель считается уже просканированным.
func (n *Negotiation) Open(enc entity.Encounter) {
	n.enc = &enc
	n.stage = value.StagePresented
	n.scanned = enc.Kind == value.KindBuyer
	n.pending = nil
}

// Close снимает встречу вместе со встречным предложением.
func (n *Negotiation) Close() {
	n.enc = nil
	n.stage = value.StageNone
	n.scanned = false
	n.pending = nil
}

func (n *Negotiation) Active() bool {
	return n.enc != nil
}

func (n *Negotiation) Encounter() *entity.Encounter {
	return n.enc
}

func (n *Negotiation) Stage() value.Stage {
	if n.enc == nil {
		return value.StageNone
	}
	return n.stage
}

func (n *Negotiation) Scanned() bool {
	return n.scanned
}

// Pending: текущее встречное предложение игрока, если оно есть.
func (n *Negotiation) Pending() (int, bool) {
	if n.pending == nil {
		return 0, false
	}
	return *n.pending, true
}

func (n *Negotiation) Allowed() []value.Action {
	if n.enc == nil {
		return nil
	}
	return allowed[n.enc.Kind][n.stage]
}

func (n *Negotiation) Can(a value.Action) bool {
	for _, x := range n.Allowed() {
		if x == a {
			return true
		}
	}
	return false
}

// Reveal применяет скидку после первого сканирования продавца.
func (n *Negotiation) Reveal() entity.PriceRevealed {
	n.enc.Price = pricing.RevealAdjusted(n.enc.OrigPrice, n.enc.Flags())
	n.scanned = true
	n.stage = value.StageScanned

	return entity.PriceRevealed{
		NewPrice:  n.enc.Price,
		OrigPrice: n.enc.OrigPrice,
		Flags:     n.enc.Flags(),
	}
}

// Propose заменяет встречное предложение. Повторять можно сколько угодно.
func (n *Negotiation) Propose(offer int) {
	n.pending = &offer
	n.stage = value.StageNegotiating
}

// Decide разыгрывает согласие контрагента. Без встречного предложения сделка
// проходит всегда и по текущей цене.
func (n *Negotiation) Decide(rnd randx.Source, baseAccept float64) (bool, int) {
	if n.pending == nil {
		return true, n.enc.Price
	}

	chance := pricing.AcceptChance(baseAccept, *n.pending, n.enc.Price)

	return rnd.Float64() < chance, *n.pending
}
