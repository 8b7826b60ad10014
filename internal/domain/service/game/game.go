// Package game is the encounter and negotiation engine of one player.
// A Game is not safe for concurrent use; callers serialize access.
package game

import (
	"fmt"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/pricing"
	"bazaar/internal/domain/service/risk"
	"bazaar/internal/domain/value"
	"bazaar/pkg/randx"
)

//nolint:gochecknoglobals
var (
	ErrInapplicable  = domain.ErrInapplicable
	ErrInventoryFull = domain.ErrInventoryFull
)

type Game struct {
	rules   entity.Rules
	rnd     randx.Source
	pricing pricing.Engine
	risk    risk.Resolver
	gen     Generator
	ledger  *Ledger
	neg     Negotiation

	money    int
	running  bool
	gameOver bool
	outcome  *entity.Outcome
	awaiting bool
	stats    entity.Stats
}

func New(rules entity.Rules, rnd randx.Source) *Game {
	return &Game{
		rules:   rules,
		rnd:     rnd,
		pricing: pricing.New(rnd, rules),
		risk:    risk.New(rnd, rules),
		gen:     NewGenerator(rnd, rules),
		ledger:  NewLedger(rules.MaxInventory),
		money:   rules.StartMoney,
	}
}

// Do dispatches a player action.
func (g *Game) Do(a value.Action) ([]entity.Event, error) {
	switch a {
	case value.ActionStart:
		return g.Start()
	case value.ActionScan:
		return g.Scan()
	case value.ActionCounter:
		return g.Counter()
	case value.ActionDeal:
		return g.Deal()
	case value.ActionReport:
		return g.Report()
	case value.ActionReject:
		return g.Reject()
	case value.ActionAdvance:
		return g.Advance()
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInapplicable, a)
	}
}

// Start запускает партию. После окончания игры или при отрицательном балансе
// состояние полностью сбрасывается.
func (g *Game) Start() ([]entity.Event, error) {
	if g.running {
		return nil, fmt.Errorf("%w: game is already running", ErrInapplicable)
	}

	if g.gameOver || g.money < 0 {
		g.money = g.rules.StartMoney
		g.ledger.Reset()
		g.stats = entity.Stats{}
	}

	g.gameOver = false
	g.outcome = nil
	g.running = true
	g.awaiting = false
	g.neg.Close()

	events := []entity.Event{entity.NewEvent(entity.GameStarted{Money: g.money})}

	return append(events, g.present()), nil
}

// Scan списывает стоимость сканирования и раскрывает флаги продавца.
func (g *Game) Scan() ([]entity.Event, error) {
	if err := g.check(value.ActionScan); err != nil {
		return nil, err
	}

	g.money -= g.rules.ScanCost

	revealed := g.neg.Reveal()
	revealed.Money = g.money

	return g.settle(entity.NewEvent(revealed)), nil
}

func (g *Game) Counter() ([]entity.Event, error) {
	if err := g.check(value.ActionCounter); err != nil {
		return nil, err
	}

	enc := g.neg.Encounter()
	offer := g.pricing.CounterStep(enc.Price, enc.Kind)
	g.neg.Propose(offer)

	return []entity.Event{entity.NewEvent(entity.CounterProposed{
		Kind:  enc.Kind,
		Offer: offer,
		Price: enc.Price,
	})}, nil
}

func (g *Game) Deal() ([]entity.Event, error) {
	if err := g.check(value.ActionDeal); err != nil {
		return nil, err
	}

	enc := *g.neg.Encounter()

	// генератор не зовёт продавца к полному инвентарю, проверка держит ёмкость ledger
	if enc.Kind == value.KindSeller && g.ledger.Full() {
		return nil, ErrInventoryFull
	}

	if _, ok := g.ledger.At(enc.InventoryIndex); enc.Kind == value.KindBuyer && !ok {
		return nil, fmt.Errorf("%w: inventory index %d out of range", ErrInapplicable, enc.InventoryIndex)
	}

	accepted, final := g.neg.Decide(g.rnd, g.rules.BaseAcceptChance)
	g.resolve()

	result := entity.DealResult{
		Kind:       enc.Kind,
		Accepted:   accepted,
		FinalPrice: final,
	}

	if !accepted {
		result.Money = g.money
		return []entity.Event{entity.NewEvent(result)}, nil
	}

	g.stats.Deals++

	if enc.Kind == value.KindSeller {
		g.money -= final
		result.Money = g.money

		if g.terminal() {
			return g.settle(entity.NewEvent(result)), nil
		}

		item := entity.InventoryItem{
			PaidPrice:     final,
			OriginalPrice: enc.OrigPrice,
			Key:           enc.Product.Key,
			Flags:         enc.Product.Flags,
		}
		g.ledger.TryAdd(item)
		result.Item = &item

		return []entity.Event{entity.NewEvent(result)}, nil
	}

	item, _ := g.ledger.Remove(enc.InventoryIndex)

	gain, punish := g.risk.ResolveSale(item, final)
	g.money += gain

	if punish.Caught() {
		g.stats.Catches++
	}

	result.Item = &item
	result.Money = g.money
	if item.Flagged() {
		result.Punish = &punish
	}

	return g.settle(entity.NewEvent(result)), nil
}

// Report доступен только продавцу сразу после сканирования.
func (g *Game) Report() ([]entity.Event, error) {
	if err := g.check(value.ActionReport); err != nil {
		return nil, err
	}

	flags := g.neg.Encounter().Flags()
	reward := risk.ReportReward(flags, g.rules)

	g.resolve()
	g.stats.Reports++
	g.money += reward

	return g.settle(entity.NewEvent(entity.ReportResult{
		Reward: reward,
		Flags:  flags,
		Money:  g.money,
	})), nil
}

func (g *Game) Reject() ([]entity.Event, error) {
	if err := g.check(value.ActionReject); err != nil {
		return nil, err
	}

	kind := g.neg.Encounter().Kind
	g.resolve()

	return []entity.Event{entity.NewEvent(entity.RejectResult{Kind: kind})}, nil
}

// Advance: внешний сигнал готовности к следующему клиенту.
func (g *Game) Advance() ([]entity.Event, error) {
	if !g.running || !g.awaiting {
		return nil, fmt.Errorf("%w: no resolved encounter to advance from", ErrInapplicable)
	}

	g.awaiting = false

	return []entity.Event{g.present()}, nil
}

// Allowed lists the actions applicable right now.
func (g *Game) Allowed() []value.Action {
	switch {
	case !g.running:
		return []value.Action{value.ActionStart}
	case g.awaiting:
		return []value.Action{value.ActionAdvance}
	default:
		return g.neg.Allowed()
	}
}

func (g *Game) Money() int { return g.money }
func (g *Game) Running() bool { return g.running }
func (g *Game) GameOver() bool { return g.gameOver }
func (g *Game) Awaiting() bool { return g.awaiting }
func (g *Game) Rules() entity.Rules { return g.rules }

func (g *Game) Outcome() (entity.Outcome, bool) {
	if g.outcome == nil {
		return entity.Outcome{}, false
	}
	return *g.outcome, true
}

func (g *Game) Stats() entity.Stats { return g.stats }

func (g *Game) Snapshot() entity.Snapshot {
	s := entity.Snapshot{
		Money:           g.money,
		Inventory:       g.ledger.Items(),
		Capacity:        g.ledger.Capacity(),
		Scanned:         g.neg.Scanned(),
		Running:         g.running,
		GameOver:        g.gameOver,
		AwaitingAdvance: g.awaiting,
		Stage:           g.neg.Stage(),
		Allowed:         g.Allowed(),
		Stats:           g.stats,
	}

	if g.outcome != nil {
		o := *g.outcome
		s.Outcome = &o
	}

	if p, ok := g.neg.Pending(); ok {
		s.CounterPending = &p
	}

	if enc := g.neg.Encounter(); enc != nil {
		view := &entity.EncounterView{
			Kind:      enc.Kind,
			Key:       enc.Key(),
			Price:     enc.Price,
			OrigPrice: enc.OrigPrice,
		}
		if enc.Kind == value.KindBuyer {
			idx := enc.InventoryIndex
			view.InventoryIndex = &idx
		}
		if g.neg.Scanned() {
			f := enc.Flags()
			view.Flags = &f
		}
		s.Encounter = view
	}

	return s
}

func (g *Game) check(a value.Action) error {
	if !g.running || g.awaiting || !g.neg.Active() {
		return fmt.Errorf("%w: no customer present", ErrInapplicable)
	}

	if !g.neg.Can(a) {
		return fmt.Errorf("%w: %s is not allowed at stage %s", ErrInapplicable, a, g.neg.Stage())
	}

	return nil
}

func (g *Game) present() entity.Event {
	enc := g.gen.Next(g.ledger)
	g.neg.Open(enc)
	g.stats.Encounters++

	ev := entity.EncounterPresented{
		Kind:  enc.Kind,
		Key:   enc.Key(),
		Price: enc.Price,
	}
	if enc.Kind == value.KindBuyer {
		idx := enc.InventoryIndex
		ev.InventoryIndex = &idx
		ev.Item = enc.Item
	}

	return entity.NewEvent(ev)
}

// resolve закрывает встречу и ждёт Advance.
func (g *Game) resolve() {
	g.neg.Close()
	g.awaiting = true
}

func (g *Game) terminal() bool {
	return g.money < 0 || g.money >= g.rules.WinMoney
}

// settle проверяет пороги после изменения баланса.
func (g *Game) settle(events ...entity.Event) []entity.Event {
	if !g.terminal() {
		return events
	}

	won := g.money >= g.rules.WinMoney

	g.neg.Close()
	g.running = false
	g.gameOver = true
	g.awaiting = false
	g.outcome = &entity.Outcome{Won: won, FinalMoney: g.money}

	return append(events, entity.NewEvent(entity.GameOver{Won: won, FinalMoney: g.money}))
}
