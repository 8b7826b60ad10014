package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/game"
	"bazaar/internal/domain/value"
	"bazaar/pkg/randx"
	"bazaar/pkg/tests"
)

// Черновики бросков для продавца: индекс каталога, подделка, опасность, множитель цены.
const (
	firstProduct = 0.0
	noFlag       = 0.9
	withFlag     = 0.1
	neutralAsk   = 0.5
	neutralOffer = 3.0 / 7.0
	toBuyer      = 0.7
	firstItem    = 0.0
)

func cleanSeller() []float64 { return []float64{firstProduct, noFlag, noFlag, neutralAsk} }

func fakeSeller() []float64 { return []float64{firstProduct, withFlag, noFlag, neutralAsk} }

func start(t *testing.T, rules entity.Rules, rnd *tests.ScriptedRandomizer) *game.Game {
	t.Helper()

	g := game.New(rules, rnd)
	_, err := g.Start()
	require.NoError(t, err)

	return g
}

func lastEvent(events []entity.Event) entity.Event {
	return events[len(events)-1]
}

func TestScenarioBuyThenSell(t *testing.T) {
	rq := require.New(t)

	rnd := tests.NewScriptedRandomizer(cleanSeller()...)
	g := start(t, entity.DefaultRules(), rnd)

	snap := g.Snapshot()
	rq.Equal(100, snap.Money)
	rq.Equal("product1", snap.Encounter.Key)
	rq.Equal(60, snap.Encounter.Price)
	rq.Nil(snap.Encounter.Flags)
	rq.Equal([]value.Action{value.ActionScan, value.ActionReject}, snap.Allowed)

	// A: scan, then deal without counter.
	events, err := g.Scan()
	rq.NoError(err)
	rq.Len(events, 1)
	rq.Equal(entity.PriceRevealed{NewPrice: 60, OrigPrice: 60, Money: 95}, events[0].Payload)
	rq.Equal(95, g.Money())

	events, err = g.Deal()
	rq.NoError(err)
	rq.Len(events, 1)

	deal := events[0].Payload.(entity.DealResult)
	rq.True(deal.Accepted)
	rq.Equal(60, deal.FinalPrice)
	rq.Equal(35, g.Money())
	rq.Equal([]entity.InventoryItem{{PaidPrice: 60, OriginalPrice: 60, Key: "product1"}}, g.Snapshot().Inventory)
	rq.True(g.Awaiting())
	rq.Equal([]value.Action{value.ActionAdvance}, g.Allowed())

	// B: buyer for item 0, offer 60.
	rnd.Push(toBuyer, firstItem, neutralOffer)

	events, err = g.Advance()
	rq.NoError(err)

	presented := events[0].Payload.(entity.EncounterPresented)
	rq.Equal(value.KindBuyer, presented.Kind)
	rq.Equal(60, presented.Price)
	rq.Equal(0, *presented.InventoryIndex)

	events, err = g.Deal()
	rq.NoError(err)

	deal = events[0].Payload.(entity.DealResult)
	rq.True(deal.Accepted)
	rq.Nil(deal.Punish)
	rq.Equal(95, g.Money())
	rq.Empty(g.Snapshot().Inventory)
	rq.Zero(rnd.Remaining())
}

func TestScenarioCaughtFake(t *testing.T) {
	rq := require.New(t)

	rnd := tests.NewScriptedRandomizer(fakeSeller()...)
	g := start(t, entity.DefaultRules(), rnd)

	events, err := g.Scan()
	rq.NoError(err)
	rq.Equal(40, events[0].Payload.(entity.PriceRevealed).NewPrice)

	_, err = g.Deal()
	rq.NoError(err)
	rq.Equal(55, g.Money())
	rq.Equal([]entity.InventoryItem{{
		PaidPrice:     40,
		OriginalPrice: 60,
		Key:           "product1",
		Flags:         value.Flags{Fake: true},
	}}, g.Snapshot().Inventory)

	rnd.Push(toBuyer, firstItem, neutralOffer, 0.1)

	_, err = g.Advance()
	rq.NoError(err)

	events, err = g.Deal()
	rq.NoError(err)

	deal := events[0].Payload.(entity.DealResult)
	rq.Equal(60, deal.FinalPrice)
	rq.Equal(&entity.PunishDetail{Amount: 60, CaughtFake: true}, deal.Punish)
	rq.Equal(55, g.Money())
	rq.Equal(1, g.Stats().Catches)
}

func TestScenarioReport(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		draws  []float64
		reward int
	}{
		{name: "False report", draws: cleanSeller(), reward: -5},
		{name: "Fake", draws: fakeSeller(), reward: 5},
		{name: "Danger", draws: []float64{firstProduct, noFlag, withFlag, neutralAsk}, reward: 10},
		{name: "Both", draws: []float64{firstProduct, withFlag, withFlag, neutralAsk}, reward: 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			g := start(t, entity.DefaultRules(), tests.NewScriptedRandomizer(tc.draws...))

			_, err := g.Scan()
			rq.NoError(err)

			events, err := g.Report()
			rq.NoError(err)
			rq.Equal(tc.reward, events[0].Payload.(entity.ReportResult).Reward)
			rq.Equal(95+tc.reward, g.Money())
			rq.Nil(g.Snapshot().Encounter)
		})
	}
}

func TestScenarioBankruptcy(t *testing.T) {
	rq := require.New(t)

	rules := entity.DefaultRules()
	rules.StartMoney = 10
	rules.Catalog = []entity.CatalogEntry{{Key: "cheap", Base: 8}}

	rnd := tests.NewScriptedRandomizer(cleanSeller()...)
	g := start(t, rules, rnd)

	_, err := g.Scan()
	rq.NoError(err)
	rq.Equal(5, g.Money())
	rq.True(g.Running())

	events, err := g.Deal()
	rq.NoError(err)
	rq.Len(events, 2)
	rq.Equal(entity.GameOver{Won: false, FinalMoney: -3}, lastEvent(events).Payload)

	snap := g.Snapshot()
	rq.False(snap.Running)
	rq.True(snap.GameOver)
	rq.Equal(&entity.Outcome{Won: false, FinalMoney: -3}, snap.Outcome)
	rq.Nil(snap.Encounter)
	rq.Empty(snap.Inventory)

	for _, a := range []value.Action{value.ActionScan, value.ActionDeal, value.ActionAdvance, value.ActionReject} {
		_, err := g.Do(a)
		rq.ErrorIs(err, game.ErrInapplicable)
	}

	rnd.Push(cleanSeller()...)

	events, err = g.Start()
	rq.NoError(err)
	rq.Equal(entity.GameStarted{Money: 10}, events[0].Payload)
	rq.True(g.Running())
	rq.False(g.GameOver())
}

func TestScanCostCanEndTheGame(t *testing.T) {
	rq := require.New(t)

	rules := entity.DefaultRules()
	rules.StartMoney = 3

	g := start(t, rules, tests.NewScriptedRandomizer(cleanSeller()...))

	events, err := g.Scan()
	rq.NoError(err)
	rq.Equal(entity.EventGameOver, lastEvent(events).Type)
	rq.Equal(-2, g.Money())
	rq.False(g.Running())
}

func TestWinOnSale(t *testing.T) {
	rq := require.New(t)

	rules := entity.DefaultRules()
	rules.StartMoney = 150

	rnd := tests.NewScriptedRandomizer(cleanSeller()...)
	g := start(t, rules, rnd)

	_, err := g.Scan()
	rq.NoError(err)
	_, err = g.Deal()
	rq.NoError(err)
	rq.Equal(85, g.Money())

	// Предложение 0.999 даёт 60 × 1.4 = 84.
	rnd.Push(toBuyer, firstItem, 0.999999)
	_, err = g.Advance()
	rq.NoError(err)

	// Встречное +40% и согласие.
	rnd.Push(0.999999, 0.0)
	events, err := g.Counter()
	rq.NoError(err)
	rq.Equal(entity.CounterProposed{Kind: value.KindBuyer, Offer: 118, Price: 84}, events[0].Payload)

	events, err = g.Deal()
	rq.NoError(err)
	rq.Equal(entity.GameOver{Won: true, FinalMoney: 203}, lastEvent(events).Payload)
}

func TestNegotiationFlow(t *testing.T) {
	rq := require.New(t)

	rnd := tests.NewScriptedRandomizer(cleanSeller()...)
	g := start(t, entity.DefaultRules(), rnd)

	testCases := []struct {
		name    string
		action  value.Action
		wantErr bool
	}{
		{name: "Counter before scan", action: value.ActionCounter, wantErr: true},
		{name: "Report before scan", action: value.ActionReport, wantErr: true},
		{name: "Deal before scan", action: value.ActionDeal, wantErr: true},
		{name: "Advance while customer present", action: value.ActionAdvance, wantErr: true},
		{name: "Start while running", action: value.ActionStart, wantErr: true},
		{name: "Scan", action: value.ActionScan},
		{name: "Scan twice", action: value.ActionScan, wantErr: true},
		{name: "Counter", action: value.ActionCounter},
		{name: "Report after counter", action: value.ActionReport, wantErr: true},
		{name: "Counter again", action: value.ActionCounter},
		{name: "Reject", action: value.ActionReject},
		{name: "Reject with nobody present", action: value.ActionReject, wantErr: true},
	}

	for _, tc := range testCases {
		before := g.Snapshot()

		_, err := g.Do(tc.action)
		if tc.wantErr {
			rq.ErrorIs(err, game.ErrInapplicable, tc.name)
			rq.Equal(before, g.Snapshot(), tc.name)
			continue
		}

		rq.NoError(err, tc.name)
	}

	rq.Equal(95, g.Money())
	rq.Nil(g.Snapshot().CounterPending)
	rq.Nil(g.Snapshot().Encounter)
}

func TestCounterOnDiscountedPrice(t *testing.T) {
	rq := require.New(t)

	rnd := tests.NewScriptedRandomizer(fakeSeller()...)
	g := start(t, entity.DefaultRules(), rnd)

	_, err := g.Scan()
	rq.NoError(err)

	rnd.Push(0.0)
	events, err := g.Counter()
	rq.NoError(err)
	rq.Equal(entity.CounterProposed{Kind: value.KindSeller, Offer: 38, Price: 40}, events[0].Payload)

	snap := g.Snapshot()
	rq.Equal(38, *snap.CounterPending)
	rq.Equal(value.StageNegotiating, snap.Stage)
	rq.Equal(&value.Flags{Fake: true}, snap.Encounter.Flags)

	// delta 2/40 -> шанс 0.65; бросок 0.7: отказ.
	rnd.Push(0.7)
	events, err = g.Deal()
	rq.NoError(err)

	deal := events[0].Payload.(entity.DealResult)
	rq.False(deal.Accepted)
	rq.Equal(38, deal.FinalPrice)
	rq.Equal(95, g.Money())
	rq.Empty(g.Snapshot().Inventory)
	rq.Nil(g.Snapshot().CounterPending)
}

func TestDealWithoutCounterAlwaysAccepts(t *testing.T) {
	rq := require.New(t)

	rnd := tests.NewScriptedRandomizer(cleanSeller()...)
	rnd.Fallback = 0.999999
	g := start(t, entity.DefaultRules(), rnd)

	_, err := g.Scan()
	rq.NoError(err)

	events, err := g.Deal()
	rq.NoError(err)
	rq.True(events[0].Payload.(entity.DealResult).Accepted)
}

func TestGeneratorPolicy(t *testing.T) {
	rq := require.New(t)

	rules := entity.DefaultRules()
	rules.MaxInventory = 1

	rnd := tests.NewScriptedRandomizer(cleanSeller()...)
	g := start(t, rules, rnd)

	_, err := g.Scan()
	rq.NoError(err)
	_, err = g.Deal()
	rq.NoError(err)

	// Инвентарь полон: покупатель без броска монетки.
	rnd.Push(firstItem, neutralOffer)
	events, err := g.Advance()
	rq.NoError(err)
	rq.Equal(value.KindBuyer, events[0].Payload.(entity.EncounterPresented).Kind)
	rq.Zero(rnd.Remaining())

	_, err = g.Reject()
	rq.NoError(err)
	rq.Len(g.Snapshot().Inventory, 1)
}

// Случайное блуждание по допустимым действиям проверяет инварианты.
func TestInvariantsRandomWalk(t *testing.T) {
	rq := require.New(t)

	rules := entity.DefaultRules()

	for seed := range uint64(50) {
		rnd := randx.New(seed)
		pick := tests.NewRandomizer()
		g := game.New(rules, rnd)

		for range 400 {
			allowed := g.Allowed()
			a := allowed[int(pick.Float64()*float64(len(allowed)))]

			before := g.Money()
			events, err := g.Do(a)
			rq.NoError(err)

			snap := g.Snapshot()

			rq.GreaterOrEqual(len(snap.Inventory), 0)
			rq.LessOrEqual(len(snap.Inventory), rules.MaxInventory)

			if snap.Encounter == nil {
				rq.Nil(snap.CounterPending)
			}

			if snap.Running {
				rq.GreaterOrEqual(snap.Money, 0)
				rq.Less(snap.Money, rules.WinMoney)
			}

			for _, ev := range events {
				switch p := ev.Payload.(type) {
				case entity.ReportResult:
					rq.Contains([]int{5, 10, 15, -5}, p.Reward)
				case entity.PriceRevealed:
					rq.Equal(before-rules.ScanCost, p.Money)
				case entity.GameOver:
					rq.Equal(p.Won, p.FinalMoney >= rules.WinMoney)
					rq.Equal(!p.Won, p.FinalMoney < 0)
				}
			}
		}
	}
}
