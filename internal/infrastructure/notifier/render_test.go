package notifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
	"bazaar/internal/infrastructure/notifier"
)

func TestRenderText(t *testing.T) {
	offer := 30

	testCases := []struct {
		name   string
		view   session.View
		events []entity.Event
		want   string
	}{
		{
			name: "game started",
			view: session.View{Snapshot: entity.Snapshot{
				Money:    100,
				Capacity: 6,
				Encounter: &entity.EncounterView{
					Kind:  value.KindSeller,
					Key:   "product1",
					Price: 66,
				},
			}},
			events: []entity.Event{
				entity.NewEvent(entity.GameStarted{Money: 100}),
				entity.NewEvent(entity.EncounterPresented{Kind: value.KindSeller, Key: "product1", Price: 66}),
			},
			want: "🎲 New game, money 100\n" +
				"🧑‍💼 Seller offers <b>product1</b> for 66\n" +
				"\n" +
				"Seller: <b>product1</b> at 66\n" +
				"\n" +
				"💰 100 | 🎒 0/6",
		},
		{
			name: "scanned with pending counter",
			view: session.View{Snapshot: entity.Snapshot{
				Money:          95,
				Capacity:       6,
				CounterPending: &offer,
				Encounter: &entity.EncounterView{
					Kind:  value.KindSeller,
					Key:   "a<b",
					Price: 40,
					Flags: &value.Flags{Fake: true},
				},
			}},
			events: []entity.Event{
				entity.NewEvent(entity.CounterProposed{Kind: value.KindSeller, Offer: 30, Price: 40}),
			},
			want: "💬 You propose 30\n" +
				"\n" +
				"Seller: <b>a&lt;b</b> at 40 (Fake), your offer 30\n" +
				"\n" +
				"💰 95 | 🎒 0/6",
		},
		{
			name: "caught on resale",
			view: session.View{Snapshot: entity.Snapshot{
				Money:           40,
				Capacity:        6,
				AwaitingAdvance: true,
				Encounter:       &entity.EncounterView{Kind: value.KindBuyer, Key: "product1", Price: 70},
			}},
			events: []entity.Event{
				entity.NewEvent(entity.DealResult{
					Kind:       value.KindBuyer,
					Accepted:   true,
					FinalPrice: 70,
					Punish:     &entity.PunishDetail{Amount: 60, CaughtFake: true},
					Money:      40,
				}),
			},
			want: "✅ Sold for 70\n" +
				"🚨 Caught: Fake, penalty 60\n" +
				"\n" +
				"💰 40 | 🎒 0/6",
		},
		{
			name: "bankrupt",
			view: session.View{Snapshot: entity.Snapshot{Money: -2, Capacity: 6, GameOver: true}},
			events: []entity.Event{
				entity.NewEvent(entity.ReportResult{Reward: -5, Money: -2}),
				entity.NewEvent(entity.GameOver{FinalMoney: -2}),
			},
			want: "👮 Report: Clean, reward -5\n" +
				"💸 Bankrupt at -2\n" +
				"\n" +
				"💰 -2 | 🎒 0/6",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			rq.Equal(tc.want, notifier.RenderText(tc.view, tc.events))
		})
	}
}

func TestKeyboard(t *testing.T) {
	rq := require.New(t)

	rq.Nil(notifier.Keyboard(nil))
	rq.Nil(notifier.Keyboard([]value.Action{value.ActionAdvance}))

	keyboard := notifier.Keyboard([]value.Action{value.ActionScan, value.ActionReject, value.ActionAdvance})
	rq.NotNil(keyboard)
	rq.Len(keyboard.InlineKeyboard, 1)

	row := keyboard.InlineKeyboard[0]
	rq.Len(row, 2)
	rq.Equal("act:scan", row[0].CallbackData)
	rq.Equal("act:reject", row[1].CallbackData)
}
