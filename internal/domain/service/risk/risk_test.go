package risk_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/risk"
	"bazaar/internal/domain/value"
	"bazaar/pkg/tests"
)

func TestResolveSale(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		item       entity.InventoryItem
		draws      []float64
		wantGain   int
		wantPunish entity.PunishDetail
		wantDraws  int
	}{
		{
			name:      "Clean item draws nothing",
			item:      entity.InventoryItem{PaidPrice: 60, OriginalPrice: 60},
			draws:     []float64{0.0, 0.0},
			wantGain:  60,
			wantDraws: 2,
		},
		{
			name:       "Caught fake",
			item:       entity.InventoryItem{PaidPrice: 40, OriginalPrice: 60, Flags: value.Flags{Fake: true}},
			draws:      []float64{0.1},
			wantGain:   0,
			wantPunish: entity.PunishDetail{Amount: 60, CaughtFake: true},
		},
		{
			name:      "Fake escapes",
			item:      entity.InventoryItem{PaidPrice: 40, OriginalPrice: 60, Flags: value.Flags{Fake: true}},
			draws:     []float64{0.5},
			wantGain:  60,
			wantDraws: 0,
		},
		{
			name:       "Caught danger",
			item:       entity.InventoryItem{PaidPrice: 20, OriginalPrice: 60, Flags: value.Flags{Danger: true}},
			draws:      []float64{0.69},
			wantGain:   60 - 180,
			wantPunish: entity.PunishDetail{Amount: 180, CaughtDanger: true},
		},
		{
			name:       "Caught on both counts",
			item:       entity.InventoryItem{PaidPrice: 20, OriginalPrice: 50, Flags: value.Flags{Fake: true, Danger: true}},
			draws:      []float64{0.2, 0.3},
			wantGain:   60 - 200,
			wantPunish: entity.PunishDetail{Amount: 200, CaughtFake: true, CaughtDanger: true},
		},
		{
			name:       "Doubly flagged caught only for danger",
			item:       entity.InventoryItem{PaidPrice: 20, OriginalPrice: 50, Flags: value.Flags{Fake: true, Danger: true}},
			draws:      []float64{0.9, 0.3},
			wantGain:   60 - 150,
			wantPunish: entity.PunishDetail{Amount: 150, CaughtDanger: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rnd := tests.NewScriptedRandomizer(tc.draws...)
			resolver := risk.New(rnd, entity.DefaultRules())

			gain, punish := resolver.ResolveSale(tc.item, 60)

			rq.Equal(tc.wantGain, gain)
			rq.Equal(tc.wantPunish, punish)
			rq.Equal(tc.wantDraws, rnd.Remaining())
		})
	}
}

func TestReportReward(t *testing.T) {
	rq := require.New(t)

	rules := entity.DefaultRules()

	testCases := []struct {
		flags value.Flags
		want  int
	}{
		{flags: value.Flags{}, want: -5},
		{flags: value.Flags{Fake: true}, want: 5},
		{flags: value.Flags{Danger: true}, want: 10},
		{flags: value.Flags{Fake: true, Danger: true}, want: 15},
	}

	for _, tc := range testCases {
		t.Run(tc.flags.String(), func(*testing.T) {
			rq.Equal(tc.want, risk.ReportReward(tc.flags, rules))
		})
	}
}
