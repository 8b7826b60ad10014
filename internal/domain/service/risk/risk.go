// Package risk resolves catches on resale of flagged goods and report rewards.
package risk

import (
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/value"
	"bazaar/pkg/randx"
)

type Resolver struct {
	rnd   randx.Source
	rules entity.Rules
}

func New(rnd randx.Source, rules entity.Rules) Resolver {
	return Resolver{rnd: rnd, rules: rules}
}

// ResolveSale возвращает чистый доход от продажи и детали штрафа.
// Проверки независимы; бросок делается только для флага, который есть у товара.
func (r Resolver) ResolveSale(item entity.InventoryItem, finalPrice int) (int, entity.PunishDetail) {
	basis := item.Basis()

	var punish entity.PunishDetail

	if item.Fake && r.rnd.Float64() < r.rules.CatchProbFake {
		punish.Amount += basis
		punish.CaughtFake = true
	}

	if item.Danger && r.rnd.Float64() < r.rules.CatchProbDanger {
		punish.Amount += basis * r.rules.DangerPenaltyX
		punish.CaughtDanger = true
	}

	return finalPrice - punish.Amount, punish
}

// ReportReward не зависит от случайности.
func ReportReward(flags value.Flags, rules entity.Rules) int {
	reward := 0

	if flags.Fake {
		reward += rules.ReportReward.Fake
	}
	if flags.Danger {
		reward += rules.ReportReward.Danger
	}

	if reward == 0 {
		return rules.ReportReward.False
	}

	return reward
}
