package entity

import (
	"errors"
	"fmt"
)

// Spread: границы равномерного множителя цены.
type Spread struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// IntSpread: включительные границы целого случайного числа.
type IntSpread struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// ReportReward: награда за донос и штраф за ложный донос.
type ReportReward struct {
	Fake   int `yaml:"fake" json:"fake"`
	Danger int `yaml:"danger" json:"danger"`
	False  int `yaml:"false_report" json:"false_report"` // применяется, если флагов нет
}

// CatalogEntry: строка каталога товаров.
type CatalogEntry struct {
	Key  string `yaml:"key" json:"key"`
	Base int    `yaml:"base" json:"base"`
}

// Rules holds every tuning constant of one game. Loaded from the rules file
// (see config.LoadRules) or taken from DefaultRules.
type Rules struct {
	StartMoney       int            `yaml:"start_money" json:"start_money"`
	WinMoney         int            `yaml:"win_money" json:"win_money"`
	MaxInventory     int            `yaml:"max_inventory" json:"max_inventory"`
	ScanCost         int            `yaml:"scan_cost" json:"scan_cost"`
	CatchProbFake    float64        `yaml:"catch_prob_fake" json:"catch_prob_fake"`
	CatchProbDanger  float64        `yaml:"catch_prob_danger" json:"catch_prob_danger"`
	DangerPenaltyX   int            `yaml:"danger_penalty_multiplier" json:"danger_penalty_multiplier"`
	FakeChance       float64        `yaml:"fake_chance" json:"fake_chance"`
	DangerChance     float64        `yaml:"danger_chance" json:"danger_chance"`
	BuyerChance      float64        `yaml:"buyer_chance" json:"buyer_chance"`
	AskSpread        Spread         `yaml:"ask_spread" json:"ask_spread"`
	OfferSpread      Spread         `yaml:"offer_spread" json:"offer_spread"`
	CounterPercent   IntSpread      `yaml:"counter_percent" json:"counter_percent"`
	BaseAcceptChance float64        `yaml:"base_accept_chance" json:"base_accept_chance"`
	ReportReward     ReportReward   `yaml:"report_reward" json:"report_reward"`
	Catalog          []CatalogEntry `yaml:"catalog" json:"catalog"`
}

func DefaultRules() Rules {
	return Rules{
		StartMoney:       100,
		WinMoney:         200,
		MaxInventory:     6,
		ScanCost:         5,
		CatchProbFake:    0.50,
		CatchProbDanger:  0.70,
		DangerPenaltyX:   3,
		FakeChance:       0.45,
		DangerChance:     0.35,
		BuyerChance:      0.5,
		AskSpread:        Spread{Min: 0.8, Max: 1.2},
		OfferSpread:      Spread{Min: 0.7, Max: 1.4},
		CounterPercent:   IntSpread{Min: 5, Max: 40},
		BaseAcceptChance: 0.60,
		ReportReward:     ReportReward{Fake: 5, Danger: 10, False: -5},
		Catalog: []CatalogEntry{
			{Key: "product1", Base: 60},
			{Key: "product2", Base: 50},
			{Key: "product3", Base: 70},
			{Key: "product4", Base: 40},
			{Key: "product5", Base: 100},
		},
	}
}

// Validate rejects rules a game cannot be played with.
func (r Rules) Validate() error {
	var errs []error

	if r.StartMoney < 0 || r.StartMoney >= r.WinMoney {
		errs = append(errs, fmt.Errorf("start_money must be in [0, win_money), got %d", r.StartMoney))
	}
	if r.MaxInventory < 1 {
		errs = append(errs, fmt.Errorf("max_inventory must be positive, got %d", r.MaxInventory))
	}
	if r.ScanCost < 0 {
		errs = append(errs, fmt.Errorf("scan_cost must not be negative, got %d", r.ScanCost))
	}
	if r.DangerPenaltyX < 0 {
		errs = append(errs, fmt.Errorf("danger_penalty_multiplier must not be negative, got %d", r.DangerPenaltyX))
	}

	for name, p := range map[string]float64{
		"catch_prob_fake":    r.CatchProbFake,
		"catch_prob_danger":  r.CatchProbDanger,
		"fake_chance":        r.FakeChance,
		"danger_chance":      r.DangerChance,
		"buyer_chance":       r.BuyerChance,
		"base_accept_chance": r.BaseAcceptChance,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be a probability, got %v", name, p))
		}
	}

	if r.AskSpread.Min <= 0 || r.AskSpread.Min > r.AskSpread.Max {
		errs = append(errs, fmt.Errorf("ask_spread is invalid: %+v", r.AskSpread))
	}
	if r.OfferSpread.Min <= 0 || r.OfferSpread.Min > r.OfferSpread.Max {
		errs = append(errs, fmt.Errorf("offer_spread is invalid: %+v", r.OfferSpread))
	}
	if r.CounterPercent.Min < 0 || r.CounterPercent.Min > r.CounterPercent.Max || r.CounterPercent.Max >= 100 {
		errs = append(errs, fmt.Errorf("counter_percent is invalid: %+v", r.CounterPercent))
	}

	if len(r.Catalog) == 0 {
		errs = append(errs, errors.New("catalog is empty"))
	}

	seen := make(map[string]struct{}, len(r.Catalog))
	for _, c := range r.Catalog {
		if c.Key == "" || c.Base <= 0 {
			errs = append(errs, fmt.Errorf("catalog entry %+v: key and positive base required", c))
		}
		if _, dup := seen[c.Key]; dup {
			errs = append(errs, fmt.Errorf("catalog key %q is duplicated", c.Key))
		}
		seen[c.Key] = struct{}{}
	}

	return errors.Join(errs...)
}
