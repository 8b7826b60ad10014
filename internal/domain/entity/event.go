package entity

import "bazaar/internal/domain/value"

type EventType string

const (
	EventGameStarted        EventType = "game_started"
	EventEncounterPresented EventType = "encounter_presented"
	EventPriceRevealed      EventType = "price_revealed"
	EventCounterProposed    EventType = "counter_proposed"
	EventDealResult         EventType = "deal_result"
	EventReportResult       EventType = "report_result"
	EventRejectResult       EventType = "reject_result"
	EventGameOver           EventType = "game_over"
)

// Event: конверт события для слоя представления.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

type GameStarted struct {
	Money int `json:"money"`
}

// EncounterPresented никогда не раскрывает флаги товара продавца.
type EncounterPresented struct {
	Kind           value.Kind     `json:"kind"`
	Key            string         `json:"key"`
	Price          int            `json:"price"`
	Item           *InventoryItem `json:"item,omitempty"`
	InventoryIndex *int           `json:"inventoryIndex,omitempty"`
}

type PriceRevealed struct {
	NewPrice  int         `json:"newPrice"`
	OrigPrice int         `json:"origPrice"`
	Flags     value.Flags `json:"flags"`
	Money     int         `json:"money"`
}

type CounterProposed struct {
	Kind  value.Kind `json:"kind"`
	Offer int        `json:"offer"`
	Price int        `json:"price"`
}

// PunishDetail: штраф при перепродаже помеченного товара.
type PunishDetail struct {
	Amount       int  `json:"amount"`
	CaughtFake   bool `json:"caughtFake"`
	CaughtDanger bool `json:"caughtDanger"`
}

func (p PunishDetail) Caught() bool {
	return p.CaughtFake || p.CaughtDanger
}

func (p PunishDetail) Flags() value.Flags {
	return value.Flags{Fake: p.CaughtFake, Danger: p.CaughtDanger}
}

type DealResult struct {
	Kind       value.Kind     `json:"kind"`
	Accepted   bool           `json:"accepted"`
	FinalPrice int            `json:"finalPrice"`
	Item       *InventoryItem `json:"item,omitempty"`
	Punish     *PunishDetail  `json:"punish,omitempty"`
	Money      int            `json:"money"`
}

type ReportResult struct {
	Reward int         `json:"reward"`
	Flags  value.Flags `json:"flags"`
	Money  int         `json:"money"`
}

type RejectResult struct {
	Kind value.Kind `json:"kind"`
}

type GameOver struct {
	Won        bool `json:"won"`
	FinalMoney int  `json:"finalMoney"`
}

func NewEvent(payload any) Event {
	var t EventType

	switch payload.(type) {
	case GameStarted:
		t = EventGameStarted
	case EncounterPresented:
		t = EventEncounterPresented
	case PriceRevealed:
		t = EventPriceRevealed
	case CounterProposed:
		t = EventCounterProposed
	case DealResult:
		t = EventDealResult
	case ReportResult:
		t = EventReportResult
	case RejectResult:
		t = EventRejectResult
	case GameOver:
		t = EventGameOver
	}

	return Event{Type: t, Payload: payload}
}

// Resolves reports whether the event ends an encounter.
func (e Event) Resolves() bool {
	switch e.Type {
	case EventDealResult, EventReportResult, EventRejectResult:
		return true
	default:
		return false
	}
}
