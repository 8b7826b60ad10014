package entity

import (
	"time"

	"bazaar/internal/domain/value"
)

// EncounterView показывает встречу глазами игрока, флаги продавца скрыты до сканирования.
type EncounterView struct {
	Kind           value.Kind   `json:"kind"`
	Key            string       `json:"key"`
	Price          int          `json:"price"`
	OrigPrice      int          `json:"origPrice"`
	InventoryIndex *int         `json:"inventoryIndex,omitempty"`
	Flags          *value.Flags `json:"flags,omitempty"`
}

type Outcome struct {
	Won        bool `json:"won"`
	FinalMoney int  `json:"finalMoney"`
}

// Stats: счётчики текущей партии для журнала.
type Stats struct {
	Encounters int `json:"encounters"`
	Deals      int `json:"deals"`
	Catches    int `json:"catches"`
	Reports    int `json:"reports"`
}

type Snapshot struct {
	Money           int             `json:"money"`
	Inventory       []InventoryItem `json:"inventory"`
	Capacity        int             `json:"capacity"`
	Encounter       *EncounterView  `json:"encounter,omitempty"`
	Scanned         bool            `json:"scanned"`
	CounterPending  *int            `json:"counterPending,omitempty"`
	Running         bool            `json:"running"`
	GameOver        bool            `json:"gameOver"`
	Outcome         *Outcome        `json:"outcome,omitempty"`
	AwaitingAdvance bool            `json:"awaitingAdvance"`
	Stage           value.Stage     `json:"stage"`
	Allowed         []value.Action  `json:"allowed"`
	Stats           Stats           `json:"stats"`
}

// Run: запись журнала завершённой партии.
type Run struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Won        bool      `json:"won"`
	FinalMoney int       `json:"finalMoney"`
	Stats      Stats     `json:"stats"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

type LeaderboardEntry struct {
	SessionID string `json:"sessionId"`
	Money     int    `json:"money"`
}
