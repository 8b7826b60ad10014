// Данный файл должен быть сгенерирован из api/openapi.yaml и называться types.gen.go
package rest

// CreateSessionRequest Параметры новой игры
type CreateSessionRequest struct {
	// Seed Зерно генератора; без него игра случайна
	Seed *uint64 `json:"seed,omitempty"`
}

// ActionRequest Действие игрока
type ActionRequest struct {
	Action string `json:"action" validate:"required,oneof=start scan counter deal report reject advance"`
}

// Flags Скрытые свойства товара
type Flags struct {
	Fake   bool `json:"fake"`
	Danger bool `json:"danger"`
}

// InventoryItem Купленный товар
type InventoryItem struct {
	Key           string `json:"key"`
	PaidPrice     int    `json:"paidPrice"`
	OriginalPrice int    `json:"originalPrice"`
	Flags
}

// Encounter Текущий клиент; flags отсутствуют до сканирования
type Encounter struct {
	Kind           string `json:"kind"`
	Key            string `json:"key"`
	Price          int    `json:"price"`
	OrigPrice      int    `json:"origPrice"`
	InventoryIndex *int   `json:"inventoryIndex,omitempty"`
	Flags          *Flags `json:"flags,omitempty"`
}

type Outcome struct {
	Won        bool `json:"won"`
	FinalMoney int  `json:"finalMoney"`
}

type Stats struct {
	Encounters int `json:"encounters"`
	Deals      int `json:"deals"`
	Catches    int `json:"catches"`
	Reports    int `json:"reports"`
}

// Session Состояние игры
type Session struct {
	ID              string          `json:"id"`
	Seed            uint64          `json:"seed"`
	Money           int             `json:"money"`
	Inventory       []InventoryItem `json:"inventory"`
	Capacity        int             `json:"capacity"`
	Encounter       *Encounter      `json:"encounter,omitempty"`
	Scanned         bool            `json:"scanned"`
	CounterPending  *int            `json:"counterPending,omitempty"`
	Running         bool            `json:"running"`
	GameOver        bool            `json:"gameOver"`
	Outcome         *Outcome        `json:"outcome,omitempty"`
	AwaitingAdvance bool            `json:"awaitingAdvance"`
	Stage           string          `json:"stage"`
	AllowedActions  []string        `json:"allowedActions"`
	Stats           Stats           `json:"stats"`
}

// Event Событие игры; payload зависит от type
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ActionResult Результат действия
type ActionResult struct {
	Events  []Event `json:"events"`
	Session Session `json:"session"`
}

type LeaderboardEntry struct {
	SessionID string `json:"sessionId"`
	Money     int    `json:"money"`
}

// Run Запись журнала партий
type Run struct {
	ID         string `json:"id"`
	SessionID  string `json:"sessionId"`
	Won        bool   `json:"won"`
	FinalMoney int    `json:"finalMoney"`
	Stats      Stats  `json:"stats"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
