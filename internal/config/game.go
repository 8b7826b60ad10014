package config

import "time"

type Game struct {
	RulesFile    string        `env:"GAME_RULES_FILE"`
	SessionTTL   time.Duration `env:"GAME_SESSION_TTL" envDefault:"30m"`
	AdvanceDelay time.Duration `env:"GAME_ADVANCE_DELAY" envDefault:"1500ms"`
}
