package persistence

import (
	"time"

	"bazaar/internal/domain/entity"
)

// runSchema: строка таблицы runs.
type runSchema struct {
	ID         string    `db:"id"`
	SessionID  string    `db:"session_id"`
	Won        bool      `db:"won"`
	FinalMoney int       `db:"final_money"`
	Encounters int       `db:"encounters"`
	Deals      int       `db:"deals"`
	Catches    int       `db:"catches"`
	Reports    int       `db:"reports"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

func fromRun(r entity.Run) runSchema {
	return runSchema{
		ID:         r.ID,
		SessionID:  r.SessionID,
		Won:        r.Won,
		FinalMoney: r.FinalMoney,
		Encounters: r.Stats.Encounters,
		Deals:      r.Stats.Deals,
		Catches:    r.Stats.Catches,
		Reports:    r.Stats.Reports,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

func (s runSchema) toDomain() entity.Run {
	return entity.Run{
		ID:         s.ID,
		SessionID:  s.SessionID,
		Won:        s.Won,
		FinalMoney: s.FinalMoney,
		Stats: entity.Stats{
			Encounters: s.Encounters,
			Deals:      s.Deals,
			Catches:    s.Catches,
			Reports:    s.Reports,
		},
		StartedAt:  s.StartedAt.UTC(),
		FinishedAt: s.FinishedAt.UTC(),
	}
}
