package server

import (
	"net/http"
	"strconv"
	"time"

	"git.appkode.ru/pub/go/failure"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
	"bazaar/pkg/errcodes"
	"bazaar/pkg/lox"
	"bazaar/pkg/rest"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

func newRESTSession(v session.View) rest.Session {
	s := rest.Session{
		ID:              v.ID,
		Seed:            v.Seed,
		Money:           v.Money,
		Inventory:       lox.Map(v.Inventory, newRESTInventoryItem),
		Capacity:        v.Capacity,
		Scanned:         v.Scanned,
		CounterPending:  v.CounterPending,
		Running:         v.Running,
		GameOver:        v.GameOver,
		AwaitingAdvance: v.AwaitingAdvance,
		Stage:           v.Stage.String(),
		AllowedActions:  lox.Map(v.Allowed, value.Action.String),
		Stats:           newRESTStats(v.Stats),
	}

	if v.Outcome != nil {
		s.Outcome = &rest.Outcome{Won: v.Outcome.Won, FinalMoney: v.Outcome.FinalMoney}
	}

	if e := v.Encounter; e != nil {
		s.Encounter = &rest.Encounter{
			Kind:           e.Kind.String(),
			Key:            e.Key,
			Price:          e.Price,
			OrigPrice:      e.OrigPrice,
			InventoryIndex: e.InventoryIndex,
		}
		if e.Flags != nil {
			s.Encounter.Flags = &rest.Flags{Fake: e.Flags.Fake, Danger: e.Flags.Danger}
		}
	}

	return s
}

func newRESTInventoryItem(i entity.InventoryItem) rest.InventoryItem {
	return rest.InventoryItem{
		Key:           i.Key,
		PaidPrice:     i.PaidPrice,
		OriginalPrice: i.OriginalPrice,
		Flags:         rest.Flags{Fake: i.Fake, Danger: i.Danger},
	}
}

func newRESTStats(s entity.Stats) rest.Stats {
	return rest.Stats{
		Encounters: s.Encounters,
		Deals:      s.Deals,
		Catches:    s.Catches,
		Reports:    s.Reports,
	}
}

func newRESTEvent(e entity.Event) rest.Event {
	return rest.Event{
		Type:    string(e.Type),
		Payload: e.Payload,
	}
}

func newRESTLeaderboardEntry(e entity.LeaderboardEntry) rest.LeaderboardEntry {
	return rest.LeaderboardEntry{
		SessionID: e.SessionID,
		Money:     e.Money,
	}
}

func newRESTRun(r entity.Run) rest.Run {
	return rest.Run{
		ID:         r.ID,
		SessionID:  r.SessionID,
		Won:        r.Won,
		FinalMoney: r.FinalMoney,
		Stats:      newRESTStats(r.Stats),
		StartedAt:  r.StartedAt.Format(time.RFC3339),
		FinishedAt: r.FinishedAt.Format(time.RFC3339),
	}
}

func newDomainAction(request rest.ActionRequest) (value.Action, error) {
	action, err := value.ParseAction(request.Action)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			err,
			failure.WithCode(errcodes.InvalidAction),
		)
	}

	return action, nil
}

// parsePaging читает limit и offset из query.
func parsePaging(r *http.Request) (limit, offset int, err error) {
	limit, err = queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		return 0, 0, failure.NewInvalidArgumentError(
			"invalid limit",
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription("limit must be between 1 and 100"),
		)
	}

	offset, err = queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		return 0, 0, failure.NewInvalidArgumentError(
			"invalid offset",
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription("offset must not be negative"),
		)
	}

	return limit, offset, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	return strconv.Atoi(raw)
}
