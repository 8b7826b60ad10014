package value

import "fmt"

// Action: действие игрока.
type Action string

const (
	ActionStart   Action = "start"
	ActionScan    Action = "scan"
	ActionCounter Action = "counter"
	ActionDeal    Action = "deal"
	ActionReport  Action = "report"
	ActionReject  Action = "reject"
	ActionAdvance Action = "advance"
)

//nolint:gochecknoglobals
var actions = []Action{
	ActionStart,
	ActionScan,
	ActionCounter,
	ActionDeal,
	ActionReport,
	ActionReject,
	ActionAdvance,
}

func (a Action) String() string {
	return string(a)
}

func ParseAction(s string) (Action, error) {
	for _, a := range actions {
		if string(a) == s {
			return a, nil
		}
	}

	return "", fmt.Errorf("unknown action %q", s)
}

// Stage: стадия переговоров по текущей встрече.
type Stage string

const (
	StageNone        Stage = "none"
	StagePresented   Stage = "presented"
	StageScanned     Stage = "scanned"
	StageNegotiating Stage = "negotiating"
)

func (s Stage) String() string {
	return string(s)
}
