package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
)

// CallbackPrefix: префикс callback-данных кнопок действий.
const CallbackPrefix = "act:"

//nolint:gochecknoglobals
var actionLabels = map[value.Action]string{
	value.ActionStart:   "🎲 Play",
	value.ActionScan:    "🔍 Scan",
	value.ActionCounter: "💬 Counter",
	value.ActionDeal:    "🤝 Deal",
	value.ActionReport:  "👮 Report",
	value.ActionReject:  "👋 Reject",
}

// RenderText описывает события и текущее состояние игры в HTML-разметке Telegram.
func RenderText(v session.View, events []entity.Event) string {
	var sb strings.Builder

	for _, ev := range events {
		if line := describe(ev); line != "" {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	if e := v.Encounter; e != nil && !v.AwaitingAdvance {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}

		fmt.Fprintf(&sb, "%s: <b>%s</b> at %d", e.Kind.Title(), html.EscapeString(e.Key), e.Price)

		if e.Flags != nil {
			fmt.Fprintf(&sb, " (%s)", e.Flags)
		}

		if v.CounterPending != nil {
			fmt.Fprintf(&sb, ", your offer %d", *v.CounterPending)
		}

		sb.WriteByte('\n')
	}

	if sb.Len() > 0 {
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "💰 %d | 🎒 %d/%d", v.Money, len(v.Inventory), v.Capacity)

	return sb.String()
}

func describe(ev entity.Event) string {
	switch p := ev.Payload.(type) {
	case entity.GameStarted:
		return fmt.Sprintf("🎲 New game, money %d", p.Money)
	case entity.EncounterPresented:
		if p.Kind == value.KindBuyer {
			return fmt.Sprintf("🙋 Buyer wants <b>%s</b>, offers %d", html.EscapeString(p.Key), p.Price)
		}
		return fmt.Sprintf("🧑‍💼 Seller offers <b>%s</b> for %d", html.EscapeString(p.Key), p.Price)
	case entity.PriceRevealed:
		return fmt.Sprintf("🔍 %s, price %d → %d", p.Flags, p.OrigPrice, p.NewPrice)
	case entity.CounterProposed:
		return fmt.Sprintf("💬 You propose %d", p.Offer)
	case entity.DealResult:
		return describeDeal(p)
	case entity.ReportResult:
		return fmt.Sprintf("👮 Report: %s, reward %+d", p.Flags, p.Reward)
	case entity.RejectResult:
		return fmt.Sprintf("👋 %s leaves", p.Kind.Title())
	case entity.GameOver:
		if p.Won {
			return fmt.Sprintf("🏆 You win with %d", p.FinalMoney)
		}
		return fmt.Sprintf("💸 Bankrupt at %d", p.FinalMoney)
	default:
		return ""
	}
}

func describeDeal(p entity.DealResult) string {
	if !p.Accepted {
		return fmt.Sprintf("❌ %s refused your offer", p.Kind.Title())
	}

	if p.Kind == value.KindSeller {
		return fmt.Sprintf("✅ Bought for %d", p.FinalPrice)
	}

	line := fmt.Sprintf("✅ Sold for %d", p.FinalPrice)
	if p.Punish != nil && p.Punish.Caught() {
		line += fmt.Sprintf("\n🚨 Caught: %s, penalty %d", p.Punish.Flags(), p.Punish.Amount)
	}

	return line
}

// Keyboard строит кнопки только для доступных сейчас действий.
// Advance бот вызывает сам, поэтому кнопки для него нет.
func Keyboard(allowed []value.Action) *telego.InlineKeyboardMarkup {
	buttons := make([]telego.InlineKeyboardButton, 0, len(allowed))

	for _, a := range allowed {
		label, ok := actionLabels[a]
		if !ok {
			continue
		}

		buttons = append(buttons, tu.InlineKeyboardButton(label).WithCallbackData(CallbackPrefix+a.String()))
	}

	if len(buttons) == 0 {
		return nil
	}

	return tu.InlineKeyboard(tu.InlineKeyboardRow(buttons...))
}
