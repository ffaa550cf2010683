package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/carbot/core/telegram/helpers"
	"github.com/m3rciful/carbot/core/telegram/ui"
)

const textHintStart = "🤖 Чтобы оставить заявку, отправьте /start."

type fallbacks struct{}

// Fallbacks returns handlers for updates outside an active conversation.
func Fallbacks() ui.FallbackProvider {
	return fallbacks{}
}

func (fallbacks) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, textHintStart)
	}
}

func (fallbacks) UnknownMedia() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, textHintStart)
	}
}

func (fallbacks) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное действие"})
	}
}
