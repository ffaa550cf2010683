package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carbot/core/telegram/keyboard"
	"github.com/m3rciful/carbot/internal/intake"
)

// Callback keys routed through the registry.
const (
	cbAction  = "intake_action"
	cbContent = "intake_content"
)

const contactButtonLabel = "Отправить свой контакт ☎️"

func actionsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Продать", Unique: cbAction, Data: "sell"},
		{Text: "Купить", Unique: cbAction, Data: "buy"},
	})
}

func decisionKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Добавить", Unique: cbContent, Data: "add"},
		{Text: "Отправить", Unique: cbContent, Data: "send"},
	})
}

func markupFor(k intake.Keyboard) *tele.ReplyMarkup {
	switch k {
	case intake.KeyboardActions:
		return actionsKeyboard()
	case intake.KeyboardContact:
		return keyboard.ContactRequest(contactButtonLabel)
	case intake.KeyboardRemove:
		return keyboard.RemoveKeyboard()
	case intake.KeyboardDecision:
		return decisionKeyboard()
	}
	return nil
}
