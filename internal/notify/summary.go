package notify

import (
	"fmt"
	"strings"

	"github.com/m3rciful/carbot/core/telegram/format"
	"github.com/m3rciful/carbot/internal/domain"
)

// Summary renders the Markdown admin message for a lead.
func Summary(lead domain.Lead) string {
	intent := "покупку"
	if lead.Action == domain.ActionSell {
		intent = "продажу"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Заявка %s*\n", shortID(lead))
	fmt.Fprintf(&b, "*Пользователь @%s оставил запрос на %s автомобиля:*\n\n", escape(lead.Username), intent)
	fmt.Fprintf(&b, "*Имя:* %s\n", escape(lead.Name))
	fmt.Fprintf(&b, "*Телефон:* %s\n", escape(lead.Phone))
	fmt.Fprintf(&b, "*Запрос от пользователя:* %s\n", escape(lead.Request))
	return b.String()
}

func shortID(lead domain.Lead) string {
	id := lead.ID.String()
	if i := strings.IndexByte(id, '-'); i > 0 {
		return "#" + id[:i]
	}
	return "#" + id
}

func escape(text string) string {
	escaped, err := format.EscapeMarkdown(text, format.MarkdownV1, "")
	if err != nil {
		return text
	}
	return escaped
}
