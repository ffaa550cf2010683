package middleware

import (
	"github.com/m3rciful/carbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.AdminID != 0 && c.Sender().ID != opts.AdminID {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// PrivateOnlyMiddleware admits only one-to-one conversations. Group,
// supergroup, and channel updates are dropped before any dispatch with no
// reply to the chat.
func PrivateOnlyMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil || chat.Type != tele.ChatPrivate {
			if chat != nil {
				logger.TG.Debug("non-private update dropped",
					slog.String("event", "tg.access.drop"),
					slog.Int64("chat_id", chat.ID),
					slog.String("chat_type", string(chat.Type)),
				)
			}
			return nil
		}
		return next(c)
	}
}
