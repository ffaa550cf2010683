package router

import (
	"time"

	tg "github.com/m3rciful/carbot/core/telegram"
	"github.com/m3rciful/carbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// MessageOptions controls fallback behaviour for message updates that are
// neither commands nor part of an active conversation.
type MessageOptions struct {
	UnknownText  tele.HandlerFunc
	UnknownMedia tele.HandlerFunc
}

// MessageRoutes builds handlers for text, contact, and media routing.
// Updates belonging to an active conversation go to the FSM manager; text
// falls back to command lookup and the registry fallback chain.
func MessageRoutes(fsmMgr FSM, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	// Contact shares and media attachments only make sense inside a flow.
	attachmentHandler := func(name string) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
				return handleWithSummary(c, "fsm_"+name, start, "", "", func() error {
					return fsmMgr.ManagerHandler(c)
				})
			}
			if opts.UnknownMedia != nil {
				return handleWithSummary(c, "unexpected_"+name, start, "", "", func() error {
					return opts.UnknownMedia(c)
				})
			}
			logHandlerSummary(c, "unexpected_"+name, start, "skip", "ok", nil)
			return nil
		}
	}

	endpoints := []struct {
		endpoint string
		handler  tele.HandlerFunc
	}{
		{tele.OnText, textHandler},
		{tele.OnContact, attachmentHandler("contact")},
		{tele.OnPhoto, attachmentHandler("photo")},
		{tele.OnVideo, attachmentHandler("video")},
		{tele.OnDocument, attachmentHandler("document")},
	}

	routes := make([]tg.Route, 0, len(endpoints))
	for _, e := range endpoints {
		routes = append(routes, tg.Route{
			Endpoint: e.endpoint,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(e.handler)),
		})
	}
	return routes
}
