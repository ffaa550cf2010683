package bot

import (
	coretelegram "github.com/m3rciful/carbot/core/telegram"
	"github.com/m3rciful/carbot/core/telegram/commands"
	"github.com/m3rciful/carbot/core/telegram/router"
	"github.com/m3rciful/carbot/core/telegram/state"
	"github.com/m3rciful/carbot/internal/intake"
)

// Register wires commands, callbacks, and per-stage FSM handlers into the
// registry. It must run once before routes are built.
func Register(reg *coretelegram.Registry, h *Handlers) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Начать диалог",
	})

	_ = reg.RegisterCallback(cbAction, h.ActionCallback)
	_ = reg.RegisterCallback(cbContent, h.ContentCallback)

	fb := Fallbacks()
	reg.SetCallbackNotFound(fb.UnknownCallback())
	reg.SetTextFallback(fb.UnknownText())

	// StateAwaitingAction has no message handler on purpose: the stage is
	// driven by the inline keyboard, and stray text there is ignored.
	state.RegisterHandler(intake.StateAwaitingName, h.fsmText)
	state.RegisterHandler(intake.StateAwaitingPhone, h.fsmPhone)
	state.RegisterHandler(intake.StateAwaitingRequest, h.fsmText)
	state.RegisterHandler(intake.StateAwaitingMedia, h.fsmMedia)
}

// Routes assembles the full route table: commands, the callback router, and
// the message/media routes driven by the session manager.
func Routes(reg *coretelegram.Registry, sessions state.Manager) []coretelegram.Route {
	fb := Fallbacks()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.MessageRoutes(sessions, reg, router.MessageOptions{
		UnknownText:  fb.UnknownText(),
		UnknownMedia: fb.UnknownMedia(),
	})...)
	return routes
}
