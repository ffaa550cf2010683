package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/carbot/core/telegram/helpers"
	"github.com/m3rciful/carbot/internal/domain"
	"github.com/m3rciful/carbot/internal/intake"
)

// Handlers translate Telegram updates into intake machine calls and render
// the resulting prompts.
type Handlers struct {
	machine *intake.Machine
}

// NewHandlers constructs the handler set.
func NewHandlers(machine *intake.Machine) *Handlers {
	return &Handlers{machine: machine}
}

// Start handles /start: reset the conversation and greet with the
// sell/buy choice.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	reply := h.machine.Start(ctx, c.Sender().ID, c.Sender().Username)
	return h.render(c, reply)
}

// ActionCallback handles the sell/buy inline choice.
func (h *Handlers) ActionCallback(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "intake_action")
	payload := callbacks.CallbackPayload(c)
	reply, ok := h.machine.ChooseAction(ctx, c.Sender().ID, payload)
	if !ok {
		// Stale or forged button; the callback was already acked.
		return nil
	}
	return h.render(c, reply)
}

// ContentCallback handles the add-more/send decision during the media stage.
func (h *Handlers) ContentCallback(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "intake_content")
	payload := callbacks.CallbackPayload(c)
	reply, ok := h.machine.Decide(ctx, c.Sender().ID, payload)
	if !ok {
		return nil
	}
	return h.render(c, reply)
}

// fsmText serves the name and request stages, which accept any text.
func (h *Handlers) fsmText(c tele.Context) error {
	text := c.Text()
	if text == "" {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	return h.render(c, h.machine.Text(ctx, c.Sender().ID, text))
}

// fsmPhone serves the phone stage: a shared contact is trusted, free text is
// validated by the machine.
func (h *Handlers) fsmPhone(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if msg := c.Message(); msg != nil && msg.Contact != nil {
		return h.render(c, h.machine.Contact(ctx, c.Sender().ID, msg.Contact.PhoneNumber))
	}
	return h.fsmText(c)
}

// fsmMedia serves the media stage: photo, video, or document payloads are
// accepted, anything else re-prompts.
func (h *Handlers) fsmMedia(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	msg := c.Message()
	ref, ok := mediaRefFrom(msg)
	if !ok {
		return h.fsmText(c)
	}
	return h.render(c, h.machine.Media(ctx, c.Sender().ID, ref, msg.Caption))
}

func mediaRefFrom(msg *tele.Message) (domain.MediaRef, bool) {
	if msg == nil {
		return domain.MediaRef{}, false
	}
	switch {
	case msg.Photo != nil:
		return domain.MediaRef{Kind: domain.MediaPhoto, FileID: msg.Photo.FileID}, true
	case msg.Video != nil:
		return domain.MediaRef{Kind: domain.MediaVideo, FileID: msg.Video.FileID}, true
	case msg.Document != nil:
		return domain.MediaRef{Kind: domain.MediaDocument, FileID: msg.Document.FileID}, true
	}
	return domain.MediaRef{}, false
}

func (h *Handlers) render(c tele.Context, r intake.Reply) error {
	if r.Empty() {
		return nil
	}
	markup := markupFor(r.Keyboard)
	if r.Edit {
		// Editing without markup also clears the pressed inline keyboard.
		if markup != nil {
			return c.EditOrSend(r.Text, markup)
		}
		return c.EditOrSend(r.Text)
	}
	if markup != nil {
		return tghelpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: markup})
	}
	return tghelpers.SendText(c, r.Text)
}
