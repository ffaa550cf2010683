// Package notify fans a finalized lead out to the configured admin list.
// Delivery is fire-and-forget: each recipient is its own failure domain, and
// a media item whose whole fallback chain fails is dropped for that recipient
// only.
package notify

import (
	"context"
	"fmt"
	"sync/atomic"

	"log/slog"

	"github.com/hashicorp/go-multierror"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/carbot/core/logger"
	"github.com/m3rciful/carbot/internal/domain"
)

// Sender is the outbound surface the notifier needs; *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier delivers lead summaries and media to admin chats.
type Notifier struct {
	admins []int64
	sender atomic.Pointer[senderBox]
}

type senderBox struct{ s Sender }

// New constructs a notifier for the given admin chat ids. The sender is wired
// later, once the bot is built.
func New(admins []int64) *Notifier {
	return &Notifier{admins: append([]int64(nil), admins...)}
}

// SetSender wires the outbound transport.
func (n *Notifier) SetSender(s Sender) {
	if s == nil {
		n.sender.Store(nil)
		return
	}
	n.sender.Store(&senderBox{s: s})
}

// Notify delivers the lead to every admin independently. Failures are logged
// and never surfaced to the conversation that produced the lead.
func (n *Notifier) Notify(ctx context.Context, lead domain.Lead) {
	box := n.sender.Load()
	if box == nil {
		logger.Notify.LogAttrs(ctx, slog.LevelError, "notify.skip",
			slog.String("status", "fail"),
			slog.String("lead_id", lead.ID.String()),
			slog.String("cause", "sender not wired"),
		)
		return
	}

	summary := Summary(lead)
	for _, admin := range n.admins {
		n.deliver(ctx, box.s, admin, lead, summary)
	}

	logger.Notify.LogAttrs(ctx, slog.LevelInfo, "notify.done",
		slog.String("status", "ok"),
		slog.String("lead_id", lead.ID.String()),
		slog.Int("admins", len(n.admins)),
		slog.Int("media_total", len(lead.Media)),
	)
}

// deliver runs one recipient's full sequence inside its own failure boundary:
// a panic or error here must not stop the remaining recipients.
func (n *Notifier) deliver(ctx context.Context, s Sender, admin int64, lead domain.Lead, summary string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Notify.LogAttrs(ctx, slog.LevelError, "notify.panic",
				slog.String("status", "fail"),
				slog.String("lead_id", lead.ID.String()),
				slog.Int64("admin_id", admin),
				slog.String("err", fmt.Sprint(r)),
			)
		}
	}()

	rec := tele.ChatID(admin)
	var errs *multierror.Error
	sent, dropped := 0, 0

	for _, m := range lead.Media {
		if err := sendMedia(s, rec, m, lead.Caption); err != nil {
			dropped++
			errs = multierror.Append(errs, err)
			continue
		}
		sent++
	}

	if _, err := s.Send(rec, summary, &tele.SendOptions{ParseMode: tele.ModeMarkdown}); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("summary: %w", err))
	}

	if err := errs.ErrorOrNil(); err != nil {
		logger.Notify.LogAttrs(ctx, slog.LevelWarn, "notify.partial",
			slog.String("status", "fail"),
			slog.String("lead_id", lead.ID.String()),
			slog.Int64("admin_id", admin),
			slog.Int("items_sent", sent),
			slog.Int("items_dropped", dropped),
			slog.String("err", logger.SanitizeLimit(err.Error(), 512)),
		)
	}
}

// fallbackChain yields delivery types starting with the declared one, then
// the fixed fallback order photo → video → document.
func fallbackChain(declared domain.MediaKind) []domain.MediaKind {
	chain := []domain.MediaKind{declared}
	for _, k := range []domain.MediaKind{domain.MediaPhoto, domain.MediaVideo, domain.MediaDocument} {
		if k != declared {
			chain = append(chain, k)
		}
	}
	return chain
}

func sendMedia(s Sender, rec tele.Recipient, ref domain.MediaRef, caption string) error {
	var errs *multierror.Error
	for _, kind := range fallbackChain(ref.Kind) {
		if _, err := s.Send(rec, mediaPayload(kind, ref.FileID, caption)); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s %s: %w", kind, ref.FileID, err))
			continue
		}
		return nil
	}
	return errs.ErrorOrNil()
}

func mediaPayload(kind domain.MediaKind, fileID, caption string) interface{} {
	if caption == domain.CaptionNone {
		caption = ""
	}
	file := tele.File{FileID: fileID}
	switch kind {
	case domain.MediaVideo:
		return &tele.Video{File: file, Caption: caption}
	case domain.MediaDocument:
		return &tele.Document{File: file, Caption: caption}
	default:
		return &tele.Photo{File: file, Caption: caption}
	}
}
