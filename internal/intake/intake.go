// Package intake implements the conversation state machine of the brokerage
// bot: a fixed sequence of required inputs accumulated into a draft and, at
// the terminal stage, handed to the admin notifier as an immutable lead.
//
// The package is transport-free on purpose: handlers in internal/bot translate
// Telegram updates into the typed calls below and render the returned replies.
package intake

import (
	"context"
	"math/rand/v2"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/m3rciful/carbot/core/logger"
	"github.com/m3rciful/carbot/core/telegram/state"
	"github.com/m3rciful/carbot/internal/domain"
	"github.com/m3rciful/carbot/internal/phone"
)

// Conversation stages. Stored in the shared session manager so the message
// router can dispatch by the current stage.
const (
	StateAwaitingAction  state.State = "intake_action"
	StateAwaitingName    state.State = "intake_name"
	StateAwaitingPhone   state.State = "intake_phone"
	StateAwaitingRequest state.State = "intake_request"
	StateAwaitingMedia   state.State = "intake_media"
)

const draftKey = "intake_draft"

// Keyboard selects the markup the bot layer attaches to a reply.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardActions
	KeyboardContact
	KeyboardRemove
	KeyboardDecision
)

// Reply is a prompt produced by a stage handler.
type Reply struct {
	Text     string
	Keyboard Keyboard
	// Edit replaces the message carrying the pressed inline keyboard
	// instead of sending a new one.
	Edit bool
}

// Empty reports whether the stage produced no outbound prompt.
func (r Reply) Empty() bool { return r.Text == "" }

// Registrar upserts users into the persistent registry.
type Registrar interface {
	Register(ctx context.Context, tgID int64, username string) error
}

// Notifier delivers a finalized lead to the admin list.
type Notifier interface {
	Notify(ctx context.Context, lead domain.Lead)
}

// Options tune machine behaviour.
type Options struct {
	// MediaSettle bounds the randomized delay applied before accepting a
	// media item. Rapid attachment bursts may arrive out of strict order;
	// the delay reduces visible artifacts. Zero disables it.
	MediaSettle time.Duration
	// ChannelURL is appended to the farewell message when set.
	ChannelURL string
	// Sleep is replaceable in tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Machine owns stage transitions and the per-user draft accumulation.
type Machine struct {
	sessions state.Manager
	users    Registrar
	notifier Notifier

	settle     time.Duration
	channelURL string
	sleep      func(time.Duration)
}

// New constructs the state machine.
func New(sessions state.Manager, users Registrar, notifier Notifier, opts Options) *Machine {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Machine{
		sessions:   sessions,
		users:      users,
		notifier:   notifier,
		settle:     opts.MediaSettle,
		channelURL: opts.ChannelURL,
		sleep:      sleep,
	}
}

// Start resets the conversation, registers the sender, and greets with the
// sell/buy choice. A registry failure is logged and does not block the flow.
func (m *Machine) Start(ctx context.Context, userID int64, username string) Reply {
	if err := m.users.Register(ctx, userID, username); err != nil {
		logger.Intake.LogAttrs(ctx, slog.LevelWarn, "intake.register",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}

	m.sessions.SetTemp(userID, draftKey, &domain.Draft{Username: username})
	m.sessions.SetState(userID, StateAwaitingAction)

	logger.Intake.LogAttrs(ctx, slog.LevelDebug, "intake.start",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	return Reply{Text: textGreeting, Keyboard: KeyboardActions}
}

// ChooseAction stores the selected intent and advances to the name stage.
// It reports false when the payload is not a recognized action or when no
// conversation is waiting for one (a stale button press).
func (m *Machine) ChooseAction(ctx context.Context, userID int64, payload string) (Reply, bool) {
	if m.sessions.GetState(userID) != StateAwaitingAction {
		return Reply{}, false
	}
	action, ok := domain.ParseAction(payload)
	if !ok {
		logger.Intake.LogAttrs(ctx, slog.LevelDebug, "intake.action",
			slog.String("status", "skip"),
			slog.Int64("user_id", userID),
			slog.String("payload", logger.SanitizeLimit(payload, 64)),
		)
		return Reply{}, false
	}

	draft := m.draft(userID)
	draft.Action = action
	m.sessions.SetState(userID, StateAwaitingName)

	logger.Intake.LogAttrs(ctx, slog.LevelDebug, "intake.action",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("action", action.String()),
	)

	text := textAskNameBuy
	if action == domain.ActionSell {
		text = textAskNameSell
	}
	return Reply{Text: text, Edit: true}, true
}

// Text routes a free-text message to the current stage.
func (m *Machine) Text(ctx context.Context, userID int64, text string) Reply {
	switch m.sessions.GetState(userID) {
	case StateAwaitingName:
		draft := m.draft(userID)
		draft.Name = text
		m.sessions.SetState(userID, StateAwaitingPhone)
		m.logStage(ctx, userID, "name")
		return Reply{Text: textAskPhone, Keyboard: KeyboardContact}

	case StateAwaitingPhone:
		if !phone.Valid(text) {
			logger.Intake.LogAttrs(ctx, slog.LevelDebug, "intake.phone",
				slog.String("status", "retry"),
				slog.Int64("user_id", userID),
			)
			return Reply{Text: textBadPhone}
		}
		return m.acceptPhone(ctx, userID, text)

	case StateAwaitingRequest:
		draft := m.draft(userID)
		draft.Request = text
		draft.Media = nil
		draft.Caption = ""
		draft.BatchCount = 0
		m.sessions.SetState(userID, StateAwaitingMedia)
		m.logStage(ctx, userID, "request")
		return Reply{Text: textAskMedia}

	case StateAwaitingMedia:
		// Explicit rejection path: text never mutates the media list.
		return Reply{Text: textMediaOnly}
	}
	return Reply{}
}

// Contact accepts a shared-contact payload. The number is trusted and
// bypasses validation.
func (m *Machine) Contact(ctx context.Context, userID int64, number string) Reply {
	if m.sessions.GetState(userID) != StateAwaitingPhone {
		return Reply{}
	}
	return m.acceptPhone(ctx, userID, number)
}

// Media appends an accepted attachment to the draft. The first item of a
// batch prompts the add-more/send decision; further burst items are appended
// silently.
func (m *Machine) Media(ctx context.Context, userID int64, ref domain.MediaRef, caption string) Reply {
	if m.sessions.GetState(userID) != StateAwaitingMedia {
		return Reply{}
	}

	if m.settle > 0 {
		m.sleep(rand.N(m.settle))
	}

	draft := m.draft(userID)
	draft.Media = append(draft.Media, ref)
	if caption == "" {
		caption = domain.CaptionNone
	}
	draft.Caption = caption
	draft.BatchCount++

	logger.Intake.LogAttrs(ctx, slog.LevelDebug, "intake.media",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("media_kind", ref.Kind.String()),
		slog.Int("media_total", len(draft.Media)),
	)

	if draft.BatchCount == 1 {
		return Reply{Text: textMediaDecision, Keyboard: KeyboardDecision}
	}
	return Reply{}
}

// Decide handles the add-more/send decision. It reports false for an
// unrecognized payload or a stale button press.
func (m *Machine) Decide(ctx context.Context, userID int64, payload string) (Reply, bool) {
	if m.sessions.GetState(userID) != StateAwaitingMedia {
		return Reply{}, false
	}

	switch payload {
	case "add":
		draft := m.draft(userID)
		draft.BatchCount = 0
		m.logStage(ctx, userID, "media_add")
		return Reply{Text: textAskMoreMedia, Edit: true}, true
	case "send":
		return m.finalize(ctx, userID), true
	}
	return Reply{}, false
}

func (m *Machine) acceptPhone(ctx context.Context, userID int64, number string) Reply {
	draft := m.draft(userID)
	draft.Phone = number
	m.sessions.SetState(userID, StateAwaitingRequest)
	m.logStage(ctx, userID, "phone")

	if draft.Action == domain.ActionBuy {
		return Reply{Text: textAskRequestBuy(draft.Name), Keyboard: KeyboardRemove}
	}
	return Reply{Text: textAskRequestSell(draft.Name), Keyboard: KeyboardRemove}
}

func (m *Machine) finalize(ctx context.Context, userID int64) Reply {
	draft := m.draft(userID)

	lead := domain.Lead{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  draft.Username,
		Action:    draft.Action,
		Name:      draft.Name,
		Phone:     draft.Phone,
		Request:   draft.Request,
		Caption:   draft.Caption,
		Media:     append([]domain.MediaRef(nil), draft.Media...),
		CreatedAt: time.Now(),
	}

	m.notifier.Notify(ctx, lead)
	m.sessions.ClearState(userID)

	logger.Intake.LogAttrs(ctx, slog.LevelInfo, "intake.finalize",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("lead_id", lead.ID.String()),
		slog.String("action", lead.Action.String()),
		slog.Int("media_total", len(lead.Media)),
	)

	text := textThanksBuy
	if lead.Action == domain.ActionSell {
		text = textThanksSell
	}
	if m.channelURL != "" {
		text += "\n\n" + m.channelURL
	}
	return Reply{Text: text, Edit: true}
}

func (m *Machine) draft(userID int64) *domain.Draft {
	if d, ok := state.TempAs[*domain.Draft](m.sessions, userID, draftKey); ok {
		return d
	}
	d := &domain.Draft{}
	m.sessions.SetTemp(userID, draftKey, d)
	return d
}

func (m *Machine) logStage(ctx context.Context, userID int64, stage string) {
	logger.Intake.LogAttrs(ctx, slog.LevelDebug, "intake.stage",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("stage", stage),
	)
}
