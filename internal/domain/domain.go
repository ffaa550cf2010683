// Package domain defines the entities shared by the intake flow, the user
// registry, and the admin notifier.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action is the intent the user selected at the start of the flow.
type Action int

const (
	// ActionUnknown marks an unrecognized intent payload.
	ActionUnknown Action = iota
	// ActionSell means the user wants to sell a vehicle.
	ActionSell
	// ActionBuy means the user wants to buy a vehicle.
	ActionBuy
)

// ParseAction maps a callback payload to an Action. The legacy "bay"
// spelling is still produced by old inline keyboards and maps to ActionBuy.
func ParseAction(payload string) (Action, bool) {
	switch payload {
	case "sell":
		return ActionSell, true
	case "buy", "bay":
		return ActionBuy, true
	}
	return ActionUnknown, false
}

// String returns the wire payload for the action.
func (a Action) String() string {
	switch a {
	case ActionSell:
		return "sell"
	case ActionBuy:
		return "buy"
	}
	return "unknown"
}

// MediaKind tags a media reference with its Telegram payload type.
type MediaKind int

const (
	// MediaPhoto is a compressed photo attachment.
	MediaPhoto MediaKind = iota + 1
	// MediaVideo is a video attachment.
	MediaVideo
	// MediaDocument is an uncompressed file attachment.
	MediaDocument
)

// String returns the lowercase kind name used in logs.
func (k MediaKind) String() string {
	switch k {
	case MediaPhoto:
		return "photo"
	case MediaVideo:
		return "video"
	case MediaDocument:
		return "document"
	}
	return "unknown"
}

// CaptionNone replaces an absent media caption.
const CaptionNone = "None"

// MediaRef is an opaque content handle: Telegram retains the bytes, the bot
// keeps only the file id for later re-dispatch.
type MediaRef struct {
	Kind   MediaKind
	FileID string
}

// Draft accumulates the fields of one conversation. Fields are populated
// strictly in stage order; a field is never read before its producing stage
// has completed.
type Draft struct {
	Username string
	Action   Action
	Name     string
	Phone    string
	Request  string
	Media    []MediaRef
	// Caption is overwritten by every captioned media message; only the
	// latest one survives into the lead.
	Caption string
	// BatchCount counts accepted items since the last add-more decision.
	BatchCount int
}

// Lead is the finalized snapshot of a completed conversation handed to the
// notifier. Immutable once constructed.
type Lead struct {
	ID        uuid.UUID
	UserID    int64
	Username  string
	Action    Action
	Name      string
	Phone     string
	Request   string
	Caption   string
	Media     []MediaRef
	CreatedAt time.Time
}
