package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and temporary data for a user.
type Session struct {
	State    State
	TempData map[string]interface{}
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	Get(userID int64) *Session
	Set(userID int64, state State)
	SetTemp(userID int64, key string, value interface{})
	ClearTemp(userID int64, key string)
	GetTemp(userID int64, key string) (interface{}, bool)
	Clear(userID int64)

	// Dialog state
	SetState(userID int64, st State)
	GetState(userID int64) State
	HasState(userID int64) bool
	ClearState(userID int64)

	// Acquire takes the per-user lock and returns its release function.
	// Handlers hold it for the duration of one update so two updates for
	// the same chat cannot race on the session bag.
	Acquire(userID int64) (release func())

	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TempAs retrieves a temporary session value by key and asserts it to T.
func TempAs[T any](m Manager, userID int64, key string) (T, bool) {
	var zero T
	if m == nil {
		return zero, false
	}
	val, found := m.GetTemp(userID, key)
	if !found {
		return zero, false
	}
	v, ok := val.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
