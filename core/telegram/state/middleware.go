package state

import tele "gopkg.in/telebot.v4"

// LockMiddleware serializes update handling per user. The per-user lock is
// held until the downstream handler returns, so a burst of updates from one
// chat mutates the session bag one event at a time.
func LockMiddleware(mgr Manager) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if mgr == nil || sender == nil {
				return next(c)
			}
			release := mgr.Acquire(sender.ID)
			defer release()
			return next(c)
		}
	}
}
