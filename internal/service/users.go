// Package service wraps repositories with application logging.
package service

import (
	"context"
	"time"

	"log/slog"

	"github.com/m3rciful/carbot/core/logger"
	"github.com/m3rciful/carbot/internal/repository"
)

// UsernameSentinel replaces an absent Telegram username in the registry.
const UsernameSentinel = "None"

// Users registers Telegram users on first contact.
type Users struct {
	repo *repository.Users
}

// NewUsers constructs the users service.
func NewUsers(repo *repository.Users) *Users {
	return &Users{repo: repo}
}

// Register upserts the sender into the registry, defaulting the username to
// the sentinel when Telegram provides none.
func (s *Users) Register(ctx context.Context, tgID int64, username string) error {
	if username == "" {
		username = UsernameSentinel
	}

	start := time.Now()
	_, err := s.repo.Upsert(ctx, tgID, username)
	if err != nil {
		logger.SVCUsers.LogAttrs(ctx, slog.LevelError, "user.upsert",
			slog.String("status", "fail"),
			slog.Int64("user_id", tgID),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return err
	}

	logger.SVCUsers.LogAttrs(ctx, slog.LevelDebug, "user.upsert",
		slog.String("status", "ok"),
		slog.Int64("user_id", tgID),
		slog.String("username", logger.SanitizeLimit(username, 64)),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
