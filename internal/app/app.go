// Package app assembles the brokerage intake bot from the core runtime and
// the domain packages.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/carbot/core/bootstrap"
	coretelegram "github.com/m3rciful/carbot/core/telegram"
	"github.com/m3rciful/carbot/core/telegram/middleware"
	"github.com/m3rciful/carbot/core/telegram/state"
	"github.com/m3rciful/carbot/internal/bot"
	"github.com/m3rciful/carbot/internal/intake"
	"github.com/m3rciful/carbot/internal/notify"
	"github.com/m3rciful/carbot/internal/repository"
	"github.com/m3rciful/carbot/internal/service"
)

// App holds the wired application components.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	sessions state.Manager
	notifier *notify.Notifier
	machine  *intake.Machine
}

// Bootstrap initializes infrastructure (logger, database, migrations) and
// wires the application services.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	admins, err := cfg.AdminList()
	if err != nil {
		_ = res.DB.Close()
		return nil, err
	}

	sessions := state.NewMemoryManager()
	users := service.NewUsers(repository.NewUsers(res.DB))
	notifier := notify.New(admins)
	machine := intake.New(sessions, users, notifier, intake.Options{
		MediaSettle: time.Duration(cfg.Intake.MediaSettleMS) * time.Millisecond,
		ChannelURL:  cfg.Intake.ChannelURL,
	})

	return &App{
		cfg:      cfg,
		db:       res.DB,
		sessions: sessions,
		notifier: notifier,
		machine:  machine,
	}, nil
}

// TelegramRunOptions builds the runtime options for the core bot runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	handlers := bot.NewHandlers(a.machine)
	bot.Register(reg, handlers)

	middlewares := coretelegram.DefaultMiddlewares(&a.cfg.Config, nil)
	middlewares = append(middlewares,
		coretelegram.Middleware{Name: "access", Use: middleware.PrivateOnlyMiddleware},
		coretelegram.Middleware{Name: "session_lock", Use: state.LockMiddleware(a.sessions)},
	)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: middlewares,
		Routes:      bot.Routes(reg, a.sessions),
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.notifier.SetSender(rt.Bot)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.notifier.SetSender(nil)
			return a.db.Close()
		},
	}, nil
}
