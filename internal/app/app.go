package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/database"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/session"
)

const recordTimeout = 5 * time.Second

type App struct {
	logger     *slog.Logger
	router     *http.ServeMux
	store      repository.Store
	sessions   *session.Registry
	ws         *config.WebSocket
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		router:     http.NewServeMux(),
		migrations: migrations,
	}
}

// RecordWin stores a won game as a highscore. It is a no-op without a store.
func (a *App) RecordWin(r session.Result) {
	if a.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := a.store.RecordWin(ctx, repository.FromResult(r))
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		a.logger.Debug("highscore already recorded", slog.String("session", r.SessionID.String()))
	case err != nil:
		a.logger.Error("unable to record highscore", slog.Any("error", err))
	}
}

func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := config.BasePath(); base != "" {
		h = http.StripPrefix(base, h)
	}
	return middleware.Wrap(
		h,
		middleware.Recover(a.logger),
		middleware.Logging(a.logger),
		middleware.Cors(config.AllowedOrigins()),
	)
}

func (a *App) Start(ctx context.Context) error {
	sessionConfig, err := config.NewSession()
	if err != nil {
		return err
	}

	db, _, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		a.logger.Error("unable to connect to db, highscores disabled", slog.Any("error", err))
	} else {
		defer db.Close()
		a.store = repository.New(db)
	}

	a.ws = config.NewWebSocket(config.AllowedOrigins())
	a.sessions = session.NewRegistry(a.logger, session.Options{OnWin: a.RecordWin})
	a.loadRoutes()

	addr := config.Addr()
	server := &http.Server{
		Addr:        addr,
		Handler:     a.Handler(),
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.sessions.RunSweeper(gCtx, sessionConfig.SweepInterval, sessionConfig.TTL)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
