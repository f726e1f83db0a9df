package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/session"
	"github.com/vancomm/minesweeper/internal/tui"
)

var (
	log = logrus.New()

	difficulty string
	player     string
	dbPath     string
	logPath    string
)

func init() {
	dataDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "minesweeper")
	}

	flag.StringVar(&difficulty, "difficulty", mines.Beginner.String(), "beginner, intermediate or expert")
	flag.StringVar(&difficulty, "d", mines.Beginner.String(), "difficulty (shorthand)")
	flag.StringVar(&player, "player", os.Getenv("USER"), "name recorded with highscores")
	flag.StringVar(&dbPath, "db", filepath.Join(dataDir, "highscores.db"), "sqlite highscore database, empty to disable")
	flag.StringVar(&logPath, "log", filepath.Join(dataDir, "minesweeper.log"), "log file path")
}

// setupLogging sends everything to a rotated file, since the terminal
// belongs to the UI.
func setupLogging() error {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(io.Discard)

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logPath,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      logLevel,
		Formatter:  &logrus.TextFormatter{DisableColors: true, FullTimestamp: true},
	})
	if err != nil {
		return err
	}
	log.AddHook(hook)
	return nil
}

func openStore(ctx context.Context) (*repository.SQLiteStore, func() error) {
	if dbPath == "" {
		return nil, func() error { return nil }
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.WithError(err).Error("unable to create data dir, highscores disabled")
		return nil, func() error { return nil }
	}
	store, closeDB, err := repository.OpenSQLite(ctx, dbPath)
	if err != nil {
		log.WithError(err).Error("unable to open highscore db, highscores disabled")
		return nil, func() error { return nil }
	}
	return store, closeDB
}

func recordWin(store repository.Store) func(session.Result) {
	return func(r session.Result) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.RecordWin(ctx, repository.FromResult(r)); err != nil {
			log.WithError(err).Error("unable to record highscore")
			return
		}
		log.WithFields(logrus.Fields{
			"difficulty": r.Difficulty.String(),
			"seconds":    r.Seconds,
		}).Info("highscore recorded")
	}
}

func main() {
	flag.Parse()

	d, err := mines.ParseDifficulty(difficulty)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := setupLogging(); err != nil {
		fmt.Fprintln(os.Stderr, "unable to set up logging:", err)
		os.Exit(1)
	}

	// slog output from the engine and the session ends up in the same file
	logWriter := log.Writer()
	defer logWriter.Close()
	level := slog.LevelInfo
	if config.Development() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: level}))
	mines.Log = logger

	store, closeDB := openStore(context.Background())
	defer closeDB()

	opts := session.Options{Logger: logger}
	var highscores repository.Store
	if store != nil {
		highscores = store
		opts.OnWin = recordWin(store)
	}

	s := session.New(uuid.New(), d, player, opts)
	defer s.Close()

	log.WithFields(logrus.Fields{
		"difficulty": d.String(),
		"player":     player,
	}).Info("starting up")

	program := tea.NewProgram(
		tui.NewModel(s, highscores, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		log.WithError(err).Error("exit reason")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
