// checkers-local is a two-player checkers game for the terminal or the browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"checkers-local/board"
	"checkers-local/config"
	"checkers-local/engine"
	"checkers-local/msgcat"
	"checkers-local/obslog"
	"checkers-local/types"
	"checkers-local/ui"
	"checkers-local/web"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagWeb         = flag.Bool("web", false, "Serve the game to a browser instead of the terminal")
	flagAddr        = flag.String("addr", "", "Listen address for -web (default from config)")
	flagLocale      = flag.String("locale", "", "Message locale (en or ru)")
	flagMessages    = flag.String("messages", "", "Directory with YAML message overrides")
	flagSnapshot    = flag.String("snapshot", "", "Write the starting board as PNG to this file and exit")
	flagWriteConfig = flag.Bool("write-config", false, "Write the effective config to the XDG config file and exit")
	flagVersion     = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("checkers-local %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fail(err)
	}
	if *flagLocale != "" {
		cfg.Locale = *flagLocale
	}
	if *flagAddr != "" {
		cfg.Web.Addr = *flagAddr
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	if *flagWriteConfig {
		if err := cfg.Save(); err != nil {
			fail(err)
		}
		fmt.Println("config written")
		return
	}

	logger, err := initLogger(*flagWeb && cfg.Log.Console)
	if err != nil {
		fail(err)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := msgcat.New(cfg.Locale, *flagMessages)
	if err != nil {
		fail(err)
	}

	switch {
	case *flagSnapshot != "":
		err = writeSnapshot(*flagSnapshot, logger)
	case *flagWeb:
		err = runWeb(cat, logger)
	default:
		err = runTerminal(cat, logger)
	}
	if err != nil {
		logger.Error("exit with error", zap.Error(err))
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// initLogger writes to the log file. Only the browser host may also log to
// stderr; the terminal belongs to tview.
func initLogger(console bool) (*zap.Logger, error) {
	path, err := cfg.LogFilePath()
	if err != nil {
		return nil, fmt.Errorf("locate log file: %w", err)
	}
	opts := obslog.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   path,
	}
	if console {
		opts.Console = os.Stderr
	}
	logger, err := obslog.Init(opts)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("session", uuid.NewString())), nil
}

func writeSnapshot(path string, logger *zap.Logger) error {
	ctrl := engine.NewController(board.NewStandard(), nil, engine.WithLogger(logger))
	if err := ui.WriteSnapshot(context.Background(), ctrl.BoardState(), path, cfg.Theme.DrawCoordinates); err != nil {
		return err
	}
	logger.Info("snapshot written", zap.String("path", path))
	fmt.Println(path)
	return nil
}

func runWeb(cat *msgcat.Catalog, logger *zap.Logger) error {
	server := web.NewServer(cfg.Web.Addr, func(p engine.Presenter) *engine.Controller {
		return engine.NewController(board.NewStandard(), p, engine.WithLogger(logger))
	}, cat,
		web.WithLogger(logger),
		web.WithCoordinates(cfg.Theme.DrawCoordinates),
		web.WithAnimation(cfg.Animation),
		web.WithAnyOrigin(cfg.Web.AllowAnyOrigin),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(os.Stderr, "checkers-local serving on %s\n", cfg.Web.Addr)
	return server.Run(ctx)
}

func runTerminal(cat *msgcat.Catalog, logger *zap.Logger) error {
	app = tview.NewApplication()
	app.EnableMouse(true)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⛀ checkers ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoardUI(app, cfg, cat, gameHint)
	gameBoard.SetLogger(logger)

	ctrl := engine.NewController(board.NewStandard(), gameBoard, engine.WithLogger(logger))
	gameBoard.ConnectController(ctrl)
	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.OnWinner(func(winner types.Color, text string) {
		modal := tview.NewModal().
			SetText(text).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("winner")
				app.SetFocus(gameBoard.Box)
			})
		modal.SetBackgroundColor(ui.MenuColors.ModalBG)
		modal.SetTextColor(ui.MenuColors.ModalText)
		rootPage.AddPage("winner", modal, true, true)
	})

	// Game board input handling
	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyDown:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			gameBoard.Activate()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(-1, 0)
			case 'j':
				gameBoard.MoveSelection(0, 1)
			case 'k':
				gameBoard.MoveSelection(0, -1)
			case 'l':
				gameBoard.MoveSelection(1, 0)
			case ' ':
				gameBoard.Activate()
			case 's':
				gameBoard.Snapshot()
			case 'c':
				rootPage.SwitchToPage("colors")
			case 'q':
				if gameBoard.SelectedTile() != nil {
					gameBoard.ResetSelection()
				} else {
					app.Stop()
				}
			}
			return nil
		}
		return event
	})

	// Square color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("gameview")
	}, func(err error) {
		logger.Warn("save config", zap.Error(err))
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			gameBoard.SetConfig(cfg)
			rootPage.SwitchToPage("gameview")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("gameview", gameFrame, true, true)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	logger.Info("terminal host started", zap.String("locale", cat.Locale()))
	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
