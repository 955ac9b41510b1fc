package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wayhome/internal/actor"
	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/engine"
	"github.com/vovakirdan/wayhome/internal/event"
	"github.com/vovakirdan/wayhome/internal/platform/tui"
	"github.com/vovakirdan/wayhome/internal/storage"
)

var (
	flagScript     string
	flagScriptFile string
	flagLimit      int
	flagRender     bool
	flagRecord     bool
)

var runCmd = &cobra.Command{
	Use:   "run <level>",
	Short: "Play a level headless from a script",
	Long: `Plays a level without the interactive UI. Steps are separated by
semicolons or newlines:

  inspect x y | lightning x y | tremor x y | grow x y
  command x y dx dy | start | wait n | restart

Each step waits for the board to settle first. Events are logged to stderr.

Examples:
  wayhome run 01-meadow --script "lightning 4 2; start; start" --render
  wayhome run 03-bog --script-file bog.txt --log-level debug --record`,
	Args: cobra.ExactArgs(1),
	Run:  runScript,
}

func init() {
	runCmd.Flags().StringVar(&flagScript, "script", "", "Steps to play")
	runCmd.Flags().StringVar(&flagScriptFile, "script-file", "", "Read steps from a file")
	runCmd.Flags().IntVar(&flagLimit, "limit", 2000, "Maximum ticks to wait for the board to settle")
	runCmd.Flags().BoolVar(&flagRender, "render", false, "Print the board when done")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the score of a cleared level")
}

func runScript(cmd *cobra.Command, args []string) {
	cfg := mustSetup()
	logger := newLogger(cfg)
	lvl := mustLevel(args[0])

	src := flagScript
	if flagScriptFile != "" {
		data, err := os.ReadFile(flagScriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
			os.Exit(1)
		}
		src = string(data)
	}
	steps, err := engine.ParseScript(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	board := tui.NewBoard()
	eng, err := engine.New(lvl, cfg, engine.Options{
		Logger:   logger,
		Sink:     event.LogSink{Log: logger.With("level", lvl.ID)},
		Renderer: board,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := eng.Run(ctx, steps, flagLimit)

	if flagRender {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			w, h := board.Size(eng.Grid())
			screen := core.NewScreen(w, h)
			board.Draw(screen, eng, tui.Overlay{})
			fmt.Println(tui.RenderScreen(screen))
		} else {
			fmt.Println(board.Text(eng, tui.Overlay{}))
		}
	}

	fmt.Printf("Level:    %s\n", lvl.ID)
	fmt.Printf("Outcome:  %s\n", eng.Outcome())
	fmt.Printf("Moves:    %d\n", eng.Turns().Moves())
	fmt.Printf("Energy:   %d\n", eng.Actor().Energy())
	fmt.Printf("Lives:    %d\n", eng.Lives())
	fmt.Printf("Ticks:    %d\n", eng.Ticks())
	if eng.Outcome() == actor.Cleared {
		fmt.Printf("Score:    %d\n", eng.Score())
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}

	if flagRecord && eng.Outcome() == actor.Cleared {
		store, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		if _, err := store.SaveScore(lvl.ID, eng.Score()); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving score: %v\n", err)
			os.Exit(1)
		}
		logger.Info("score recorded", "level", lvl.ID, "score", eng.Score())
	}
}
