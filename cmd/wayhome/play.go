package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wayhome/internal/core"
	"github.com/vovakirdan/wayhome/internal/engine"
	"github.com/vovakirdan/wayhome/internal/platform/tui"
	"github.com/vovakirdan/wayhome/internal/storage"
)

var (
	flagSlot int
	flagLoad int
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing the given level, or pick one from the menu.

Controls:
  Arrows/WASD  - Move the cursor
  I L T G C    - Select inspect, lightning, tremor, grow, command
  Enter        - Use the tool on the cursor tile (command: entity, then destination)
  Space        - Send the spirit along its path
  Ctrl+S       - Save to the current slot
  R            - Restart after losing (costs a life)
  Esc/B        - Cancel a command, or leave
  Q/Ctrl+C     - Quit

Examples:
  wayhome play
  wayhome play 02-riverbank --difficulty easy
  wayhome play 03-bog --slot 2
  wayhome play --load 2`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagSlot, "slot", 1, fmt.Sprintf("Save slot for ctrl+s (1-%d)", storage.MaxSlots))
	playCmd.Flags().IntVar(&flagLoad, "load", 0, "Resume the game saved in this slot")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := mustSetup()

	// Get terminal size early for centering
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Sim.TickRate,
	}

	// Open storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if len(args) == 0 && flagLoad == 0 {
		levels, err := levelLoader().LoadAll()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
			os.Exit(1)
		}
		if err := tui.RunSession(tui.SessionOptions{Levels: levels, Game: cfg, Store: store}, rc); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := tui.Options{Store: store, Slot: flagSlot}
	var levelID string
	if len(args) == 1 {
		levelID = args[0]
	}
	if flagLoad != 0 {
		st, err := loadSlot(store, flagLoad)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if levelID != "" && levelID != st.Level {
			fmt.Fprintf(os.Stderr, "Error: slot %d holds %s, not %s\n", flagLoad, st.Level, levelID)
			os.Exit(1)
		}
		levelID = st.Level
		opts.Resume = &st
		if !cmd.Flags().Changed("slot") {
			opts.Slot = flagLoad
		}
	}

	model, err := tui.NewModel(mustLevel(levelID), cfg, rc, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := tui.Run(model); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

func loadSlot(store *storage.Store, slot int) (engine.SaveState, error) {
	if store == nil {
		return engine.SaveState{}, errors.New("no database to load from")
	}
	id, err := store.SaveInSlot(slot)
	if err != nil {
		return engine.SaveState{}, err
	}
	st, _, err := store.LoadGame(id)
	return st, err
}
