// wayhome is a turn-based puzzle game played in the terminal: reshape the
// board with a handful of tools so a wandering spirit can collect its
// essences and walk home.
//
// Usage:
//
//	wayhome levels                     - List available levels
//	wayhome play [level]               - Play a level (menu without one)
//	wayhome run <level> --script ...   - Play a level headless from a script
//	wayhome saves                      - List save slots
//	wayhome scores <level>             - Show high scores for a level
//	wayhome serve                      - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>      - Game configuration YAML
//	--difficulty <name>  - easy, normal or hard
//	--levels <dir>       - Load levels from a directory instead of the built-in set
//	--db <path>          - Database path (default from config: ~/.wayhome/wayhome.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wayhome/internal/config"
	"github.com/vovakirdan/wayhome/internal/level"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagDBPath     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wayhome",
	Short: "Way Home - guide a lost spirit home, one tool at a time",
	Long: `Way Home is a terminal puzzle game. A spirit walks the shortest way to
its essences and then home; you get a few tool uses per level to clear
that way: lightning, tremor, grow and command.

Available commands:
  levels   - Show all available levels
  play     - Play a level (or pick one from the menu)
  run      - Play a level headless from a script
  saves    - List and delete save slots
  scores   - View high scores
  serve    - Start SSH server for remote play

Examples:
  wayhome levels
  wayhome play 01-meadow
  wayhome play --load 1
  wayhome run 01-meadow --script "lightning 4 2; start"
  wayhome serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Directory of level YAML files (built-in levels if empty)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the game configuration from the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// newLogger builds the stderr logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "wayhome",
	})
	lvl, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// levelLoader returns the loader the global flags select.
func levelLoader() *level.Loader {
	if flagLevelsDir != "" {
		return level.NewLoader(flagLevelsDir)
	}
	return level.Embedded()
}

// mustSetup loads config and exits on failure, like every command needs.
func mustSetup() config.Config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustLevel loads one level by id and exits when it does not exist.
func mustLevel(id string) level.Level {
	lvl, err := levelLoader().LoadByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'wayhome levels' to see available levels.")
		os.Exit(1)
	}
	return lvl
}
