package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wayhome/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List save slots",
	Long: `Show what every save slot holds. Games are saved with ctrl+s while
playing and resumed with 'wayhome play --load <slot>'.

Examples:
  wayhome saves
  wayhome saves delete 2`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete the save in a slot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

func init() {
	savesCmd.AddCommand(savesDeleteCmd)
}

func openStore() *storage.Store {
	cfg := mustSetup()
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runSaves(cmd *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	saves, err := store.ListSaves()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		os.Exit(1)
	}

	bySlot := make(map[int]storage.SaveEntry, len(saves))
	for _, s := range saves {
		bySlot[s.Slot] = s
	}

	fmt.Printf("  %-4s  %-16s  %-5s  %-6s  %-5s  %s\n", "Slot", "Level", "Moves", "Energy", "Lives", "Saved")
	fmt.Printf("  %-4s  %-16s  %-5s  %-6s  %-5s  %s\n", "----", "-----", "-----", "------", "-----", "-----")
	for slot := 1; slot <= storage.MaxSlots; slot++ {
		s, ok := bySlot[slot]
		if !ok {
			fmt.Printf("  %-4d  %s\n", slot, "(empty)")
			continue
		}
		fmt.Printf("  %-4d  %-16s  %-5d  %-6d  %-5d  %s\n",
			slot, s.LevelID, s.Moves, s.Energy, s.Lives, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesDelete(cmd *cobra.Command, args []string) {
	slot, err := strconv.Atoi(args[0])
	if err != nil || slot < 1 || slot > storage.MaxSlots {
		fmt.Fprintf(os.Stderr, "Error: slot must be a number from 1 to %d\n", storage.MaxSlots)
		os.Exit(1)
	}

	store := openStore()
	defer store.Close()

	id, err := store.SaveInSlot(slot)
	if err == nil {
		err = store.DeleteSave(id)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Slot %d deleted.\n", slot)
}
