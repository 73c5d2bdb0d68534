package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"dealer-sync/core/config"
	"dealer-sync/core/logger"
	"dealer-sync/core/state"

	"github.com/spf13/cobra"
)

var stateFileFlag string

// stateCmd is the parent command for state store inspection.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the local VIN state store",
	Long: `State inspects the local file that remembers which VIN maps to which
platform car id. Useful to debug drift between the feed and the listing.`,
}

// stateListCmd prints every known VIN mapping.
var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known VIN mappings",
	RunE:  runStateList,
}

// stateShowCmd prints the full entry for one VIN.
var stateShowCmd = &cobra.Command{
	Use:   "show <vin>",
	Short: "Show the state entry for a single VIN",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateShow,
}

func init() {
	stateCmd.PersistentFlags().StringVar(&stateFileFlag, "state-file", "", "Override the state file path")
	stateCmd.AddCommand(stateListCmd)
	stateCmd.AddCommand(stateShowCmd)
	RootCmd.AddCommand(stateCmd)
}

func openStateStore() (*state.Store, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if stateFileFlag != "" {
		cfg.State.File = stateFileFlag
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return state.Open(cfg.State.File, l), nil
}

func runStateList(cmd *cobra.Command, args []string) error {
	store, err := openStateStore()
	if err != nil {
		return err
	}

	entries := store.All()
	vins := make([]string, 0, len(entries))
	for vin := range entries {
		vins = append(vins, vin)
	}
	sort.Strings(vins)

	fmt.Printf("%-20s %-20s %s\n", "VIN", "CAR ID", "STATUS")
	for _, vin := range vins {
		entry := entries[vin]
		status := "active"
		if !entry.Active {
			status = "deleted"
		}
		fmt.Printf("%-20s %-20s %s\n", vin, entry.CarID, status)
	}
	fmt.Printf("\n%d entries in %s\n", len(vins), store.Path())
	return nil
}

func runStateShow(cmd *cobra.Command, args []string) error {
	store, err := openStateStore()
	if err != nil {
		return err
	}

	entry, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown VIN: %s", args[0])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entry)
}
