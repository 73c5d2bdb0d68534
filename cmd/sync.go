package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dealer-sync/core/config"
	"dealer-sync/core/dealer"
	"dealer-sync/core/logger"
	"dealer-sync/core/state"
	coresync "dealer-sync/core/sync"
	"dealer-sync/feature/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	closeMissing bool
	updatePrices bool
	jsonOutput   bool
	stateFile    string
)

// syncCmd runs one synchronisation of a CSV feed against the remote listing.
var syncCmd = &cobra.Command{
	Use:   "sync <feed.csv>",
	Short: "Synchronize a CSV feed with the remote vehicle listing",
	Long: `Synchronize reads the partner CSV feed, compares it against the remembered
VIN state and pushes the difference to the dealer platform.

New VINs are created, known VINs are updated. With --close-missing, vehicles
that disappeared from the feed are closed on the platform. With
--update-prices, remote sales prices are refreshed when the feed price
changed.

Examples:
  # Plain run, report printed as text
  dealer-sync sync feed.csv

  # Full run with JSON report
  dealer-sync sync feed.csv --close-missing --update-prices --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&closeMissing, "close-missing", false, "Close vehicles absent from the feed")
	syncCmd.Flags().BoolVar(&updatePrices, "update-prices", false, "Push changed sales prices to the platform")
	syncCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the detailed report as JSON")
	syncCmd.Flags().StringVar(&stateFile, "state-file", "", "Override the state file path")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if stateFile != "" {
		cfg.State.File = stateFile
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	var locations *inventory.Locations
	if cfg.Inventory.LocationMapFile != "" {
		locations = inventory.NewLocations(cfg.Inventory.LocationMapFile, l)
	}

	vehicles, rowErrors, err := inventory.LoadVehicles(args[0], locations)
	if err != nil {
		return fmt.Errorf("failed to read feed: %w", err)
	}
	if len(rowErrors) > 0 {
		// A partial feed is not synchronized at all: with --close-missing a
		// row that failed validation would close its listed vehicle.
		for _, rowErr := range rowErrors {
			l.Error("Invalid feed row", zap.String("row", rowErr.String()))
		}
		return fmt.Errorf("feed rejected: %d rows failed validation", len(rowErrors))
	}

	client, err := dealer.NewClient(cfg.Dealer, l)
	if err != nil {
		return fmt.Errorf("failed to create dealer client: %w", err)
	}

	store := state.Open(cfg.State.File, l)

	report := coresync.New(client, store, l).Run(ctx, vehicles, coresync.Options{
		CloseMissing: closeMissing,
		UpdatePrices: updatePrices,
	})

	if err := printReport(l, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return fmt.Errorf("sync finished with %d errors", len(report.Errors))
	}
	return nil
}

// printReport renders the run outcome, as JSON on stdout or through the logger.
func printReport(l *zap.Logger, report *coresync.Report) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Detailed())
	}

	l.Info("Synchronisation finished",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("price_updates", report.PriceUpdates),
		zap.Int("closed", report.Closed),
		zap.Int("errors", len(report.Errors)),
	)
	for _, detail := range report.Errors {
		l.Error("Sync error",
			zap.String("vin", detail.VIN),
			zap.String("car_id", detail.CarID),
			zap.String("message", detail.Message),
		)
	}
	return nil
}
