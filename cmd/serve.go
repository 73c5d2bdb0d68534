package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dealer-sync/core/config"
	"dealer-sync/core/dealer"
	"dealer-sync/core/loader"
	"dealer-sync/core/logger"
	"dealer-sync/core/middleware/auth"
	"dealer-sync/core/middleware/rayid"
	"dealer-sync/core/state"
	coresync "dealer-sync/core/sync"
	"dealer-sync/core/storage"
	"dealer-sync/feature/inventory"
	"dealer-sync/feature/reports"
	"dealer-sync/feature/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the synchronisation HTTP server",
	Long: `Starts the HTTP server. Partners post CSV feeds to /sync and fetch
archived run reports from /reports/{id}.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Dealer API client and state store
		client, err := dealer.NewClient(cfg.Dealer, logg)
		if err != nil {
			logg.Fatal("Failed to create dealer client", zap.Error(err))
		}

		store := state.Open(cfg.State.File, logg)
		synchronizer := coresync.New(client, store, logg)

		var locations *inventory.Locations
		if cfg.Inventory.LocationMapFile != "" {
			locations = inventory.NewLocations(cfg.Inventory.LocationMapFile, logg)
		}

		// 4. Report archive, object storage when enabled
		var archive reports.Archive
		if cfg.Storage.Enabled {
			objClient, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			archive, err = reports.NewObjectArchive(context.Background(), objClient, cfg.Storage.Bucket, cfg.Reports.Prefix)
			if err != nil {
				logg.Fatal("Failed to prepare report bucket", zap.Error(err))
			}
		} else {
			archive, err = reports.NewLocalArchive(cfg.Reports.Dir)
			if err != nil {
				logg.Fatal("Failed to prepare report directory", zap.Error(err))
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.MaxUploadBytes,
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager(logg)

		// Register Features
		mgr.Register(upload.NewFeature(locations, synchronizer, archive, logg))
		mgr.Register(reports.NewFeature(archive, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			// Log error if happened
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		if err := store.Save(); err != nil {
			logg.Error("Failed to persist state on shutdown", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
