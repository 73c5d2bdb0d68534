// Package config provides configuration management for the synchronizer.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, upload limit)
//   - Dealer: dealer listing API endpoints and OAuth credentials
//   - State: path of the local VIN state file
//   - Inventory: feed parsing settings (location map file)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Reports: report archive directory and object prefix
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
