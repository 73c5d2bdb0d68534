package inventory

// Config holds configuration for feed ingestion.
type Config struct {
	// LocationMapFile points at the JSON file mapping partner location ids
	// to platform location ids. Empty disables location resolution.
	LocationMapFile string `mapstructure:"location_map_file" default:""`
}
