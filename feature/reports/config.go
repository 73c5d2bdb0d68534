package reports

// Config holds configuration for the report archive.
type Config struct {
	// Dir is the local directory for archived reports when object storage
	// is disabled. Empty means a directory under the system temp dir.
	Dir string `mapstructure:"dir" default:""`
	// Prefix is the object key prefix used in the storage bucket.
	Prefix string `mapstructure:"prefix" default:"reports"`
}
