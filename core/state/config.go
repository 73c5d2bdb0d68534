package state

// Config holds configuration for the state store.
type Config struct {
	// File is the path of the JSON state file.
	File string `mapstructure:"file" default:"state.json"`
}
