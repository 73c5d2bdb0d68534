package inventory

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Locations resolves partner location identifiers to the platform's own
// location ids. It is an explicitly-owned lookup service: callers construct
// it, inject it where needed and call Reload when the mapping file changed,
// instead of relying on hidden global cache state.
type Locations struct {
	path    string
	mapping map[string]string
	logger  *zap.Logger
}

// NewLocations creates the lookup service and performs the initial load.
// A missing or unreadable mapping file yields an empty mapping with a
// warning; unresolved locations are then simply dropped from payloads.
func NewLocations(path string, logger *zap.Logger) *Locations {
	l := &Locations{path: path, mapping: map[string]string{}, logger: logger}
	if err := l.Reload(); err != nil {
		logger.Warn("Location mapping unavailable",
			zap.String("path", path), zap.Error(err))
	}
	return l
}

// Reload re-reads the mapping file, replacing the in-memory table on
// success and keeping the previous table on failure.
func (l *Locations) Reload() error {
	if l.path == "" {
		return nil
	}
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("failed to read location map: %w", err)
	}
	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return fmt.Errorf("failed to parse location map: %w", err)
	}
	l.mapping = mapping
	return nil
}

// Resolve maps a partner location id to the platform id. Unknown ids
// resolve to empty, which drops the field from API payloads.
func (l *Locations) Resolve(partnerID string) string {
	if partnerID == "" {
		return ""
	}
	return l.mapping[partnerID]
}

// Len returns the number of known locations, mostly for logging.
func (l *Locations) Len() int {
	return len(l.mapping)
}
