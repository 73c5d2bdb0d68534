package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Entry is the persisted record for a single VIN.
type Entry struct {
	// CarID is the identifier assigned by the dealer platform on creation.
	// It is never guessed locally.
	CarID string `json:"car_id"`

	// ConfigurationNumber is the last known partner label for the vehicle.
	// It is informational, not an identity key.
	ConfigurationNumber *string `json:"configuration_number"`

	// Active reports whether the vehicle is currently believed to be listed
	// on the dealer platform.
	Active bool `json:"active"`
}

// document is the on-disk shape of the store.
type document struct {
	Vehicles map[string]*Entry `json:"vehicles"`
}

// Store maps VINs to remote car identifiers across runs.
//
// Entries are never physically removed; deactivation is the only removal
// signal, so a VIN that reappears in a later feed can reuse its remembered
// car id instead of creating a duplicate remote record.
//
// A Store instance is owned by a single run. It is not safe for concurrent
// use, and concurrent processes sharing the same backing file are an
// unsupported mode.
type Store struct {
	path    string
	entries map[string]*Entry
	logger  *zap.Logger
}

// Open loads the store from path. A missing file yields an empty store. A
// malformed file also yields an empty store: the corruption is logged as a
// structured warning rather than surfaced as an error, trading alerting for
// availability.
func Open(path string, logger *zap.Logger) *Store {
	s := &Store{
		path:    path,
		entries: make(map[string]*Entry),
		logger:  logger,
	}
	s.load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// GetCarID returns the remembered car id for vin, regardless of the active
// flag. The second return value reports whether the VIN is known at all.
func (s *Store) GetCarID(vin string) (string, bool) {
	entry, ok := s.entries[vin]
	if !ok {
		return "", false
	}
	return entry.CarID, true
}

// Get returns a copy of the entry for vin, if known.
func (s *Store) Get(vin string) (Entry, bool) {
	entry, ok := s.entries[vin]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Upsert inserts or overwrites the entry for vin and marks it active. It is
// used both for first creation and for recreation after remote drift.
func (s *Store) Upsert(vin, carID string, configurationNumber *string) {
	if entry, ok := s.entries[vin]; ok {
		entry.CarID = carID
		entry.ConfigurationNumber = configurationNumber
		entry.Active = true
		return
	}
	s.entries[vin] = &Entry{
		CarID:               carID,
		ConfigurationNumber: configurationNumber,
		Active:              true,
	}
}

// MarkActive flips the active flag on for vin. Unknown VINs are a no-op.
func (s *Store) MarkActive(vin string) {
	if entry, ok := s.entries[vin]; ok {
		entry.Active = true
	}
}

// MarkDeleted flips the active flag off for vin. Unknown VINs are a no-op.
// The entry itself is retained for future reactivation.
func (s *Store) MarkDeleted(vin string) {
	if entry, ok := s.entries[vin]; ok {
		entry.Active = false
	}
}

// KnownVINs returns the sorted set of active VINs. This is the set the
// synchronizer treats as "already represented remotely" when detecting
// vehicles missing from the feed.
func (s *Store) KnownVINs() []string {
	vins := make([]string, 0, len(s.entries))
	for vin, entry := range s.entries {
		if entry.Active {
			vins = append(vins, vin)
		}
	}
	sort.Strings(vins)
	return vins
}

// All returns every entry keyed by VIN, active or not, as copies.
func (s *Store) All() map[string]Entry {
	out := make(map[string]Entry, len(s.entries))
	for vin, entry := range s.entries {
		out[vin] = *entry
	}
	return out
}

// Save persists the full entry set atomically. The document is written to a
// temporary file in the target directory and renamed over the destination,
// so a crash mid-write never leaves a truncated store behind.
func (s *Store) Save() error {
	doc := document{Vehicles: s.entries}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// load reads the backing file into memory. Individually malformed entries are
// skipped; a file that cannot be parsed at all resets the store to empty.
func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read state file, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}
	if len(raw) == 0 {
		return
	}

	var doc struct {
		Vehicles map[string]json.RawMessage `json:"vehicles"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn("Ignoring invalid state file",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	for vin, payload := range doc.Vehicles {
		// Active defaults to true when the flag is absent, so older state
		// files without it keep their vehicles listed.
		var raw struct {
			CarID               string  `json:"car_id"`
			ConfigurationNumber *string `json:"configuration_number"`
			Active              *bool   `json:"active"`
		}
		if err := json.Unmarshal(payload, &raw); err != nil {
			s.logger.Warn("Skipping malformed state entry",
				zap.String("vin", vin), zap.Error(err))
			continue
		}
		if raw.CarID == "" {
			s.logger.Warn("Skipping state entry without car id",
				zap.String("vin", vin))
			continue
		}
		active := true
		if raw.Active != nil {
			active = *raw.Active
		}
		s.entries[vin] = &Entry{
			CarID:               raw.CarID,
			ConfigurationNumber: raw.ConfigurationNumber,
			Active:              active,
		}
	}
}
