package state_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dealer-sync/core/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string {
	return &s
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store := state.Open(path, zap.NewNop())

	assert.Empty(t, store.KnownVINs())
	_, ok := store.GetCarID("VIN1")
	assert.False(t, ok)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := state.Open(path, zap.NewNop())

	assert.Empty(t, store.KnownVINs())
}

func TestOpen_SkipsMalformedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	raw := `{
	  "vehicles": {
	    "GOOD": {"car_id": "1", "configuration_number": "CFG", "active": true},
	    "NOID": {"configuration_number": "CFG", "active": true},
	    "BADID": {"car_id": 42, "active": true},
	    "NOFLAG": {"car_id": "3"}
	  }
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	store := state.Open(path, zap.NewNop())

	carID, ok := store.GetCarID("GOOD")
	require.True(t, ok)
	assert.Equal(t, "1", carID)

	_, ok = store.GetCarID("NOID")
	assert.False(t, ok)
	_, ok = store.GetCarID("BADID")
	assert.False(t, ok)

	// Entries without the flag default to active.
	assert.Equal(t, []string{"GOOD", "NOFLAG"}, store.KnownVINs())
}

func TestUpsert_InsertAndOverwrite(t *testing.T) {
	store := state.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())

	store.Upsert("VIN1", "10", strPtr("CFG-1"))
	store.MarkDeleted("VIN1")

	// Recreation after drift replaces the car id and reactivates.
	store.Upsert("VIN1", "20", strPtr("CFG-2"))

	entry, ok := store.Get("VIN1")
	require.True(t, ok)
	assert.Equal(t, "20", entry.CarID)
	assert.Equal(t, "CFG-2", *entry.ConfigurationNumber)
	assert.True(t, entry.Active)
}

func TestMarkActiveAndDeleted(t *testing.T) {
	store := state.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())

	// Unknown VINs are a no-op, not an error.
	store.MarkActive("GHOST")
	store.MarkDeleted("GHOST")

	store.Upsert("VIN1", "1", nil)
	store.Upsert("VIN2", "2", nil)

	store.MarkDeleted("VIN1")
	assert.Equal(t, []string{"VIN2"}, store.KnownVINs())

	// Deactivated VINs stay resolvable for reactivation.
	carID, ok := store.GetCarID("VIN1")
	require.True(t, ok)
	assert.Equal(t, "1", carID)

	store.MarkActive("VIN1")
	assert.Equal(t, []string{"VIN1", "VIN2"}, store.KnownVINs())
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

	store := state.Open(path, zap.NewNop())
	store.Upsert("VIN1", "10", strPtr("CFG-1"))
	store.Upsert("VIN2", "20", nil)
	store.MarkDeleted("VIN2")
	require.NoError(t, store.Save())

	reloaded := state.Open(path, zap.NewNop())
	assert.Equal(t, []string{"VIN1"}, reloaded.KnownVINs())

	entry, ok := reloaded.Get("VIN2")
	require.True(t, ok)
	assert.Equal(t, "20", entry.CarID)
	assert.False(t, entry.Active)
	assert.Nil(t, entry.ConfigurationNumber)
}

func TestSave_DocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store := state.Open(path, zap.NewNop())
	store.Upsert("VIN1", "10", strPtr("CFG-1"))
	require.NoError(t, store.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	entry := doc["vehicles"]["VIN1"]
	assert.Equal(t, "10", entry["car_id"])
	assert.Equal(t, "CFG-1", entry["configuration_number"])
	assert.Equal(t, true, entry["active"])
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	store := state.Open(path, zap.NewNop())
	store.Upsert("VIN1", "10", nil)
	require.NoError(t, store.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}
