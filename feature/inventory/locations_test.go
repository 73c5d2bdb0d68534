package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocations_ResolveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"P1": "L1"}`), 0o644))

	locations := NewLocations(path, zap.NewNop())
	assert.Equal(t, 1, locations.Len())
	assert.Equal(t, "L1", locations.Resolve("P1"))
	assert.Equal(t, "", locations.Resolve("P2"))
	assert.Equal(t, "", locations.Resolve(""))

	require.NoError(t, os.WriteFile(path, []byte(`{"P1": "L1", "P2": "L2"}`), 0o644))
	require.NoError(t, locations.Reload())
	assert.Equal(t, "L2", locations.Resolve("P2"))
}

func TestLocations_MissingFileStartsEmpty(t *testing.T) {
	locations := NewLocations(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	assert.Equal(t, 0, locations.Len())
	assert.Equal(t, "", locations.Resolve("P1"))
}

func TestLocations_ReloadFailureKeepsPreviousTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"P1": "L1"}`), 0o644))

	locations := NewLocations(path, zap.NewNop())
	require.Equal(t, "L1", locations.Resolve("P1"))

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	assert.Error(t, locations.Reload())
	assert.Equal(t, "L1", locations.Resolve("P1"))
}
