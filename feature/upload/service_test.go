package upload

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"dealer-sync/core/state"
	"dealer-sync/core/sync"
	"dealer-sync/feature/reports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServiceRunRejectsPartialFeed(t *testing.T) {
	gateway := &fakeGateway{}
	store := state.Open(filepath.Join(t.TempDir(), "state.json"), zap.NewNop())
	store.Upsert("VIN0001", "car-1", nil)

	archive, err := reports.NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	service := NewService(nil, sync.New(gateway, store, zap.NewNop()), archive, zap.NewNop())

	// The listed vehicle is still in the feed, but its row fails validation.
	bad := strings.Replace(feedRow("VIN0001"), "2021", "", 1)
	feed := strings.NewReader(feedHeader + "\n" + bad)

	result, err := service.Run(context.Background(), feed, sync.Options{CloseMissing: true})
	require.NoError(t, err)

	require.True(t, result.Rejected())
	require.Len(t, result.RowErrors, 1)
	assert.Contains(t, result.RowErrors[0].String(), "VIN0001")

	// The rejection happened before any remote call: nothing was closed and
	// the vehicle is still active in the ledger.
	assert.Empty(t, gateway.deleted)
	assert.Empty(t, gateway.created)
	assert.Contains(t, store.KnownVINs(), "VIN0001")
	assert.Empty(t, result.ReportID)
}
