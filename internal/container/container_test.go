package container

import (
	"context"
	"testing"

	"github.com/garyjia/shop-ledger/internal/config"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadOrDefault("")
	require.NoError(t, err)
	cfg.Database.Path = database.MemoryPath
	cfg.OpenAI.APIKey = ""
	cfg.Parser.QuickCapture = false
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(testConfig(t), nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.Server.Port = 0
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, c.Ready())

	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx), "second start")

	health := c.Health(ctx)
	assert.True(t, health.Overall)
	assert.Equal(t, "disabled", health.Components["llm_fallback"].Message)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close(), "second close")
	assert.Error(t, c.Start(ctx), "start after close")
}

func TestContainer_PriceCommandFeedsCatalog(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(ctx))
	defer c.Close()

	services := c.Services()
	outcome, err := services.Commands.Parse(ctx, "price of rice is 45 per kg", true)
	require.NoError(t, err)
	require.Equal(t, entity.CommandPrice, outcome.Result.Type)
	require.True(t, outcome.Committed)

	price, found, err := services.Catalog.LookupPrice(ctx, "Rice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 45.0, price)

	got := services.Parser.ParseSentenceWithPriceLookup(ctx, "2 kg rice")
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 90.0, got.Entries[0].Total)
	assert.Equal(t, entity.PriceSourceAutoLookup, got.Entries[0].PriceSource)

	blank, err := services.Commands.Parse(ctx, "   ", true)
	require.NoError(t, err)
	assert.False(t, blank.Committed)
	assert.Equal(t, []string{"Empty input text"}, blank.Result.Warnings)
}
