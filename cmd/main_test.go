package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memorystore "gitlab.com/golfhub-2025.net/internal/adapter/memory/docstore"
	redisstore "gitlab.com/golfhub-2025.net/internal/adapter/redis/docstore"
	"gitlab.com/golfhub-2025.net/internal/config"
)

func TestSetupDocStoreDebugModeUsesMemory(t *testing.T) {
	sysCfg := &config.AppConfig{
		DebugMode:      true,
		DocStoreConfig: &config.DocStoreConfig{Driver: config.DocStoreDriverRedis},
	}

	store, err := setupDocStore(context.Background(), sysCfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &memorystore.Store{}, store, "debug mode must override the configured driver")
}

func TestSetupDocStoreMemoryDriver(t *testing.T) {
	sysCfg := &config.AppConfig{
		DocStoreConfig: &config.DocStoreConfig{Driver: config.DocStoreDriverMemory},
	}

	store, err := setupDocStore(context.Background(), sysCfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &memorystore.Store{}, store)
}

func TestSetupDocStoreDefaultsToRedis(t *testing.T) {
	sysCfg := &config.AppConfig{
		DocStoreConfig: &config.DocStoreConfig{Driver: config.DocStoreDriverRedis},
	}

	store, err := setupDocStore(context.Background(), sysCfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &redisstore.Store{}, store)
}
