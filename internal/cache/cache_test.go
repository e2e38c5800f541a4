package cache_test

import (
	"context"
	"testing"
	"time"

	"aicreat-gateway/internal/cache"
	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis spins up a Redis container and returns a connected RedisCache.
func setupRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rc, err := cache.NewRedisCache("redis://"+host+":"+port.Port(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	return rc
}

func TestJobKey(t *testing.T) {
	assert.Equal(t, "aicreat:job:job-1", cache.JobKey("job-1"))
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := cache.NewRedisCache("not a url", 0)

	assert.Error(t, err)
}

func TestPutGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Ping(ctx))

	view := models.JobView{
		JobID:    "job-1",
		UserID:   "user-1",
		State:    "completed",
		Status:   creative.JobStatusCompleted,
		Progress: 100,
		Results: creative.JobResults{
			"Instagram": {{ID: "a1", FormatName: "Instagram Post", Dimensions: creative.Dimensions{Width: 1080, Height: 1080}}},
		},
		AssetCount: 1,
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, rc.PutJob(ctx, view))

	got, found, err := rc.GetJob(ctx, "job-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, view.Results, got.Results)
	assert.True(t, view.UpdatedAt.Equal(got.UpdatedAt))
}

func TestGetJob_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)

	view, found, err := rc.GetJob(context.Background(), "nonexistent")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, view)
}
