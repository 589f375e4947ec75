package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/faculty-timetable-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "timetable", nil)
	ctx := context.Background()

	var dest map[string]string
	err := repo.Get(ctx, "k", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "k", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "k"))
	stored, err := repo.SetIfAbsent(ctx, "k", "v", time.Minute)
	assert.NoError(t, err)
	assert.False(t, stored)
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryNamespacesKeys(t *testing.T) {
	assert.Equal(t, "timetable:dept:1", NewCacheRepository(nil, "timetable", nil).key("dept:1"))
	assert.Equal(t, "dept:1", NewCacheRepository(nil, "", nil).key("dept:1"))
}

func TestCacheRepositorySurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	repo := NewCacheRepository(client, "timetable", nil)
	defer repo.Close()

	var dest map[string]string
	err := repo.Get(context.Background(), "k", &dest)
	require.Error(t, err)
	assert.False(t, errors.Is(err, appErrors.ErrCacheMiss))
	_, err = repo.SetIfAbsent(context.Background(), "k", "v", time.Minute)
	assert.Error(t, err)
	assert.Error(t, repo.Ping(context.Background()))
}
