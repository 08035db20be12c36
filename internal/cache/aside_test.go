package cache

import (
	"context"
	"testing"
	"time"

	"domemarket/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	var post models.Post
	fetch := func() error {
		fetches++
		post = models.Post{ID: 7, Title: "Camera for rent", Kind: models.KindRental}
		return nil
	}

	require.NoError(t, Aside(ctx, PostKey(7), &post, PostTTL, fetch))
	assert.Equal(t, 1, fetches)

	var cached models.Post
	require.NoError(t, Aside(ctx, PostKey(7), &cached, PostTTL, func() error {
		fetches++
		return nil
	}))
	assert.Equal(t, 1, fetches, "second read must be served from cache")
	assert.Equal(t, "Camera for rent", cached.Title)
	assert.Equal(t, models.KindRental, cached.Kind)
}

func TestAside_NoClientFallsThrough(t *testing.T) {
	SetClient(nil)

	fetches := 0
	var v int
	err := Aside(context.Background(), "k", &v, time.Minute, func() error {
		fetches++
		v = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 42, v)
}

func TestInvalidateListings(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(ListingKey(models.KindHiring, 1), "x"))
	require.NoError(t, mr.Set(ListingKey(models.KindRental, 2), "y"))
	require.NoError(t, mr.Set(HomeKey, "z"))
	require.NoError(t, mr.Set(PostKey(1), "keep"))

	InvalidateListings(ctx)

	assert.False(t, mr.Exists(ListingKey(models.KindHiring, 1)))
	assert.False(t, mr.Exists(ListingKey(models.KindRental, 2)))
	assert.False(t, mr.Exists(HomeKey))
	assert.True(t, mr.Exists(PostKey(1)), "post detail entries are not listing pages")
}
