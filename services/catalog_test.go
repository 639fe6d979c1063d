package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"DoctorsPortal/cache"
	"DoctorsPortal/db"
	"DoctorsPortal/models"
)

func TestNamesProjection(t *testing.T) {
	store := db.NewMemoryStore()
	seedCatalog(t, store)

	names, err := NewCatalogService(store, nil).Names(context.Background())
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.Equal(t, "Teeth Orthodontics", names[0].Name)
	assert.False(t, names[0].ID.IsZero())
}

func TestAllReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	seedCatalog(t, store)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewCatalogService(store, cache.NewRedis(client, time.Minute))

	first, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.True(t, mr.Exists(cache.ServiceCatalogKey))

	// a catalog change is invisible until the cache is invalidated
	_, err = store.Collection(db.ServiceCollection).InsertOne(ctx, models.Service{Name: "Whitening", Slots: []string{"x"}})
	require.NoError(t, err)
	cached, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 3)
	assert.Equal(t, first[0].ID, cached[0].ID)

	require.NoError(t, svc.Invalidate(ctx))
	fresh, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)
}

func TestAllWithoutCache(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	svc := NewCatalogService(store, nil)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
	require.NoError(t, svc.Invalidate(ctx))

	var raw []bson.M
	require.NoError(t, store.Collection(db.ServiceCollection).Find(ctx, nil, &raw))
	assert.Empty(t, raw)
}
