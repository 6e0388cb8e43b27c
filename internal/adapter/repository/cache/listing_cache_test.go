package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staco-app/directory-service/internal/directory/domain"
)

func cachedListing() *domain.Listing {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Listing{
		ID:                     "listing-001",
		OwnerID:                "user-001",
		Address:                "12 College Ave",
		HouseDetails:           domain.HouseDetails{Bedrooms: 2, Bathrooms: 1},
		AvailableFrom:          from,
		AvailableTo:            from.AddDate(0, 6, 0),
		Gender:                 domain.GenderMixed,
		RoomType:               domain.RoomPrivate,
		RentAmount:             750,
		RentType:               domain.RentWithUtilities,
		DistanceFromUniversity: 1.5,
		InterestedUsers:        []string{"user-002"},
		CreatedAt:              from,
	}
}

func TestListingCacheMissIsNilNil(t *testing.T) {
	c := NewListingCache(testRedis(t))

	got, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListingCacheRoundTrip(t *testing.T) {
	c := NewListingCache(testRedis(t))
	ctx := context.Background()
	l := cachedListing()

	require.NoError(t, c.Set(ctx, l))

	got, err := c.Get(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, l.Address, got.Address)
	assert.Equal(t, l.RentAmount, got.RentAmount)
	assert.Equal(t, l.InterestedUsers, got.InterestedUsers)
	assert.True(t, l.CreatedAt.Equal(got.CreatedAt))
}

func TestListingCacheDelete(t *testing.T) {
	c := NewListingCache(testRedis(t))
	ctx := context.Background()
	l := cachedListing()

	require.NoError(t, c.Set(ctx, l))
	require.NoError(t, c.Delete(ctx, l.ID))

	got, err := c.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
