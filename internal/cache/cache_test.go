package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/journeysearch/internal/models"
)

var testZone = time.FixedZone("CEST", 2*60*60)

func testRequest() models.SearchRequest {
	return models.SearchRequest{
		Origin:         "Enschede",
		Destination:    "Hengelo",
		Date:           time.Date(2026, 10, 16, 0, 0, 0, 0, testZone),
		NrOfPassengers: 2,
	}
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(RedisConfig{
		Host: mr.Host(),
		Port: mr.Port(),
		TTL:  time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, found := c.Get(ctx, testRequest())
	assert.False(t, found)

	departure := time.Date(2026, 10, 16, 9, 15, 0, 0, time.UTC)
	want := []models.Journey{{
		Provider:    "ns",
		Origin:      "Enschede",
		Destination: "Hengelo",
		Departure:   departure,
		Arrival:     departure.Add(10 * time.Minute),
		Price:       models.Amount{Value: 12, Currency: "EUR", Formatted: "€ 12,00"},
	}}
	require.NoError(t, c.Set(ctx, testRequest(), want))

	got, found := c.Get(ctx, testRequest())
	require.True(t, found)
	require.Len(t, got, 1)
	assert.True(t, want[0].Departure.Equal(got[0].Departure))
	assert.Equal(t, want[0].Price, got[0].Price)

	mr.FastForward(2 * time.Minute)
	_, found = c.Get(ctx, testRequest())
	assert.False(t, found, "entry expires after the TTL")
}

func TestRedisCacheIgnoresCorruptEntries(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(Key(testRequest()), "{not json"))

	_, found := c.Get(context.Background(), testRequest())
	assert.False(t, found)
}

func TestNewRedisCacheFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewRedisCache(RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	req := testRequest()
	folded := req
	folded.Origin = "ENSCHEDE"
	assert.Equal(t, Key(req), Key(folded))

	other := req
	other.NrOfPassengers = 3
	assert.NotEqual(t, Key(req), Key(other))

	assert.Contains(t, Key(req), "journeys:")
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	assert.NoError(t, c.Set(context.Background(), testRequest(), nil))
	_, found := c.Get(context.Background(), testRequest())
	assert.False(t, found)
	assert.NoError(t, c.Close())
}
