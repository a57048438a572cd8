package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/journeysearch/internal/models"
)

type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) ([]models.Journey, bool)
	Set(ctx context.Context, req models.SearchRequest, journeys []models.Journey) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      5 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Journey, bool) {
	data, err := c.client.Get(ctx, Key(req)).Bytes()
	if err != nil {
		return nil, false
	}

	var journeys []models.Journey
	if err := json.Unmarshal(data, &journeys); err != nil {
		return nil, false
	}

	return journeys, true
}

func (c *RedisCache) Set(ctx context.Context, req models.SearchRequest, journeys []models.Journey) error {
	data, err := json.Marshal(journeys)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, Key(req), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Journey, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, journeys []models.Journey) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key identifies a search. Stations are matched case-insensitively, so
// they are folded before hashing.
func Key(req models.SearchRequest) string {
	keyData := struct {
		Origin      string
		Destination string
		Date        string
		Passengers  int
	}{
		Origin:      strings.ToLower(req.Origin),
		Destination: strings.ToLower(req.Destination),
		Date:        req.DateString(),
		Passengers:  req.NrOfPassengers,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "journeys:" + hex.EncodeToString(hash[:])
}
