package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/evyataryagoni/locationsurvey/internal/models"
	"github.com/redis/go-redis/v9"
)

const cityKeyPrefix = "cities:"

// RedisStore implements CityStore using Redis sets
//
// Redis Key Format: cities:<COUNTRY>:<STATE>
// Example: cities:US:CA -> {"Los Angeles", "San Francisco", ...}
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisStore creates a new Redis store and verifies the connection
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ctx:    ctx,
	}, nil
}

func redisCityKey(country, state string) string {
	return cityKeyPrefix + country + ":" + state
}

// FindCities looks up the cities of a state
func (s *RedisStore) FindCities(countryCode, stateCode string) ([]models.City, error) {
	country, state := normalizeCodes(countryCode, stateCode)

	names, err := s.client.SMembers(s.ctx, redisCityKey(country, state)).Result()
	if err != nil {
		return nil, fmt.Errorf("Redis query failed: %w", err)
	}

	// A missing key and an empty set look the same to SMEMBERS
	if len(names) == 0 {
		return nil, ErrNotFound
	}

	sort.Strings(names)

	cities := make([]models.City, 0, len(names))
	for _, name := range names {
		cities = append(cities, models.City{
			Name:        name,
			StateCode:   state,
			CountryCode: country,
		})
	}

	return cities, nil
}

// Add stores cities in Redis
func (s *RedisStore) Add(cities ...models.City) error {
	if len(cities) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, city := range cities {
		country, state := normalizeCodes(city.CountryCode, city.StateCode)
		pipe.SAdd(s.ctx, redisCityKey(country, state), city.Name)
	}

	if _, err := pipe.Exec(s.ctx); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}

	return nil
}

// LoadFromCSV loads city data from a CSV file into Redis
// Returns the number of records written
func (s *RedisStore) LoadFromCSV(csvPath string) (int, error) {
	csvStore, err := NewCSVStore(csvPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load CSV: %w", err)
	}
	defer csvStore.Close()

	all := csvStore.All()
	if err := s.Add(all...); err != nil {
		return 0, err
	}

	return len(all), nil
}

// IsEmpty checks if Redis has any city data
func (s *RedisStore) IsEmpty() (bool, error) {
	keys, _, err := s.client.Scan(s.ctx, 0, cityKeyPrefix+"*", 100).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check Redis keys: %w", err)
	}
	return len(keys) == 0, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
