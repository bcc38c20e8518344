package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Domenick1991/airlines/config"
	"github.com/Domenick1991/airlines/internal/domain"
)

// versionTTL outlives any search request by a wide margin.
const versionTTL = 24 * time.Hour

// RedisCache holds search results keyed by route and departure date.
type RedisCache struct {
	client    redis.Cmdable
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), searchTTL)
}

func NewWithClient(client redis.Cmdable, searchTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, searchTTL: searchTTL}
}

// SearchEntry is a cached search result. Version is the generation of the
// key at read time and must be handed back to SetSearch on a miss.
type SearchEntry struct {
	Flights []domain.Flight
	Version int64
	Found   bool
}

// fillScript stores a search result only if no invalidation happened since
// the version was read.
var fillScript = redis.NewScript(`
local v = redis.call('GET', KEYS[2])
if (v or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

func versionKey(key string) string {
	return key + ":version"
}

func (c *RedisCache) GetSearch(ctx context.Context, key string) (SearchEntry, error) {
	vals, err := c.client.MGet(ctx, key, versionKey(key)).Result()
	if err != nil {
		return SearchEntry{}, err
	}

	var entry SearchEntry
	if v, ok := vals[1].(string); ok {
		entry.Version, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return SearchEntry{}, fmt.Errorf("decode search version %s: %w", key, err)
		}
	}
	data, ok := vals[0].(string)
	if !ok {
		return entry, nil
	}
	if err := json.Unmarshal([]byte(data), &entry.Flights); err != nil {
		return SearchEntry{}, fmt.Errorf("decode cached search %s: %w", key, err)
	}
	entry.Found = true
	return entry, nil
}

// SetSearch fills key with flights read at version. The write is dropped
// when the key was invalidated in between, so stored reports whether the
// entry landed.
func (c *RedisCache) SetSearch(ctx context.Context, key string, version int64, flights []domain.Flight) (stored bool, err error) {
	payload, err := json.Marshal(flights)
	if err != nil {
		return false, err
	}
	n, err := fillScript.Run(ctx, c.client,
		[]string{key, versionKey(key)},
		strconv.FormatInt(version, 10), payload, c.searchTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Invalidate drops the entries and bumps their versions so that fills
// started before the call are discarded.
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, versionKey(key))
			pipe.Expire(ctx, versionKey(key), versionTTL)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// SearchKey names the cache entry for one route on one calendar day.
func SearchKey(departureID, arrivalID string, date time.Time) string {
	return fmt.Sprintf("cache:search:%s:%s:%s", departureID, arrivalID, date.Format(time.DateOnly))
}

// FlightKey is the search entry a flight is listed under, with its departure
// day taken in loc.
func FlightKey(f domain.Flight, loc *time.Location) string {
	d := f.DepartureTime.In(loc)
	return SearchKey(f.DepartureID, f.ArrivalID, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc))
}
