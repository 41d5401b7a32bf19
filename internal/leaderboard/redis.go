package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an untouched board survives in Redis.
const DefaultTTL = 7 * 24 * time.Hour

// Redis is a Board kept in a Redis sorted set, with entry details in a hash
// next to it.
type Redis struct {
	client    *redis.Client
	pointsKey string
	infoKey   string
	ttl       time.Duration
}

// NewRedis returns a board for class stored through client.
func NewRedis(client *redis.Client, class string) *Redis {
	prefix := "readlog:leaderboard:" + class
	return &Redis{
		client:    client,
		pointsKey: prefix + ":points",
		infoKey:   prefix + ":info",
		ttl:       DefaultTTL,
	}
}

// OpenRedis connects to the Redis server at url (redis://host:port/db) and
// checks it is reachable.
func OpenRedis(ctx context.Context, url, class string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, class), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Update(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		pipe.ZAdd(ctx, r.pointsKey, redis.Z{Score: float64(e.Points), Member: e.StudentID})
		pipe.HSet(ctx, r.infoKey, e.StudentID, data)
	}
	pipe.Expire(ctx, r.pointsKey, r.ttl)
	pipe.Expire(ctx, r.infoKey, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, studentID string) error {
	pipe := r.client.TxPipeline()
	pipe.ZRem(ctx, r.pointsKey, studentID)
	pipe.HDel(ctx, r.infoKey, studentID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove from leaderboard: %w", err)
	}
	return nil
}

func (r *Redis) Top(ctx context.Context, n int) ([]Entry, error) {
	stop := int64(n - 1)
	if n <= 0 {
		stop = -1
	}
	ids, err := r.client.ZRevRange(ctx, r.pointsKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	raw, err := r.client.HMGet(ctx, r.infoKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard entries: %w", err)
	}

	out := make([]Entry, 0, len(ids))
	for i, v := range raw {
		e := Entry{StudentID: ids[i]}
		if s, ok := v.(string); ok {
			if err := json.Unmarshal([]byte(s), &e); err != nil {
				return nil, fmt.Errorf("decode entry %s: %w", ids[i], err)
			}
		}
		e.Rank = i + 1
		out = append(out, e)
	}
	return out, nil
}

func (r *Redis) Rank(ctx context.Context, studentID string) (Entry, error) {
	rank, err := r.client.ZRevRank(ctx, r.pointsKey, studentID).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotRanked
	}
	if err != nil {
		return Entry{}, fmt.Errorf("rank %s: %w", studentID, err)
	}

	e := Entry{StudentID: studentID}
	data, err := r.client.HGet(ctx, r.infoKey, studentID).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return Entry{}, fmt.Errorf("read entry %s: %w", studentID, err)
	default:
		if err := json.Unmarshal(data, &e); err != nil {
			return Entry{}, fmt.Errorf("decode entry %s: %w", studentID, err)
		}
	}
	e.Rank = int(rank) + 1
	return e, nil
}
