package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "gophauth:session:"

// deletes KEYS[1] only if it still holds ARGV[1]
var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps one key per owner holding the JSON session, with the
// key TTL set to the session lifetime.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	scanCount int64
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, keyPrefix: defaultKeyPrefix, scanCount: 100}
}

func (s *RedisStore) key(owner string) string { return s.keyPrefix + owner }

// Put with a non-positive ttl removes the session: it would already be expired.
func (s *RedisStore) Put(ctx context.Context, owner, refreshToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Remove(ctx, owner)
	}

	now := clock().UTC()
	payload, err := json.Marshal(&models.Session{
		ID:           newSessionID(),
		Owner:        owner,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(owner), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, owner string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	sess := &models.Session{}
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Remove(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// SweepExpired walks the session keys and drops those whose recorded
// expiry is before now. Key TTLs normally get there first; this catches
// sessions judged against a different clock. A key rewritten by a login
// between the read and the delete is left alone.
func (s *RedisStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	var (
		removed int64
		cursor  uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.keyPrefix+"*", s.scanCount).Result()
		if err != nil {
			return removed, fmt.Errorf("redis error: %w", err)
		}

		for _, key := range keys {
			raw, err := s.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				return removed, fmt.Errorf("redis error: %w", err)
			}

			var sess models.Session
			if err := json.Unmarshal([]byte(raw), &sess); err != nil || !sess.Expired(now) {
				continue
			}

			n, err := compareAndDelete.Run(ctx, s.client, []string{key}, raw).Int64()
			if err != nil {
				return removed, fmt.Errorf("redis error: %w", err)
			}
			removed += n
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
