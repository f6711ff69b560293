package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/eleven-am/jump-backend/internal/shared"
	"github.com/redis/go-redis/v9"
)

const DefaultTTL = time.Hour

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{redis: redisClient, ttl: ttl}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Create(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = shared.NewID(IDPrefix)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	ok, err := s.redis.SetNX(ctx, sess.RedisKey(), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrConflict
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, RedisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Update rewrites the record and refreshes its TTL. A session that already
// expired is not resurrected.
func (s *Store) Update(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	ok, err := s.redis.SetXX(ctx, sess.RedisKey(), data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, RedisKey(id), DownloadKey(id)).Err()
}

// ClaimDownload reports whether the caller is the first to take the report of
// a session. Only one caller ever gets true until the claim is released.
func (s *Store) ClaimDownload(ctx context.Context, id string) (bool, error) {
	return s.redis.SetNX(ctx, DownloadKey(id), 1, s.ttl).Result()
}

func (s *Store) ReleaseDownload(ctx context.Context, id string) error {
	return s.redis.Del(ctx, DownloadKey(id)).Err()
}

func (s *Store) Downloaded(ctx context.Context, id string) (bool, error) {
	n, err := s.redis.Exists(ctx, DownloadKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.redis.Exists(ctx, RedisKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
