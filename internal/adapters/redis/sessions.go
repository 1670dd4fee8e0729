package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/adapters/observability"
	"github.com/Kidnamedaditya/Residential-Infrastructre-Assessment/internal/domain"
)

// Sessions keeps wizard state in redis so an inspection survives process
// restarts. Each session expires after ttl of inactivity.
type Sessions struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db, ttlSec int) *Sessions {
	if ttlSec <= 0 {
		ttlSec = 24 * 3600
	}
	return &Sessions{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: time.Duration(ttlSec) * time.Second,
	}
}

func key(id string) string { return "inspection:session:" + id }

func (s *Sessions) Load(ctx context.Context, id string) (domain.Session, error) {
	v, err := s.c.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("miss")
		return domain.Session{}, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, err
	}
	observability.ObserveSession("hit")
	var sess domain.Session
	if err := json.Unmarshal(v, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return sess, nil
}

func (s *Sessions) Save(ctx context.Context, sess domain.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	observability.ObserveSession("save")
	return s.c.Set(ctx, key(sess.ID), b, s.ttl).Err()
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	observability.ObserveSession("del")
	return s.c.Del(ctx, key(id)).Err()
}

func (s *Sessions) Ping(ctx context.Context) error { return s.c.Ping(ctx).Err() }

func (s *Sessions) Close() error { return s.c.Close() }
