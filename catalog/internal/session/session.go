package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	fieldUserID    = "user_id"
	fieldNumVisits = "num_visits"
)

type Session struct {
	ID        string
	UserID    int
	NumVisits int
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("catalog:sess:%s", id) }

func NewID() string {
	return uuid.NewString()
}

// Get loads a session; an unknown id yields an empty anonymous session.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	sess := Session{ID: id}
	vals, err := s.rdb.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return sess, err
	}
	if v, ok := vals[fieldUserID]; ok {
		if sess.UserID, err = strconv.Atoi(v); err != nil {
			return sess, errors.Wrap(err, "session user_id")
		}
	}
	if v, ok := vals[fieldNumVisits]; ok {
		if sess.NumVisits, err = strconv.Atoi(v); err != nil {
			return sess, errors.Wrap(err, "session num_visits")
		}
	}
	return sess, nil
}

// IncrVisits bumps the visit counter and returns its value before the increment.
func (s *Store) IncrVisits(ctx context.Context, id string) (int, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.HIncrBy(ctx, key(id), fieldNumVisits, 1)
	pipe.Expire(ctx, key(id), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()) - 1, nil
}

// Login moves the session data to a fresh id bound to userID and returns that id.
func (s *Store) Login(ctx context.Context, oldID string, userID int) (string, error) {
	visits, err := s.rdb.HGet(ctx, key(oldID), fieldNumVisits).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	newID := NewID()
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(oldID))
	pipe.HSet(ctx, key(newID), fieldUserID, userID, fieldNumVisits, visits)
	pipe.Expire(ctx, key(newID), s.ttl)
	if _, err = pipe.Exec(ctx); err != nil {
		return "", err
	}
	return newID, nil
}

func (s *Store) Logout(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}
