// Package store persists conversation histories and the trending
// snapshot in Redis.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"news-rag-backend/models"
)

const (
	sessionKeyPrefix = "session:"
	trendingKey      = "trending:topics"
)

type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Append pushes one turn onto the end of the session's history.
func (s *SessionStore) Append(ctx context.Context, sessionID string, turn models.SessionTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, sessionKeyPrefix+sessionID, data).Err()
}

// History returns the full ordered history of a session. A session
// with no turns yields an empty slice.
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]models.SessionTurn, error) {
	raw, err := s.client.LRange(ctx, sessionKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	turns := make([]models.SessionTurn, 0, len(raw))
	for _, msg := range raw {
		var turn models.SessionTurn
		if err := json.Unmarshal([]byte(msg), &turn); err != nil {
			return nil, fmt.Errorf("corrupt history entry: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear deletes a session's entire history.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// SetTrending overwrites the trending snapshot with the latest run's
// titles. Whole-value overwrite, no TTL.
func (s *SessionStore) SetTrending(ctx context.Context, titles []string) error {
	data, err := json.Marshal(titles)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, trendingKey, data, 0).Err()
}

// Trending returns the current snapshot titles. An absent snapshot is
// an empty slice, not an error.
func (s *SessionStore) Trending(ctx context.Context) ([]string, error) {
	val, err := s.client.Get(ctx, trendingKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var titles []string
	if err := json.Unmarshal([]byte(val), &titles); err != nil {
		return nil, fmt.Errorf("corrupt trending snapshot: %w", err)
	}
	return titles, nil
}
