package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/dice-backend/internal/apperror"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

const narrationKeyPrefix = "narration:"

type NarrationRepository interface {
	Get(ctx context.Context, key string) (entity.Narration, error)
	Save(ctx context.Context, key string, narration entity.Narration) error
}

type dbNarration struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNarrationRepository stores narrations in redis. Entries expire after ttl, zero keeps them.
func NewNarrationRepository(client *redis.Client, ttl time.Duration) NarrationRepository {
	return &dbNarration{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbNarration) Save(ctx context.Context, key string, narration entity.Narration) error {
	narrationJSON, err := json.Marshal(narration)
	if err != nil {
		return fmt.Errorf("could not marshal narration: %w", err)
	}

	if err = that.client.Set(ctx, narrationKeyPrefix+key, narrationJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set narration: %w", err)
	}

	return nil
}

func (that *dbNarration) Get(ctx context.Context, key string) (entity.Narration, error) {
	response, err := that.client.Get(ctx, narrationKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return entity.Narration{}, apperror.ErrNarrationNotFound
	}

	if err != nil {
		return entity.Narration{}, fmt.Errorf("failed to get narration: %w", err)
	}

	var narration entity.Narration
	if err = json.Unmarshal([]byte(response), &narration); err != nil {
		return entity.Narration{}, fmt.Errorf("failed to unmarshal narration: %w", err)
	}

	return narration, nil
}
