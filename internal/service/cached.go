package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/dice-backend/internal/apperror"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

type narrationRepo interface {
	Get(ctx context.Context, key string) (entity.Narration, error)
	Save(ctx context.Context, key string, narration entity.Narration) error
}

// CachedNarrator reuses earlier model replies for the same kind of roll.
// Fallback narrations are never stored, and a failing cache is bypassed.
type CachedNarrator struct {
	logger *slog.Logger
	next   Narrator
	repo   narrationRepo
	lang   string
}

func NewCachedNarrator(logger *slog.Logger, next Narrator, repo narrationRepo, lang string) *CachedNarrator {
	return &CachedNarrator{
		logger: logger.With("component", "narration_cache"),
		next:   next,
		repo:   repo,
		lang:   lang,
	}
}

func (that *CachedNarrator) Narrate(ctx context.Context, request entity.NarrationRequest) entity.Narration {
	log := that.logger.With("method", "Narrate")

	key := that.key(request)

	cached, err := that.repo.Get(ctx, key)
	switch {
	case err == nil:
		return cached
	case errors.Is(err, apperror.ErrNarrationNotFound):
	default:
		log.Warn("narration cache read failed", "key", key, "error", err)
	}

	narration := that.next.Narrate(ctx, request)
	if narration.Fallback {
		return narration
	}

	if err = that.repo.Save(ctx, key, narration); err != nil {
		log.Warn("narration cache write failed", "key", key, "error", err)
	}

	return narration
}

func (that *CachedNarrator) key(request entity.NarrationRequest) string {
	return fmt.Sprintf("%s:%d:%d:%t", that.lang, request.DiceCount, request.RollTotal, request.IsVictory)
}
