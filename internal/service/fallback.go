package service

import (
	"context"

	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/internal/i18n"
)

// FallbackNarrator answers locally with a plain "you rolled N" line.
type FallbackNarrator struct {
	lang string
}

func NewFallbackNarrator(lang string) *FallbackNarrator {
	return &FallbackNarrator{lang: lang}
}

func (that *FallbackNarrator) Narrate(_ context.Context, request entity.NarrationRequest) entity.Narration {
	return entity.Narration{
		Message:  i18n.Printer(that.lang).Sprintf(i18n.KeyFallback, request.RollTotal),
		Mood:     entity.MoodNeutral,
		Fallback: true,
	}
}
