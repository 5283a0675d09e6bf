package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/dice-backend/internal/apperror"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/internal/i18n"
)

// Narrator comments on a finished roll. It always returns a usable narration.
type Narrator interface {
	Narrate(ctx context.Context, request entity.NarrationRequest) entity.Narration
}

type narrationPayload struct {
	Message string      `json:"message"`
	Mood    entity.Mood `json:"mood"`
}

// ParseNarration decodes a model reply and rejects anything outside the response schema.
func ParseNarration(raw string) (entity.Narration, error) {
	var payload narrationPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return entity.Narration{}, fmt.Errorf("%w: %w", apperror.ErrMalformedNarration, err)
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		return entity.Narration{}, fmt.Errorf("%w: empty message", apperror.ErrMalformedNarration)
	}

	if !payload.Mood.IsValid() {
		return entity.Narration{}, fmt.Errorf("%w: unknown mood %q", apperror.ErrMalformedNarration, payload.Mood)
	}

	return entity.Narration{Message: message, Mood: payload.Mood}, nil
}

// Prompt builds the localized model prompt for a finished roll.
func Prompt(lang string, request entity.NarrationRequest) string {
	printer := i18n.Printer(lang)

	prompt := printer.Sprintf(i18n.KeyPrompt, request.DiceCount, request.RollTotal, request.PreviousScore+request.RollTotal)
	if request.IsVictory {
		prompt += "\n" + printer.Sprintf(i18n.KeyPromptVictory)
	}

	return prompt
}
