package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/rocketscienceinc/dice-backend/internal/apperror"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

const jsonMIMEType = "application/json"

type GeminiConfig struct {
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Language string

	HTTPClient *http.Client
}

// GeminiNarrator asks a Gemini model for a short comment and a mood.
// Every failure degrades to the fallback narration.
type GeminiNarrator struct {
	logger   *slog.Logger
	client   *genai.Client
	model    string
	timeout  time.Duration
	lang     string
	fallback *FallbackNarrator
}

func NewGeminiNarrator(ctx context.Context, logger *slog.Logger, cfg GeminiConfig) (*GeminiNarrator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key is not set", apperror.ErrNarrationUnavailable)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create client: %w", apperror.ErrNarrationUnavailable, err)
	}

	return &GeminiNarrator{
		logger:   logger.With("component", "narrator"),
		client:   client,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		lang:     cfg.Language,
		fallback: NewFallbackNarrator(cfg.Language),
	}, nil
}

func (that *GeminiNarrator) Narrate(ctx context.Context, request entity.NarrationRequest) entity.Narration {
	log := that.logger.With("method", "Narrate")

	narration, err := that.generate(ctx, request)
	if err != nil {
		log.Warn("narration failed, using fallback", "total", request.RollTotal, "error", err)
		return that.fallback.Narrate(ctx, request)
	}

	return narration
}

func (that *GeminiNarrator) generate(ctx context.Context, request entity.NarrationRequest) (entity.Narration, error) {
	if that.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.timeout)
		defer cancel()
	}

	response, err := that.client.Models.GenerateContent(ctx, that.model, genai.Text(Prompt(that.lang, request)), &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   narrationSchema(),
	})
	if err != nil {
		return entity.Narration{}, fmt.Errorf("%w: %w", apperror.ErrNarrationUnavailable, err)
	}

	return ParseNarration(response.Text())
}

func narrationSchema() *genai.Schema {
	moods := make([]string, 0, len(entity.Moods))
	for _, mood := range entity.Moods {
		moods = append(moods, string(mood))
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"message": {Type: genai.TypeString},
			"mood":    {Type: genai.TypeString, Enum: moods},
		},
		Required: []string{"message", "mood"},
	}
}
