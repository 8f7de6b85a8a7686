package advisor

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Aditya2838/new-market/internal/config"
	"github.com/Aditya2838/new-market/internal/logger"
)

// DeepSeekAdvisor asks a DeepSeek model for entry recommendations. When
// disabled (or on any API failure) callers fall back to the static
// per-slot table in static.go.
type DeepSeekAdvisor struct {
	client  *openai.Client
	model   string
	cfg     *config.Config
	logger  *logger.Logger
	enabled bool
}

func NewDeepSeekAdvisor(cfg *config.Config, log *logger.Logger) *DeepSeekAdvisor {
	if !cfg.DeepSeek.Enabled {
		return &DeepSeekAdvisor{enabled: false, cfg: cfg, logger: log}
	}

	ocfg := openai.DefaultConfig(cfg.DeepSeek.APIKey)
	ocfg.BaseURL = "https://api.deepseek.com/v1"

	return &DeepSeekAdvisor{
		client:  openai.NewClientWithConfig(ocfg),
		model:   cfg.DeepSeek.Model,
		cfg:     cfg,
		logger:  log,
		enabled: true,
	}
}

func (d *DeepSeekAdvisor) Enabled() bool {
	return d.enabled
}

func (d *DeepSeekAdvisor) Recommend(ctx context.Context, view *MarketView) ([]Recommendation, string, error) {
	if !d.enabled {
		return nil, "", fmt.Errorf("deepseek advisor is disabled")
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.DeepSeekTimeout())
	defer cancel()

	userPrompt := BuildUserPrompt(view)

	d.logger.Info("sending recommendation request to DeepSeek",
		"slot", string(view.Slot), "spot", view.Spot)

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("deepseek API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, "", fmt.Errorf("deepseek returned no choices")
	}

	rawResponse := resp.Choices[0].Message.Content
	d.logger.Debug("advisor raw response", "content", rawResponse)

	recs, err := ParseRecommendations(rawResponse)
	if err != nil {
		return nil, rawResponse, fmt.Errorf("parse advisor response: %w", err)
	}

	return recs, rawResponse, nil
}
