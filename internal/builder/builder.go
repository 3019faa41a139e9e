package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"

	"github.com/shouni/go-tunnel-kit/internal/config"
	"github.com/shouni/go-tunnel-kit/internal/metrics"
	"github.com/shouni/go-tunnel-kit/pkg/generator"
	"github.com/shouni/go-tunnel-kit/pkg/image"
	"github.com/shouni/go-tunnel-kit/pkg/prompts"
	"github.com/shouni/go-tunnel-kit/pkg/runner"
	"github.com/shouni/go-tunnel-kit/pkg/store"
)

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, cfg *config.Config) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		Temperature: genai.Ptr(cfg.Temperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// textModel は gemini クライアントを generator.TextModel に適合させるアダプタなのだ。
type textModel struct {
	client gemini.GenerativeModel
	model  string
}

func (m *textModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.GenerateContent(ctx, prompt, m.model)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// BuildTunnelRunner は設定から依存一式を組み立て、ページ生成の Runner を構築します。
func BuildTunnelRunner(ctx context.Context, cfg *config.Config) (*runner.TunnelRunner, store.TunnelStore, error) {
	aiClient, err := InitializeAIClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	promptBuilder, err := prompts.NewTunnelPromptBuilder()
	if err != nil {
		return nil, nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}

	gen := generator.NewContentGenerator(
		&textModel{client: aiClient, model: cfg.GeminiModel},
		promptBuilder,
	)

	images := image.NewFluxProvider(image.ProviderConfig{
		Endpoint:     cfg.ImageEndpoint,
		APIKey:       cfg.ImageAPIKey,
		Timeout:      cfg.ImageTimeout,
		RateInterval: cfg.ImageRateInterval,
	})
	images.OnFallback = func() { metrics.ImageFallbacks.Inc() }

	tunnels := store.NewMemory(cfg.StoreTTL)

	return runner.NewTunnelRunner(images, gen, tunnels, cfg.DefaultVariant), tunnels, nil
}
