package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
	"github.com/shouni/go-tunnel-kit/pkg/prompts"
)

// TextModel はテキスト生成モデルとの通信を抽象化する契約です。
// 実装はクライアント初期化時に固定された温度とモデル名で1回の補完を行います。
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ContentGenerator は、指示プロンプトを組み立てて外部のテキスト生成モデルを
// ちょうど1回呼び出し、生のテキストをそのまま返します。
// 呼び出しの失敗はパイプライン全体にとって致命的で、リトライせずに伝播します。
type ContentGenerator struct {
	model         TextModel
	promptBuilder prompts.PromptBuilder
}

// NewContentGenerator は ContentGenerator の新しいインスタンスを生成します。
func NewContentGenerator(model TextModel, pb prompts.PromptBuilder) *ContentGenerator {
	return &ContentGenerator{
		model:         model,
		promptBuilder: pb,
	}
}

// Generate はバリアントに応じた指示プロンプトを構築してモデルに渡します。
// 取得済みの画像 URL とテーマはプロンプトに埋め込まれます。
func (g *ContentGenerator) Generate(ctx context.Context, variant domain.Variant, data prompts.TemplateData) (string, error) {
	finalPrompt, err := g.promptBuilder.Build(variant, data)
	if err != nil {
		return "", fmt.Errorf("プロンプト生成に失敗: %w", err)
	}

	slog.InfoContext(ctx, "ContentGenerator: Calling text model", "variant", variant)
	raw, err := g.model.GenerateText(ctx, finalPrompt)
	if err != nil {
		return "", &domain.GenerationError{Err: err}
	}

	return raw, nil
}
