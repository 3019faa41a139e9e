package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
	"github.com/shouni/go-tunnel-kit/pkg/prompts"
)

type fakeModel struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeModel) GenerateText(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func TestContentGenerator_Generate(t *testing.T) {
	pb, err := prompts.NewTunnelPromptBuilder()
	if err != nil {
		t.Fatalf("プロンプトビルダーの初期化に失敗しました: %v", err)
	}

	data := prompts.TemplateData{
		Prompt:       "Je veux vendre un ebook de nutrition",
		ImageURL:     "https://cdn.example.com/hero.png",
		PrimaryColor: "#10B981",
	}

	t.Run("画像 URL とテーマ色がプロンプトに埋め込まれること", func(t *testing.T) {
		model := &fakeModel{response: "{}"}
		gen := NewContentGenerator(model, pb)

		if _, err := gen.Generate(context.Background(), domain.VariantRich, data); err != nil {
			t.Fatalf("生成に失敗しました: %v", err)
		}
		if !strings.Contains(model.lastPrompt, data.ImageURL) {
			t.Error("画像 URL がプロンプトに含まれていません")
		}
		if !strings.Contains(model.lastPrompt, data.PrimaryColor) {
			t.Error("テーマ色がプロンプトに含まれていません")
		}
		if !strings.Contains(model.lastPrompt, data.Prompt) {
			t.Error("商品説明がプロンプトに含まれていません")
		}
		if !strings.Contains(model.lastPrompt, "testimonials") {
			t.Error("rich スキーマの必須キーがプロンプトに含まれていません")
		}
	})

	t.Run("モデルの応答が加工されずに返ること", func(t *testing.T) {
		model := &fakeModel{response: "```json\n{\"title\": \"X\"}\n```"}
		gen := NewContentGenerator(model, pb)

		raw, err := gen.Generate(context.Background(), domain.VariantFlat, data)
		if err != nil {
			t.Fatalf("生成に失敗しました: %v", err)
		}
		if raw != model.response {
			t.Errorf("応答が加工されています: %q", raw)
		}
	})

	t.Run("モデルの失敗が GenerationError として伝播すること", func(t *testing.T) {
		model := &fakeModel{err: errors.New("service unavailable")}
		gen := NewContentGenerator(model, pb)

		_, err := gen.Generate(context.Background(), domain.VariantRich, data)
		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("GenerationError を期待しましたが %T でした", err)
		}
	})
}
