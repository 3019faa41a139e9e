package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// PromptBuilder は、AIプロンプトを構築する契約です。
type PromptBuilder interface {
	Build(variant domain.Variant, data TemplateData) (string, error)
}

// TunnelPromptBuilder は販売ページ生成プロンプトの構成を管理し、
// バリアント選択のロジックを内包します。
type TunnelPromptBuilder struct {
	templates map[domain.Variant]*template.Template
}

// NewTunnelPromptBuilder は TunnelPromptBuilder を初期化します。
func NewTunnelPromptBuilder() (*TunnelPromptBuilder, error) {
	parsedTemplates := make(map[domain.Variant]*template.Template)
	for variant, content := range allTemplates {
		if content == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", variant)
		}

		tmpl, err := template.New(string(variant)).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", variant, err)
		}
		parsedTemplates[variant] = tmpl
	}

	return &TunnelPromptBuilder{
		templates: parsedTemplates,
	}, nil
}

// Build は、要求されたバリアントに応じて適切なテンプレートを実行します。
func (b *TunnelPromptBuilder) Build(variant domain.Variant, data TemplateData) (string, error) {
	tmpl, ok := b.templates[variant]
	if !ok {
		return "", fmt.Errorf("不明なバリアントです: '%s'", variant)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}

	return sb.String(), nil
}
