package prompts

import (
	_ "embed"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// TemplateData は指示プロンプトのテンプレートに渡すデータ構造です。
type TemplateData struct {
	// Prompt は利用者が入力した商品説明です。
	Prompt string
	// ImageURL は事前に取得済みのヒーロー画像 URL です（rich / flat）。
	ImageURL string
	// HeroImageURL / ExpertImageURL は markup バリアント用の2枚の画像 URL です。
	HeroImageURL   string
	ExpertImageURL string
	// PrimaryColor はテーマの主色（16進数）です。
	PrimaryColor string
	// ThemeName はテーマのカラー名（emerald 等）です。
	ThemeName string
}

var (
	//go:embed rich.md
	RichPrompt string
	//go:embed flat.md
	FlatPrompt string
	//go:embed markup.md
	MarkupPrompt string
)

// allTemplates はバリアントとテンプレート文字列を紐づけるマップです。
var allTemplates = map[domain.Variant]string{
	domain.VariantRich:   RichPrompt,
	domain.VariantFlat:   FlatPrompt,
	domain.VariantMarkup: MarkupPrompt,
}
