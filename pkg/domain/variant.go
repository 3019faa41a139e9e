package domain

import "fmt"

// Variant は生成パイプラインの出力形式を表します。
// 3つの形式は単一の ContentGenerator の背後で切り替わります。
type Variant string

const (
	// VariantRich は画像・お客様の声・FAQ を含む最も豊富な JSON スキーマです。
	VariantRich Variant = "rich"
	// VariantFlat はフラットな JSON スキーマです。
	VariantFlat Variant = "flat"
	// VariantMarkup は構造化 JSON ではなく完全な HTML ページを出力します。
	VariantMarkup Variant = "markup"
)

// richRequiredKeys / flatRequiredKeys は、サニタイズ後に必ず存在しなければ
// ならないキーの一覧です。1つでも欠けると組み立ては失敗します。
var (
	richRequiredKeys = []string{
		"title", "tagline", "image_url", "color", "story",
		"benefits", "description", "offer", "bonus",
		"testimonials", "bio", "guarantee", "faq",
	}
	flatRequiredKeys = []string{
		"title", "tagline", "keywordHighlights", "visualImageUrl",
		"features", "story", "offer", "unlockables", "bonus",
		"guarantee", "finalCallToAction", "faq", "author",
	}
)

// ParseVariant は文字列をバリアントに変換します。空文字は「未指定」を表す
// 空のバリアントとして返し、デフォルトの解決は組み立て側に委ねます。
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantRich, VariantFlat, VariantMarkup:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("不明なバリアントです: %q", s)
	}
}

// RequiredKeys はバリアントごとの必須キー一覧を返します。
// markup は JSON スキーマを持たないため空です。
func (v Variant) RequiredKeys() []string {
	switch v {
	case VariantFlat:
		return flatRequiredKeys
	case VariantMarkup:
		return nil
	default:
		return richRequiredKeys
	}
}

// IsJSON は、バリアントの出力が JSON としてサニタイズされるべきかを返します。
func (v Variant) IsJSON() bool {
	return v != VariantMarkup
}
