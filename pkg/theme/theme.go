package theme

import (
	"strings"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// group はキーワード群と、それに紐づくテーマカラーの組です。
type group struct {
	keywords []string
	color    domain.ThemeColor
}

// groups は分類の優先順位そのものです。複数の群にマッチしうるプロンプトでも、
// 先頭に近い群が必ず勝ちます（first-match-wins）。順序を変えると分類結果が変わります。
var groups = []group{
	{
		// テクノロジー・デジタル
		keywords: []string{"tech", "digital", "app", "logiciel"},
		color:    domain.ThemeColor{Primary: "#3B82F6", PrimaryRGB: "59, 130, 246", Name: "blue"},
	},
	{
		// EC・販売
		keywords: []string{"vinted", "vente", "e-commerce", "boutique"},
		color:    domain.ThemeColor{Primary: "#06B6D4", PrimaryRGB: "6, 182, 212", Name: "cyan"},
	},
	{
		// 健康・ウェルネス
		keywords: []string{"santé", "fitness", "sport", "médical", "alimentation", "nutrition"},
		color:    domain.ThemeColor{Primary: "#10B981", PrimaryRGB: "16, 185, 129", Name: "emerald"},
	},
	{
		// 金融・暗号資産
		keywords: []string{"finance", "crypto", "bitcoin", "investissement", "trading"},
		color:    domain.ThemeColor{Primary: "#F59E0B", PrimaryRGB: "245, 158, 11", Name: "amber"},
	},
	{
		// 教育・講座
		keywords: []string{"formation", "cours", "éducation", "apprentissage", "ebook"},
		color:    domain.ThemeColor{Primary: "#8B5CF6", PrimaryRGB: "139, 92, 246", Name: "violet"},
	},
	{
		// 旅行・観光
		keywords: []string{"voyage", "italie", "tourisme", "vacances"},
		color:    domain.ThemeColor{Primary: "#059669", PrimaryRGB: "5, 150, 105", Name: "green"},
	},
	{
		// ファッション・美容
		keywords: []string{"mode", "beauté", "cosmétique", "style"},
		color:    domain.ThemeColor{Primary: "#EC4899", PrimaryRGB: "236, 72, 153", Name: "pink"},
	},
	{
		// 不動産
		keywords: []string{"immobilier", "maison", "appartement"},
		color:    domain.ThemeColor{Primary: "#DC2626", PrimaryRGB: "220, 38, 38", Name: "red"},
	},
	{
		// アート・クリエイティブ
		keywords: []string{"art", "design", "créatif", "photo"},
		color:    domain.ThemeColor{Primary: "#7C3AED", PrimaryRGB: "124, 58, 237", Name: "purple"},
	},
	{
		// ゲーム
		keywords: []string{"gaming", "jeu", "esport"},
		color:    domain.ThemeColor{Primary: "#EF4444", PrimaryRGB: "239, 68, 68", Name: "red"},
	},
}

// defaultColor はどの群にもマッチしなかった場合のテーマです。
var defaultColor = domain.ThemeColor{Primary: "#10B981", PrimaryRGB: "16, 185, 129", Name: "emerald"}

// Classify はプロンプトを決定論的にテーマカラーへ分類します。
// 純粋関数であり、同じ入力には常に同じ結果を返します。エラーはありません。
func Classify(prompt string) domain.ThemeColor {
	lower := strings.ToLower(prompt)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.color
			}
		}
	}
	return defaultColor
}
