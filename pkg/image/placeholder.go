package image

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// stockCategory はプレースホルダー画像の素材カテゴリです。
type stockCategory struct {
	name     string
	keywords []string
}

// stockCategories は先勝ちで評価されます。どれにもマッチしない場合は business です。
var stockCategories = []stockCategory{
	{name: "food", keywords: []string{"food", "restaurant", "cuisine", "recette", "nutrition", "alimentation"}},
	{name: "tech", keywords: []string{"tech", "app", "logiciel", "digital", "saas"}},
	{name: "fitness", keywords: []string{"fitness", "sport", "muscle", "yoga", "santé"}},
	{name: "travel", keywords: []string{"voyage", "travel", "tourisme", "vacances"}},
	{name: "fashion", keywords: []string{"mode", "fashion", "beauté", "style"}},
}

const defaultStockCategory = "business"

// PlaceholderURL はプロンプトを素材カテゴリに分類し、テーマ名と
// キャッシュバスター用のタイムスタンプを組み込んだプレースホルダー画像 URL を
// 構築します。純粋関数であり、失敗しません。
func PlaceholderURL(prompt string, theme domain.ThemeColor, now time.Time) string {
	category := classifyStock(prompt)
	query := url.QueryEscape(category + "," + theme.Name)
	return fmt.Sprintf("https://source.unsplash.com/800x450/?%s&sig=%d", query, now.UnixMilli())
}

func classifyStock(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, cat := range stockCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.name
			}
		}
	}
	return defaultStockCategory
}
