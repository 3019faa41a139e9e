package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// invalidCharRegex は単語構成文字・空白・ハイフン以外のすべてにマッチします。
	invalidCharRegex = regexp.MustCompile(`[^\w\s-]`)

	// whitespaceRegex は連続する空白にマッチします。
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Make はタイトルから URL-safe なスラッグの基底部分を導出します。
// 小文字化 → 不正文字の除去 → 空白連続のハイフン化 → 端のハイフン除去の順です。
// 記号だけのタイトルは空文字になります（タイムスタンプ付与側で救済されます）。
func Make(title string) string {
	s := strings.ToLower(title)
	s = invalidCharRegex.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespaceRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithTimestamp は基底スラッグに Unix ミリ秒を付加して、同一タイトルが短時間に
// 連続生成されても実用上衝突しない識別子を作ります。基底が空の場合は
// タイムスタンプのみがスラッグになります。
func WithTimestamp(base string, t time.Time) string {
	millis := t.UnixMilli()
	if base == "" {
		return fmt.Sprintf("%d", millis)
	}
	return fmt.Sprintf("%s-%d", base, millis)
}
