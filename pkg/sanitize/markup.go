package sanitize

import "regexp"

var (
	// h1Regex は HTML 応答の最初の見出し要素をキャプチャします。
	h1Regex = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)

	// tagRegex は見出し内部に残った装飾タグ（span 等）にマッチします。
	tagRegex = regexp.MustCompile(`<[^>]*>`)
)

// TitleFromMarkup は、markup バリアントの応答（完全な HTML ページ）から
// タイトルを抽出します。最初の <h1> のテキストを採用し、内部のタグは除去します。
// 見出しが見つからない場合は空文字を返します（呼び出し側でフォールバックします）。
func TitleFromMarkup(html string) string {
	matches := h1Regex.FindStringSubmatch(html)
	if len(matches) < 2 {
		return ""
	}
	return tagRegex.ReplaceAllString(matches[1], "")
}
