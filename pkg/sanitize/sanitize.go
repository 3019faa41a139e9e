package sanitize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

const rawExcerptLimit = 200

// Content は、AI モデルが返した生テキストをバリアントに応じた TunnelContent に
// 矯正します。回復不能な場合は *domain.MalformedContentError を返します。
// 部分的な成功はありません。サニタイズは all-or-nothing です。
func Content(raw string, variant domain.Variant) (domain.TunnelContent, error) {
	rawJSON := extractJSON(raw)

	var content domain.TunnelContent
	if err := json.Unmarshal([]byte(rawJSON), &content); err != nil {
		return nil, &domain.MalformedContentError{
			Raw: truncateString(strings.TrimSpace(raw), rawExcerptLimit),
			Err: err,
		}
	}

	if missing := missingKeys(content, variant.RequiredKeys()); len(missing) > 0 {
		return nil, &domain.MalformedContentError{MissingKeys: missing}
	}

	return content, nil
}

// extractJSON は、AI が付けがちな Markdown のコードブロック (```json ... ```) を
// 取り除き、JSON 本体を取り出します。フェンスが無い場合は最外殻の波括弧を探し、
// それも無ければ全体を JSON とみなします。
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	matches := jsonBlockRegex.FindStringSubmatch(raw)
	if len(matches) > 1 {
		return matches[1]
	}

	firstBracket := strings.Index(raw, "{")
	lastBracket := strings.LastIndex(raw, "}")
	if firstBracket != -1 && lastBracket > firstBracket {
		return raw[firstBracket : lastBracket+1]
	}

	return raw
}

// missingKeys は必須キーのうち欠落しているものを列挙します。
// 方針: null・空文字・空配列・空オブジェクトはすべて「欠落」として扱います。
// 空の offer や faq を持つトンネルはページとして成立しないためです。
func missingKeys(content domain.TunnelContent, required []string) []string {
	var missing []string
	for _, key := range required {
		value, ok := content[key]
		if !ok || isEmpty(value) {
			missing = append(missing, key)
		}
	}
	return missing
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		// 数値や真偽値は値そのものが意味を持つため、常に「存在する」とみなす
		return false
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
