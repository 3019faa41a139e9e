package domain

import (
	"encoding/json"
	"time"
)

// GenerationRequest は1回のトンネル生成要求を表します。
// Prompt は必須で、Variant が空の場合はサーバー側のデフォルトが適用されます。
type GenerationRequest struct {
	Prompt  string  `json:"prompt"`
	Variant Variant `json:"variant,omitempty"`
}

// ThemeColor はプロンプトから導出されるカラーテーマです。
// リクエストごとに再計算される派生値であり、単体で永続化されることはありません。
type ThemeColor struct {
	Primary    string `json:"primary"`
	PrimaryRGB string `json:"primaryRgb"`
	Name       string `json:"name"`
}

// TunnelContent は AI モデルの応答をサニタイズして得られる構造化コンテンツです。
// 必須キーの集合はバリアントごとに異なるため、固定構造体ではなくマップで保持します。
type TunnelContent map[string]any

// Title はコンテンツからタイトル文字列を取り出します。存在しない場合は空文字です。
func (c TunnelContent) Title() string {
	title, _ := c["title"].(string)
	return title
}

// TunnelRecord は生成済みトンネルの完全な記録です。
// 作成後は読み取り専用で、slug が外部から参照するための唯一のハンドルになります。
type TunnelRecord struct {
	Slug      string
	CreatedAt time.Time
	Prompt    string
	Variant   Variant
	Content   TunnelContent
}

// MarshalJSON は「コンテンツ + メタデータ展開」形式で
// シリアライズします。メタデータのキーはコンテンツ側のキーを上書きします。
func (r *TunnelRecord) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(r.Content)+4)
	for k, v := range r.Content {
		merged[k] = v
	}
	merged["slug"] = r.Slug
	merged["createdAt"] = r.CreatedAt.UTC().Format(time.RFC3339)
	merged["prompt"] = r.Prompt
	merged["variant"] = r.Variant
	return json.Marshal(merged)
}

// ResponsePayload は生成直後のレスポンス用に、コンテンツと slug のみを返します。
// 保存レコードの全メタデータとは異なり、作成 API の戻り値に合わせた形です。
func (r *TunnelRecord) ResponsePayload() map[string]any {
	payload := make(map[string]any, len(r.Content)+1)
	for k, v := range r.Content {
		payload[k] = v
	}
	payload["slug"] = r.Slug
	return payload
}
