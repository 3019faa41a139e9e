package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyPrompt は、呼び出し側の入力が空だった場合のバリデーションエラーです。
// 利用者が自力で修正できるエラーとして、そのまま表面化させます。
var ErrEmptyPrompt = errors.New("プロンプトが空です")

// ErrTunnelNotFound は、指定された slug に対応するレコードが存在しない場合のエラーです。
var ErrTunnelNotFound = errors.New("トンネルが見つかりません")

// GenerationError はテキスト生成モデルの呼び出し失敗を表します。
// 上流の原因はログに残し、呼び出し元には汎用的なサーバーエラーとして返します。
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("テキスト生成に失敗しました: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedContentError は、モデル応答のパース失敗または必須キーの欠落を表します。
// MissingKeys が空の場合はパース自体の失敗で、Raw に診断用の応答抜粋を保持します。
type MalformedContentError struct {
	MissingKeys []string
	Raw         string
	Err         error
}

func (e *MalformedContentError) Error() string {
	if len(e.MissingKeys) > 0 {
		return fmt.Sprintf("必須キーが欠落しています: %s", strings.Join(e.MissingKeys, ", "))
	}
	return fmt.Sprintf("モデル応答を JSON として解析できませんでした (応答抜粋: %q): %v", e.Raw, e.Err)
}

func (e *MalformedContentError) Unwrap() error { return e.Err }
