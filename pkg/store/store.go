package store

import (
	"errors"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// ErrSlugTaken は、同じ slug のレコードが既に存在する場合のエラーです。
// 組み立て側はタイムスタンプを取り直して再試行できます。
var ErrSlugTaken = errors.New("この slug は既に使用されています")

// TunnelStore は slug をキーとするレコード保管の契約です。
// レコードは挿入後に更新されることがないため、Add は insert-once です。
// 実装は並行な Add / Get に対して安全でなければなりません。
type TunnelStore interface {
	// Add は slug が未使用の場合のみレコードを保存します。
	// 既に存在する場合は ErrSlugTaken を返します。
	Add(slug string, record *domain.TunnelRecord) error

	// Get は slug に対応するレコードを返します。
	// 存在しない場合は domain.ErrTunnelNotFound を返します。
	Get(slug string) (*domain.TunnelRecord, error)

	// Delete は slug に対応するレコードを削除します。存在しなくてもエラーになりません。
	Delete(slug string)
}
