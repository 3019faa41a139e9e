package store

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// cleanupInterval は失効レコードを掃除するジャニタの周期です。
const cleanupInterval = 10 * time.Minute

// Memory は go-cache を土台にしたインメモリの TunnelStore です。
// TTL を 0 にするとレコードはプロセスの寿命まで保持されます。
// TTL を設定すると、失効したレコードはジャニタによって回収されます。
type Memory struct {
	c *cache.Cache
}

// NewMemory は Memory ストアの新しいインスタンスを生成します。
func NewMemory(ttl time.Duration) *Memory {
	expiration := cache.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}
	return &Memory{
		c: cache.New(expiration, cleanupInterval),
	}
}

// Add は insert-once でレコードを保存します。go-cache の Add は
// キーが既に存在する場合に失敗するため、ミリ秒衝突が上書きになることはありません。
func (m *Memory) Add(slug string, record *domain.TunnelRecord) error {
	if err := m.c.Add(slug, record, cache.DefaultExpiration); err != nil {
		return fmt.Errorf("%w: %s", ErrSlugTaken, slug)
	}
	return nil
}

// Get は slug でレコードを引きます。
func (m *Memory) Get(slug string) (*domain.TunnelRecord, error) {
	value, found := m.c.Get(slug)
	if !found {
		return nil, fmt.Errorf("%w: %s", domain.ErrTunnelNotFound, slug)
	}

	record, ok := value.(*domain.TunnelRecord)
	if !ok {
		return nil, fmt.Errorf("ストア内の値の型が不正です: %T", value)
	}
	return record, nil
}

// Delete は slug に対応するレコードを削除します。
func (m *Memory) Delete(slug string) {
	m.c.Delete(slug)
}
