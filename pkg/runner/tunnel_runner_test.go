package runner

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
	"github.com/shouni/go-tunnel-kit/pkg/prompts"
	"github.com/shouni/go-tunnel-kit/pkg/store"
)

const validRichJSON = `{
	"title": "Lance ton agence OFM",
	"tagline": "Marre de galérer ?",
	"image_url": "https://modele.example.com/invente.png",
	"color": "#000000",
	"story": "Il y a deux ans...",
	"benefits": [{"title": "Accès à vie", "description": "...", "icon": "Star"}],
	"description": "Une méthode claire et prouvée.",
	"offer": {"title": "Blueprint Academy", "original_price": "1296€", "current_price": "596€", "cta": "Accéder maintenant"},
	"bonus": [{"title": "Templates", "description": "...", "value": "97€"}],
	"testimonials": [{"name": "Léa", "text": "Incroyable", "result": "+3000€/mois"}],
	"bio": {"name": "Mael", "title": "Fondateur", "description": "...", "achievements": ["10 ans d'expérience"]},
	"guarantee": {"title": "Satisfait ou remboursé", "description": "30 jours"},
	"faq": [{"question": "Q", "answer": "A"}]
}`

const validFlatJSON = `{
	"title": "Ma boutique Vinted",
	"tagline": "Vends plus, plus vite",
	"keywordHighlights": ["Vinted", "revente"],
	"visualImageUrl": "Une penderie bien organisée",
	"features": [{"title": "Méthode complète", "iconSuggestion": "star", "description": "..."}],
	"story": "Tout a commencé...",
	"offer": {"label": "Pack Revente", "price": "49€", "oldPrice": "99€", "cta": "Je me lance"},
	"unlockables": [{"title": "SOURCING", "bullets": ["a", "b"]}],
	"bonus": ["Checklist PDF"],
	"guarantee": "Satisfait ou remboursé",
	"finalCallToAction": "Rejoins-nous",
	"faq": [{"question": "Q", "answer": "A"}],
	"author": "Revendeuse pro"
}`

type fakeImages struct {
	url   string
	calls atomic.Int32
}

func (f *fakeImages) Acquire(_ context.Context, _ string, _ domain.ThemeColor) string {
	f.calls.Add(1)
	return f.url
}

type fakeGen struct {
	raw         string
	err         error
	lastVariant domain.Variant
}

func (f *fakeGen) Generate(_ context.Context, variant domain.Variant, _ prompts.TemplateData) (string, error) {
	f.lastVariant = variant
	return f.raw, f.err
}

func newTestRunner(gen ContentGenerator, imageURL string) (*TunnelRunner, *store.Memory) {
	tunnels := store.NewMemory(0)
	r := NewTunnelRunner(&fakeImages{url: imageURL}, gen, tunnels, domain.VariantRich)
	r.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return r, tunnels
}

func TestTunnelRunner_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("rich バリアントの完全な成功パス", func(t *testing.T) {
		r, tunnels := newTestRunner(&fakeGen{raw: validRichJSON}, "https://cdn.example.com/hero.png")

		rec, err := r.Run(ctx, domain.GenerationRequest{Prompt: "Je veux vendre un ebook de nutrition"})
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}

		if !strings.HasPrefix(rec.Slug, "lance-ton-agence-ofm-") {
			t.Errorf("slug がタイトル由来ではありません: %s", rec.Slug)
		}
		if rec.Prompt != "Je veux vendre un ebook de nutrition" {
			t.Errorf("元のプロンプトが保持されていません: %s", rec.Prompt)
		}

		// モデルが返した値ではなく、取得済みの正準値で上書きされていること
		if rec.Content["image_url"] != "https://cdn.example.com/hero.png" {
			t.Errorf("image_url が正準化されていません: %v", rec.Content["image_url"])
		}
		if rec.Content["color"] != "#10B981" {
			t.Errorf("テーマ色が正準化されていません: %v", rec.Content["color"])
		}

		stored, err := tunnels.Get(rec.Slug)
		if err != nil {
			t.Fatalf("保存されたレコードが取得できません: %v", err)
		}
		if stored != rec {
			t.Error("ストアのレコードが戻り値と一致しません")
		}
	})

	t.Run("バリアント未指定の要求には設定済みデフォルトが適用されること", func(t *testing.T) {
		gen := &fakeGen{raw: validFlatJSON}
		tunnels := store.NewMemory(0)
		r := NewTunnelRunner(&fakeImages{url: "https://cdn.example.com/hero.png"}, gen, tunnels, domain.VariantFlat)
		r.now = func() time.Time { return time.UnixMilli(1700000000000) }

		rec, err := r.Run(ctx, domain.GenerationRequest{Prompt: "produit"})
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}
		if gen.lastVariant != domain.VariantFlat {
			t.Errorf("生成器に渡ったバリアントが flat ではありません: %s", gen.lastVariant)
		}
		if rec.Variant != domain.VariantFlat {
			t.Errorf("レコードのバリアントが flat ではありません: %s", rec.Variant)
		}
	})

	t.Run("空のプロンプトは即座に拒否されること", func(t *testing.T) {
		r, _ := newTestRunner(&fakeGen{raw: validRichJSON}, "https://cdn.example.com/hero.png")

		for _, prompt := range []string{"", "   "} {
			_, err := r.Run(ctx, domain.GenerationRequest{Prompt: prompt})
			if !errors.Is(err, domain.ErrEmptyPrompt) {
				t.Errorf("プロンプト %q: ErrEmptyPrompt を期待しましたが %v でした", prompt, err)
			}
		}
	})

	t.Run("同じタイトルでも slug が衝突せず両方取得できること", func(t *testing.T) {
		r, tunnels := newTestRunner(&fakeGen{raw: validRichJSON}, "https://cdn.example.com/hero.png")

		first, err := r.Run(ctx, domain.GenerationRequest{Prompt: "produit A"})
		if err != nil {
			t.Fatalf("1件目の組み立てに失敗しました: %v", err)
		}
		// 時刻源が固定されているため、2件目は衝突からの再試行で救済される
		second, err := r.Run(ctx, domain.GenerationRequest{Prompt: "produit A"})
		if err != nil {
			t.Fatalf("2件目の組み立てに失敗しました: %v", err)
		}

		if first.Slug == second.Slug {
			t.Fatalf("slug が衝突しています: %s", first.Slug)
		}
		for _, s := range []string{first.Slug, second.Slug} {
			if _, err := tunnels.Get(s); err != nil {
				t.Errorf("slug %s が取得できません: %v", s, err)
			}
		}
	})

	t.Run("テキスト生成の失敗時は何も保存されないこと", func(t *testing.T) {
		gen := &fakeGen{err: &domain.GenerationError{Err: errors.New("unreachable")}}
		r, _ := newTestRunner(gen, "https://cdn.example.com/hero.png")

		_, err := r.Run(ctx, domain.GenerationRequest{Prompt: "produit"})
		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("GenerationError を期待しましたが %v でした", err)
		}
	})

	t.Run("必須キー欠落時は何も保存されないこと", func(t *testing.T) {
		r, _ := newTestRunner(&fakeGen{raw: `{"title": "Seul"}`}, "https://cdn.example.com/hero.png")

		_, err := r.Run(ctx, domain.GenerationRequest{Prompt: "produit"})
		var malformed *domain.MalformedContentError
		if !errors.As(err, &malformed) {
			t.Fatalf("MalformedContentError を期待しましたが %v でした", err)
		}
		if len(malformed.MissingKeys) == 0 {
			t.Error("欠落キーが報告されていません")
		}
	})

	t.Run("画像がプレースホルダーでも組み立ては成功すること", func(t *testing.T) {
		placeholder := "https://source.unsplash.com/800x450/?business,emerald&sig=1700000000000"
		r, _ := newTestRunner(&fakeGen{raw: validRichJSON}, placeholder)

		rec, err := r.Run(ctx, domain.GenerationRequest{Prompt: "produit"})
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}
		if rec.Content["image_url"] != placeholder {
			t.Errorf("プレースホルダー URL が記録されていません: %v", rec.Content["image_url"])
		}
	})

	t.Run("markup バリアントは2枚の画像を取得して h1 からタイトルを得ること", func(t *testing.T) {
		html := `<html><body><h1>Lance ton <span>agence</span></h1></body></html>`
		images := &fakeImages{url: "https://cdn.example.com/img.png"}
		tunnels := store.NewMemory(0)
		r := NewTunnelRunner(images, &fakeGen{raw: html}, tunnels, domain.VariantRich)
		r.now = func() time.Time { return time.UnixMilli(1700000000000) }

		rec, err := r.Run(ctx, domain.GenerationRequest{Prompt: "produit", Variant: domain.VariantMarkup})
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}

		if images.calls.Load() != 2 {
			t.Errorf("画像取得は2回のはずですが %d 回でした", images.calls.Load())
		}
		if rec.Content.Title() != "Lance ton agence" {
			t.Errorf("h1 由来のタイトルを期待しましたが %q でした", rec.Content.Title())
		}
		if rec.Content["html"] != html {
			t.Error("HTML 本体が保持されていません")
		}
		if !strings.HasPrefix(rec.Slug, "lance-ton-agence-") {
			t.Errorf("slug がタイトル由来ではありません: %s", rec.Slug)
		}
	})

	t.Run("h1 の無い markup 応答はプロンプトをタイトルに代用すること", func(t *testing.T) {
		r, _ := newTestRunner(&fakeGen{raw: "<p>page sans titre</p>"}, "https://cdn.example.com/img.png")

		rec, err := r.Run(ctx, domain.GenerationRequest{Prompt: "mon produit", Variant: domain.VariantMarkup})
		if err != nil {
			t.Fatalf("組み立てに失敗しました: %v", err)
		}
		if rec.Content.Title() != "mon produit" {
			t.Errorf("プロンプト代用のタイトルを期待しましたが %q でした", rec.Content.Title())
		}
	})
}
