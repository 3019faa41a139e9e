package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
	"github.com/shouni/go-tunnel-kit/pkg/image"
	"github.com/shouni/go-tunnel-kit/pkg/prompts"
	"github.com/shouni/go-tunnel-kit/pkg/sanitize"
	"github.com/shouni/go-tunnel-kit/pkg/slug"
	"github.com/shouni/go-tunnel-kit/pkg/store"
	"github.com/shouni/go-tunnel-kit/pkg/theme"
)

// maxSlugAttempts は slug 衝突時の再試行上限です。タイムスタンプを
// 取り直すため、同一ミリ秒の衝突でも上書きは起こりません。
const maxSlugAttempts = 3

// ContentGenerator はテキスト生成工程の契約です。
type ContentGenerator interface {
	Generate(ctx context.Context, variant domain.Variant, data prompts.TemplateData) (string, error)
}

// TunnelRunner は生成パイプライン全体を司るオーケストレータです。
// テーマ分類 → 画像取得 → テキスト生成 → サニタイズ → slug 導出 → 保存の順に
// 進み、完全なレコードを1件保存するか、部分書き込みなしで失敗するかの
// どちらかです。どの工程も自動リトライしません。
type TunnelRunner struct {
	images         image.Provider
	gen            ContentGenerator
	tunnels        store.TunnelStore
	defaultVariant domain.Variant

	// now はテストで差し替え可能な時刻源です。
	now func() time.Time
}

// NewTunnelRunner は依存関係を注入して TunnelRunner を初期化します。
func NewTunnelRunner(
	images image.Provider,
	gen ContentGenerator,
	tunnels store.TunnelStore,
	defaultVariant domain.Variant,
) *TunnelRunner {
	if defaultVariant == "" {
		defaultVariant = domain.VariantRich
	}
	return &TunnelRunner{
		images:         images,
		gen:            gen,
		tunnels:        tunnels,
		defaultVariant: defaultVariant,
		now:            time.Now,
	}
}

// Run は1件の生成要求からトンネルレコードを組み立てて保存します。
func (r *TunnelRunner) Run(ctx context.Context, req domain.GenerationRequest) (*domain.TunnelRecord, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	variant := req.Variant
	if variant == "" {
		variant = r.defaultVariant
	}

	themeColor := theme.Classify(prompt)
	slog.InfoContext(ctx, "TunnelRunner: Starting pipeline",
		"variant", variant,
		"theme", themeColor.Name,
	)

	var (
		content domain.TunnelContent
		title   string
		err     error
	)
	if variant == domain.VariantMarkup {
		content, title, err = r.runMarkup(ctx, prompt, themeColor)
	} else {
		content, title, err = r.runJSON(ctx, variant, prompt, themeColor)
	}
	if err != nil {
		return nil, err
	}

	return r.persist(ctx, prompt, variant, title, content)
}

// runJSON は rich / flat バリアントの生成工程です。
func (r *TunnelRunner) runJSON(ctx context.Context, variant domain.Variant, prompt string, themeColor domain.ThemeColor) (domain.TunnelContent, string, error) {
	// 画像取得は常に成功する（失敗はプレースホルダーに吸収される）
	imageURL := r.images.Acquire(ctx, heroImagePrompt(prompt), themeColor)

	raw, err := r.gen.Generate(ctx, variant, prompts.TemplateData{
		Prompt:       prompt,
		ImageURL:     imageURL,
		PrimaryColor: themeColor.Primary,
		ThemeName:    themeColor.Name,
	})
	if err != nil {
		return nil, "", err
	}

	content, err := sanitize.Content(raw, variant)
	if err != nil {
		return nil, "", err
	}

	// モデルが URL や色を言い換えても、取得済みの正準値で上書きする
	if variant == domain.VariantRich {
		content["image_url"] = imageURL
		content["color"] = themeColor.Primary
	}

	return content, content.Title(), nil
}

// runMarkup は markup バリアントの生成工程です。ヒーロー画像と講師画像は
// データ依存がないため並行取得します（どちらも失敗しません）。
func (r *TunnelRunner) runMarkup(ctx context.Context, prompt string, themeColor domain.ThemeColor) (domain.TunnelContent, string, error) {
	var heroImage, expertImage string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		heroImage = r.images.Acquire(egCtx, heroImagePrompt(prompt), themeColor)
		return nil
	})
	eg.Go(func() error {
		expertImage = r.images.Acquire(egCtx, "Professional headshot of an expert teacher, confident, modern lighting", themeColor)
		return nil
	})
	_ = eg.Wait()

	raw, err := r.gen.Generate(ctx, domain.VariantMarkup, prompts.TemplateData{
		Prompt:         prompt,
		HeroImageURL:   heroImage,
		ExpertImageURL: expertImage,
		PrimaryColor:   themeColor.Primary,
		ThemeName:      themeColor.Name,
	})
	if err != nil {
		return nil, "", err
	}

	// HTML 塊からタイトルを抽出する。見出しが無ければ元のプロンプトで代用する
	title := sanitize.TitleFromMarkup(raw)
	if title == "" {
		title = prompt
	}

	content := domain.TunnelContent{
		"html":        raw,
		"title":       title,
		"heroImage":   heroImage,
		"expertImage": expertImage,
	}
	return content, title, nil
}

// persist はタイムスタンプ付き slug を導出し、insert-once でレコードを保存します。
// 衝突した場合はタイムスタンプを進めて取り直します。
func (r *TunnelRunner) persist(ctx context.Context, prompt string, variant domain.Variant, title string, content domain.TunnelContent) (*domain.TunnelRecord, error) {
	base := slug.Make(title)

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		createdAt := r.now()
		key := slug.WithTimestamp(base, createdAt.Add(time.Duration(attempt)*time.Millisecond))

		record := &domain.TunnelRecord{
			Slug:      key,
			CreatedAt: createdAt,
			Prompt:    prompt,
			Variant:   variant,
			Content:   content,
		}

		if err := r.tunnels.Add(key, record); err != nil {
			if errors.Is(err, store.ErrSlugTaken) {
				continue
			}
			return nil, err
		}

		slog.InfoContext(ctx, "TunnelRunner: Stored tunnel", "slug", key)
		return record, nil
	}

	return nil, fmt.Errorf("slug の一意性を確保できませんでした: %s", base)
}

func heroImagePrompt(prompt string) string {
	return fmt.Sprintf("Professional hero image for %s, modern, clean, high quality", prompt)
}
