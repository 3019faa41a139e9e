package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// Provider は画像取得の契約です。Acquire は決して失敗しません。
// 画像合成サービスの呼び出しに失敗した場合はプレースホルダー URL に
// フォールバックするため、戻り値は常に利用可能な URL です。
type Provider interface {
	Acquire(ctx context.Context, prompt string, theme domain.ThemeColor) string
}

// ProviderConfig は FluxProvider の構築パラメータです。
// APIKey を空にすると、外部呼び出しを行わずプレースホルダー生成のみになります。
// 環境変数を直接読むのではなく、ここで明示的に注入します。
type ProviderConfig struct {
	Endpoint     string
	APIKey       string
	Timeout      time.Duration
	RateInterval time.Duration
}

// FluxProvider は flux/schnell 系の画像合成エンドポイントを呼び出す Provider です。
type FluxProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	// now は差し替え可能な時刻源です（プレースホルダーのキャッシュバスター用）。
	now func() time.Time

	// OnFallback はプレースホルダーに退避した際に呼ばれるフックです（計測用、省略可）。
	OnFallback func()
}

const defaultRateBurst = 2

// NewFluxProvider は FluxProvider の新しいインスタンスを生成します。
func NewFluxProvider(cfg ProviderConfig) *FluxProvider {
	var limiter *rate.Limiter
	if cfg.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RateInterval), defaultRateBurst)
	}

	return &FluxProvider{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		now:        time.Now,
	}
}

// fluxRequest は画像合成エンドポイントへのリクエストボディです。
// サイズと推論ステップ数は固定で、忠実度よりレイテンシを優先しています。
type fluxRequest struct {
	Prompt            string `json:"prompt"`
	ImageSize         string `json:"image_size"`
	NumInferenceSteps int    `json:"num_inference_steps"`
	NumImages         int    `json:"num_images"`
}

type fluxResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// Acquire はテーマ由来のスタイルキーワードを添えて画像を1回だけ要求します。
// 資格情報の欠如・非 2xx 応答・通信エラー・不正なボディはすべて吸収し、
// 即座にプレースホルダーへフォールバックします。リトライはしません。
func (p *FluxProvider) Acquire(ctx context.Context, prompt string, theme domain.ThemeColor) string {
	if p.apiKey == "" {
		slog.DebugContext(ctx, "画像サービスの資格情報が未設定のためプレースホルダーを使用します")
		return p.fallback(prompt, theme)
	}

	url, err := p.generate(ctx, prompt, theme)
	if err != nil {
		slog.WarnContext(ctx, "画像生成に失敗しました。プレースホルダーに退避します",
			"error", err,
		)
		return p.fallback(prompt, theme)
	}
	return url
}

func (p *FluxProvider) generate(ctx context.Context, prompt string, theme domain.ThemeColor) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("レートリミッタの待機に失敗しました: %w", err)
		}
	}

	body, err := json.Marshal(fluxRequest{
		Prompt:            fmt.Sprintf("%s, %s color palette, modern, clean, high quality", prompt, theme.Name),
		ImageSize:         "landscape_4_3",
		NumInferenceSteps: 4,
		NumImages:         1,
	})
	if err != nil {
		return "", fmt.Errorf("リクエストボディの作成に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("画像サービスへのリクエストに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("画像サービスがエラーを返しました: status=%d", resp.StatusCode)
	}

	var decoded fluxResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("画像サービスの応答の解析に失敗しました: %w", err)
	}
	if len(decoded.Images) == 0 || decoded.Images[0].URL == "" {
		return "", fmt.Errorf("画像サービスの応答に画像 URL が含まれていません")
	}

	return decoded.Images[0].URL, nil
}

func (p *FluxProvider) fallback(prompt string, theme domain.ThemeColor) string {
	if p.OnFallback != nil {
		p.OnFallback()
	}
	return PlaceholderURL(prompt, theme, p.now())
}
