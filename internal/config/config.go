package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

// デフォルト値の定義なのだ
const (
	DefaultModel             = "gemini-3-flash-preview"
	DefaultTemperature       = float32(0.7)
	DefaultAddr              = ":8080"
	DefaultImageEndpoint     = "https://fal.run/fal-ai/flux/schnell"
	DefaultTextTimeout       = 90 * time.Second
	DefaultImageTimeout      = 30 * time.Second
	DefaultImageRateInterval = 10 * time.Second
)

// Config はアプリケーション全体の環境設定（APIキーや動作パラメータ）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	Temperature  float32

	// Flux 画像生成の資格情報。空の場合はプレースホルダーのみで動作するのだ。
	ImageAPIKey   string
	ImageEndpoint string

	DefaultVariant domain.Variant
	Addr           string

	TextTimeout       time.Duration
	ImageTimeout      time.Duration
	ImageRateInterval time.Duration

	// StoreTTL が 0 の場合、レコードは失効しない。
	StoreTTL time.Duration
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:  envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		Temperature:  DefaultTemperature,

		ImageAPIKey:   envutil.GetEnv("FAL_KEY", ""),
		ImageEndpoint: envutil.GetEnv("FAL_ENDPOINT", DefaultImageEndpoint),

		DefaultVariant: variantEnv("TUNNEL_VARIANT"),
		Addr:           envutil.GetEnv("TUNNEL_ADDR", DefaultAddr),

		TextTimeout:       durationEnv("TUNNEL_TEXT_TIMEOUT", DefaultTextTimeout),
		ImageTimeout:      durationEnv("TUNNEL_IMAGE_TIMEOUT", DefaultImageTimeout),
		ImageRateInterval: durationEnv("TUNNEL_IMAGE_RATE_INTERVAL", DefaultImageRateInterval),
		StoreTTL:          durationEnv("TUNNEL_STORE_TTL", 0),
	}
}

// variantEnv は環境変数をバリアントとして解釈する。未設定や不明値は
// デフォルト（rich）に落ちるのだ。
func variantEnv(key string) domain.Variant {
	v, err := domain.ParseVariant(envutil.GetEnv(key, ""))
	if err != nil || v == "" {
		return domain.VariantRich
	}
	return v
}

// durationEnv は環境変数を time.Duration として解釈する。不正値はデフォルトに落ちるのだ。
func durationEnv(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
