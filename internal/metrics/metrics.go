package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 生成パイプラインの観測指標なのだ。ハンドラとビルダーから更新される。
var (
	TunnelsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunnel_generated_total",
		Help: "生成に成功したセールスページの総数",
	}, []string{"variant"})

	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunnel_generation_failures_total",
		Help: "生成に失敗した総数（段階別）",
	}, []string{"variant", "stage"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tunnel_generation_duration_seconds",
		Help:    "1件の生成に要した時間",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"variant"})

	ImageFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tunnel_image_fallbacks_total",
		Help: "画像生成に失敗しプレースホルダーへ退避した総数",
	})
)

// 失敗段階のラベル値。
const (
	StageValidation = "validation"
	StageGeneration = "generation"
	StageSanitize   = "sanitize"
)
