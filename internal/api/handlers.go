package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-tunnel-kit/internal/metrics"
	"github.com/shouni/go-tunnel-kit/pkg/domain"
	"github.com/shouni/go-tunnel-kit/pkg/store"
)

// TunnelAssembler は1件のセールスページを組み立てる処理の抽象です。
type TunnelAssembler interface {
	Run(ctx context.Context, req domain.GenerationRequest) (*domain.TunnelRecord, error)
}

// Handler は HTTP リクエストを組み立てパイプラインとストアに結び付けるのだ。
type Handler struct {
	assembler TunnelAssembler
	tunnels   store.TunnelStore

	// Timeout は1件の生成に許す上限時間。ゼロ値なら無制限なのだ。
	Timeout time.Duration
}

// NewHandler は新しい Handler を生成する
func NewHandler(assembler TunnelAssembler, tunnels store.TunnelStore) *Handler {
	return &Handler{assembler: assembler, tunnels: tunnels}
}

// generateRequest は POST /api/generate のリクエストボディです。
type generateRequest struct {
	Prompt  string `json:"prompt"`
	Variant string `json:"variant"`
}

// GenerateTunnel handles POST /api/generate
func (h *Handler) GenerateTunnel(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	variant, err := domain.ParseVariant(body.Variant)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Variante inconnue"})
		return
	}

	ctx := c.Request.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	start := time.Now()
	record, err := h.assembler.Run(ctx, domain.GenerationRequest{
		Prompt:  body.Prompt,
		Variant: variant,
	})
	if err != nil {
		h.renderGenerationError(c, variant, err)
		return
	}

	metrics.TunnelsGenerated.WithLabelValues(string(record.Variant)).Inc()
	metrics.GenerationDuration.WithLabelValues(string(record.Variant)).Observe(time.Since(start).Seconds())
	slog.Info("tunnel generated",
		"slug", record.Slug,
		"variant", record.Variant,
		"duration", time.Since(start),
	)

	c.JSON(http.StatusOK, record.ResponsePayload())
}

// renderGenerationError は失敗の種類ごとに診断可能なエラー応答を返すのだ。
func (h *Handler) renderGenerationError(c *gin.Context, variant domain.Variant, err error) {
	// 未指定のままの失敗はサーバーデフォルト適用前なので、ラベルを分けて数える
	label := string(variant)
	if label == "" {
		label = "default"
	}

	var malformed *domain.MalformedContentError
	switch {
	case errors.Is(err, domain.ErrEmptyPrompt):
		metrics.GenerationFailures.WithLabelValues(label, metrics.StageValidation).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt manquant"})

	case errors.As(err, &malformed):
		metrics.GenerationFailures.WithLabelValues(label, metrics.StageSanitize).Inc()
		slog.Error("model returned malformed content", "error", err)
		message := "L'IA n'a pas renvoyé un JSON valide."
		if len(malformed.MissingKeys) > 0 {
			message = fmt.Sprintf("Clés manquantes: %s", strings.Join(malformed.MissingKeys, ", "))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})

	default:
		metrics.GenerationFailures.WithLabelValues(label, metrics.StageGeneration).Inc()
		slog.Error("tunnel generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "La génération a échoué. Réessayez."})
	}
}

// GetTunnel handles GET /api/tunnels/:slug
func (h *Handler) GetTunnel(c *gin.Context) {
	slug := c.Param("slug")

	record, err := h.tunnels.Get(slug)
	if err != nil {
		if errors.Is(err, domain.ErrTunnelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tunnel non trouvé"})
			return
		}
		slog.Error("tunnel lookup failed", "slug", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "La récupération a échoué."})
		return
	}

	c.JSON(http.StatusOK, record)
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
