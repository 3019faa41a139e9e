package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter は HTTP ルーティングを構築するのだ。
func NewRouter(h *Handler) *gin.Engine {
	g := gin.Default()

	api := g.Group("/api")
	{
		api.POST("/generate", h.GenerateTunnel)
		api.GET("/tunnels/:slug", h.GetTunnel)
	}

	g.GET("/healthz", h.Healthz)
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return g
}
