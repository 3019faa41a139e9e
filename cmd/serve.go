package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-tunnel-kit/internal/api"
	"github.com/shouni/go-tunnel-kit/internal/builder"
	"github.com/shouni/go-tunnel-kit/internal/config"
	"github.com/shouni/go-tunnel-kit/pkg/domain"
)

const shutdownGrace = 10 * time.Second

// serveCmd は、生成APIと配信APIを含むHTTPサーバーを起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "セールスページの生成・配信サーバーを起動しますなのだ。",
	Long: `POST /api/generate でページを生成し、GET /api/tunnels/:slug で配信するのだ。
/metrics で Prometheus 形式の計測値も公開するのだよ。`,
	RunE: serveCommand,
}

// applyFlags は明示的に指定されたフラグだけで設定を上書きするのだ。
// 空のフラグ（未指定）は環境変数由来の値をそのまま残すのだよ。
func applyFlags(cfg *config.Config) error {
	if flags.Model != "" {
		cfg.GeminiModel = flags.Model
	}
	if flags.Addr != "" {
		cfg.Addr = flags.Addr
	}
	if flags.Variant != "" {
		variant, err := domain.ParseVariant(flags.Variant)
		if err != nil {
			return err
		}
		cfg.DefaultVariant = variant
	}
	return nil
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 環境変数から基本設定をロードし、フラグで上書きするのだ
	cfg := config.LoadConfig()
	if err := applyFlags(cfg); err != nil {
		return err
	}

	// 2. 依存関係を組み立てるのだ
	tunnelRunner, tunnels, err := builder.BuildTunnelRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("依存関係の構築に失敗したのだ: %w", err)
	}

	handler := api.NewHandler(tunnelRunner, tunnels)
	handler.Timeout = cfg.TextTimeout

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(handler),
	}

	slog.Info("セールスページ生成サーバーを起動するのだ！",
		"addr", cfg.Addr,
		"model", cfg.GeminiModel,
		"variant", cfg.DefaultVariant,
		"image_generation", cfg.ImageAPIKey != "",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("サーバーの起動に失敗したのだ: %w", err)
	case <-ctx.Done():
	}

	slog.Info("終了シグナルを受け取ったのだ。後片付けをするのだよ")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("サーバーの停止に失敗したのだ: %w", err)
	}

	slog.Info("すべての後片付けが完了したのだ！")
	return nil
}
