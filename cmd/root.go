package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-tunnel-kit/internal/config"
)

// flags はコマンドラインから上書き可能な実行時設定なのだ。
var flags struct {
	Addr    string
	Model   string
	Variant string
}

var rootCmd = &cobra.Command{
	Use:   "tunnel-kit",
	Short: "AIでセールスページ（トンネル）を生成・配信するサーバーなのだ。",
	Long: `商品説明のプロンプトから、テーマ色・画像・コピーライティングを含む
セールスページ一式をAIに生成させて、スラッグ付きで配信するのだ。`,
	PersistentPreRunE: preRunAppE,
	SilenceUsage:      true,
}

func init() {
	// 空のデフォルトは「フラグ未指定」を表し、環境変数由来の設定を上書きしないのだ
	rootCmd.PersistentFlags().StringVar(&flags.Addr, "addr", "", "HTTPサーバーの待ち受けアドレスなのだ（未指定なら TUNNEL_ADDR、既定 "+config.DefaultAddr+"）。")
	rootCmd.PersistentFlags().StringVar(&flags.Model, "model", "", "使用する Gemini モデル名なのだ（未指定なら GEMINI_MODEL、既定 "+config.DefaultModel+"）。")
	rootCmd.PersistentFlags().StringVar(&flags.Variant, "variant", "", "省略時に使う生成バリアント（rich / flat / markup）なのだ。")

	rootCmd.AddCommand(serveCmd)
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
