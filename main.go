package main

import (
	"github.com/joho/godotenv"

	"github.com/shouni/go-tunnel-kit/cmd"
)

// main はアプリケーションの唯一のエントリーポイントなのだ！
// コマンドライン引数の解析と実行はすべて cmd パッケージに委ねるのだよ。
func main() {
	// .env はローカル開発用。無ければ環境変数だけで動くのだ。
	_ = godotenv.Load()

	cmd.Execute()
}
