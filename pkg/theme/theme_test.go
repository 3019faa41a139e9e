package theme

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Run("同じプロンプトからは常に同じテーマが返ること", func(t *testing.T) {
		prompt := "Je veux vendre une formation crypto"
		first := Classify(prompt)
		second := Classify(prompt)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("決定論的ではありません。1回目: %+v, 2回目: %+v", first, second)
		}
	})

	t.Run("複数の群にマッチする場合は先勝ちになること", func(t *testing.T) {
		// "nutrition" (健康) と "ebook" (教育) の両方を含むが、健康が先に定義されている
		got := Classify("Je veux vendre un ebook de nutrition")
		if got.Name != "emerald" {
			t.Errorf("健康テーマ (emerald) を期待しましたが %q でした", got.Name)
		}
		if got.Primary != "#10B981" {
			t.Errorf("期待値 #10B981, 実際の値 %s", got.Primary)
		}
	})

	t.Run("大文字小文字を区別しないこと", func(t *testing.T) {
		got := Classify("Une APP pour les pros")
		if got.Name != "blue" {
			t.Errorf("tech テーマ (blue) を期待しましたが %q でした", got.Name)
		}
	})

	t.Run("どの群にもマッチしない場合はデフォルトになること", func(t *testing.T) {
		got := Classify("quelque chose de totalement neutre")
		if got.Name != "emerald" || got.PrimaryRGB != "16, 185, 129" {
			t.Errorf("デフォルトテーマを期待しましたが %+v でした", got)
		}
	})

	t.Run("空のプロンプトでも失敗しないこと", func(t *testing.T) {
		got := Classify("")
		if got.Primary == "" {
			t.Error("空プロンプトでテーマが返りませんでした")
		}
	})
}
