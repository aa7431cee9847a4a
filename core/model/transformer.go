package model

import "github.com/YuminosukeSato/vaxset/core/frame"

// Transformer はインデックス付きテーブルを変換するインターフェース
//
// 出力は入力と同じ行インデックスを同じ順序で持つ。
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X *frame.Frame) error

	// Transform はデータを変換する
	Transform(X *frame.Frame) (*frame.Frame, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X *frame.Frame) (*frame.Frame, error)
}

// ParamGetter はハイパーパラメータを公開する変換器のインターフェース
type ParamGetter interface {
	// GetParams はハイパーパラメータを取得する
	GetParams() map[string]interface{}
}

// Persistable はファイルに保存・復元できる変換器のインターフェース
type Persistable interface {
	Save(path string) error
	Load(path string) error
}
