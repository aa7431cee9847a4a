// Package preprocessing はカテゴリ特徴量の変換器を提供する
package preprocessing

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/vaxset/core/frame"
	"github.com/YuminosukeSato/vaxset/core/model"
	"github.com/YuminosukeSato/vaxset/pkg/errors"
	"github.com/YuminosukeSato/vaxset/pkg/log"
)

// 未知カテゴリの扱い
const (
	// HandleUnknownError は未知カテゴリで UnknownCategoryError を返す
	HandleUnknownError = "error"
	// HandleUnknownIgnore は未知カテゴリを全て0のブロックとして出力し警告を出す
	HandleUnknownIgnore = "ignore"
)

// OneHotEncoder はscikit-learn互換のワンホットエンコーダー
// 各列の値をカテゴリとして扱い、カテゴリごとに0/1の列を出力する
type OneHotEncoder struct {
	model.BaseEstimator

	// Columns は学習時の列名（学習順）
	Columns []string

	// Categories は列ごとのソート済みカテゴリ
	Categories [][]string

	// HandleUnknown は未知カテゴリの扱い ("error" または "ignore")
	HandleUnknown string

	// NFeatures は出力列の数
	NFeatures int

	// featureNames は重複を解消した出力列名（Columns/Categories の順）
	featureNames []string
	// indexName は学習データのインデックス名
	indexName string
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
//
// パラメータ:
//   - handleUnknown: 未知カテゴリの扱い ("error" または "ignore")
//
// 使用例:
//
//	enc := preprocessing.NewOneHotEncoder(preprocessing.HandleUnknownError)
//	err := enc.Fit(all)
//	encoded, err := enc.Transform(test)
func NewOneHotEncoder(handleUnknown string) *OneHotEncoder {
	return &OneHotEncoder{
		HandleUnknown: handleUnknown,
	}
}

// NewOneHotEncoderDefault は handle_unknown="error" のOneHotEncoderを作成する
func NewOneHotEncoderDefault() *OneHotEncoder {
	return NewOneHotEncoder(HandleUnknownError)
}

// Fit は列ごとのカテゴリ集合を学習する
//
// カテゴリは数値として解釈できるものを数値順に先に、残りを辞書順に並べる。
// 数値として等しい表記 ("1" と "1.0") は同じカテゴリになり、最初に現れた表記を使う。
// 欠損値 (NaN) は独立したカテゴリとして最後に置かれる。
// 出力列名が衝突する場合は後の列に "_1", "_2" ... を付けて一意にする。
func (e *OneHotEncoder) Fit(X *frame.Frame) error {
	if e.HandleUnknown != HandleUnknownError && e.HandleUnknown != HandleUnknownIgnore {
		return errors.NewValidationError("handle_unknown", "must be 'error' or 'ignore'", e.HandleUnknown)
	}
	if X == nil || X.Nrow() == 0 || X.Ncol() == 0 {
		return errors.NewDataError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	start := time.Now()

	columns := X.Names()
	categories := make([][]string, len(columns))
	nFeatures := 0
	for j, name := range columns {
		col, err := X.Col(name)
		if err != nil {
			return err
		}
		categories[j] = distinctSorted(col.Records())
		nFeatures += len(categories[j])
	}

	e.Columns = columns
	e.Categories = categories
	e.NFeatures = nFeatures
	e.indexName = X.IndexName()
	e.featureNames = uniqueFeatureNames(e.indexName, columns, categories)
	e.SetFitted()

	logger := log.GetLoggerWithName("preprocessing")
	logger.Debug("encoder fitted",
		log.ModelNameKey, "OneHotEncoder",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.Nrow(),
		log.FeaturesKey, X.Ncol(),
		log.EncodedFeaturesKey, nFeatures,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Transform は学習済みカテゴリでXをワンホット化する
//
// 列は名前で対応付けるため順序は問わない。出力はXと同じ行インデックスを持ち、
// 列名は "<列名>_<カテゴリ>" になる。0行の入力からは0行の出力を返す。
func (e *OneHotEncoder) Transform(X *frame.Frame) (out *frame.Frame, err error) {
	defer errors.Recover(&err, "OneHotEncoder.Transform")

	if err := e.RequireFitted("OneHotEncoder", "Transform"); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValueError("OneHotEncoder.Transform", "input frame is nil")
	}
	if X.Ncol() != len(e.Columns) {
		return nil, errors.NewDimensionError("OneHotEncoder.Transform", len(e.Columns), X.Ncol(), 1)
	}

	cols := make([]series.Series, 0, e.NFeatures)
	offset := 0
	for j, name := range e.Columns {
		col, err := X.Col(name)
		if err != nil {
			return nil, err
		}
		cats := e.Categories[j]
		block, err := e.encodeColumn(name, cats, e.featureNames[offset:offset+len(cats)], col.Records())
		if err != nil {
			return nil, err
		}
		cols = append(cols, block...)
		offset += len(cats)
	}

	out, err = frame.New(X.IndexName(), X.Index(), cols...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *OneHotEncoder) encodeColumn(name string, categories, outNames, values []string) ([]series.Series, error) {
	pos := make(map[string]int, len(categories))
	for k, c := range categories {
		pos[categoryKey(c)] = k
	}
	hot := make([][]int, len(categories))
	for k := range hot {
		hot[k] = make([]int, len(values))
	}

	var unknown []string
	seen := make(map[string]bool)
	for i, v := range values {
		k, ok := pos[categoryKey(v)]
		if ok {
			hot[k][i] = 1
			continue
		}
		if e.HandleUnknown == HandleUnknownError {
			return nil, errors.NewUnknownCategoryError(name, v)
		}
		if !seen[v] {
			seen[v] = true
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		errors.Warn(errors.NewUnknownCategoryWarning(name, unknown))
	}

	block := make([]series.Series, len(categories))
	for k := range categories {
		block[k] = series.New(hot[k], series.Int, outNames[k])
	}
	return block, nil
}

// FitTransform は学習と変換を同じデータで実行する
func (e *OneHotEncoder) FitTransform(X *frame.Frame) (*frame.Frame, error) {
	if err := e.Fit(X); err != nil {
		return nil, err
	}
	return e.Transform(X)
}

// FeatureNames は出力列名を学習順に返す
func (e *OneHotEncoder) FeatureNames() ([]string, error) {
	if err := e.RequireFitted("OneHotEncoder", "FeatureNames"); err != nil {
		return nil, err
	}
	return append([]string(nil), e.featureNames...), nil
}

// GetParams はエンコーダーのパラメータを取得する
func (e *OneHotEncoder) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"handle_unknown": e.HandleUnknown,
	}
}

// String はエンコーダーの文字列表現を返す
func (e *OneHotEncoder) String() string {
	if !e.IsFitted() {
		return fmt.Sprintf("OneHotEncoder(handle_unknown=%s)", e.HandleUnknown)
	}
	return fmt.Sprintf("OneHotEncoder(handle_unknown=%s, n_columns=%d, n_features=%d)",
		e.HandleUnknown, len(e.Columns), e.NFeatures)
}

// onehotState はgobで保存する学習結果
type onehotState struct {
	IndexName     string
	Columns       []string
	Categories    [][]string
	HandleUnknown string
}

// Save は学習済みカテゴリをgobでファイルに保存する
func (e *OneHotEncoder) Save(path string) error {
	if err := e.RequireFitted("OneHotEncoder", "Save"); err != nil {
		return err
	}
	st := onehotState{
		IndexName:     e.indexName,
		Columns:       e.Columns,
		Categories:    e.Categories,
		HandleUnknown: e.HandleUnknown,
	}
	return model.SaveModel(&st, path)
}

// Load は保存済みのカテゴリを読み込み、学習済み状態にする
func (e *OneHotEncoder) Load(path string) error {
	var st onehotState
	if err := model.LoadModel(&st, path); err != nil {
		return err
	}
	if len(st.Columns) != len(st.Categories) {
		return errors.NewDimensionError("OneHotEncoder.Load", len(st.Columns), len(st.Categories), 1)
	}
	e.Columns = st.Columns
	e.Categories = st.Categories
	e.HandleUnknown = st.HandleUnknown
	e.NFeatures = 0
	for _, cats := range st.Categories {
		e.NFeatures += len(cats)
	}
	e.indexName = st.IndexName
	e.featureNames = uniqueFeatureNames(e.indexName, st.Columns, st.Categories)
	e.SetFitted()
	return nil
}

// uniqueFeatureNames は "<列名>_<カテゴリ>" を作り、衝突した後続の名前に
// "_1", "_2" ... を付ける。インデックス名とも衝突させない。
func uniqueFeatureNames(indexName string, columns []string, categories [][]string) []string {
	var natural []string
	for j, name := range columns {
		for _, c := range categories[j] {
			natural = append(natural, name+"_"+c)
		}
	}
	taken := make(map[string]bool, len(natural)+1)
	taken[indexName] = true
	for _, n := range natural {
		taken[n] = true
	}

	used := make(map[string]bool, len(natural))
	out := make([]string, len(natural))
	for i, n := range natural {
		if !used[n] && n != indexName {
			used[n] = true
			out[i] = n
			continue
		}
		name := n
		for k := 1; taken[name] || used[name]; k++ {
			name = n + "_" + strconv.Itoa(k)
		}
		used[name] = true
		taken[name] = true
		out[i] = name
	}
	return out
}

// categoryKey maps numerically equal spellings ("1", "1.0") to one key.
func categoryKey(v string) string {
	if v == frame.NaN {
		return v
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

// distinctSorted keeps the first spelling of every category key.
func distinctSorted(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, v := range values {
		key := categoryKey(v)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return categoryLess(out[i], out[j])
	})
	return out
}

// categoryLess orders numbers numerically first, then other strings
// lexically, then NaN.
func categoryLess(a, b string) bool {
	if a == frame.NaN || b == frame.NaN {
		return a != frame.NaN && b == frame.NaN
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
