// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 設定・データ形状・エンコーディングの失敗を型付きエラーとして表現し、
// cockroachdb/errors によるスタックトレースを付与します。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("vaxset-Warning: %v\n", w)
	}
	// 構造化ロガー（循環importを避けるため pkg/log 側から設定される）
	logWarnFunc func(warning error)
)

// SetWarningHandler sets the fallback handler used when no structured logger
// has been registered.
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetLogWarnFunc registers the structured-logger hook. pkg/log calls this so
// that this package does not import it.
func SetLogWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	logWarnFunc = warnFunc
}

// Warn raises a warning through the structured logger if one is registered,
// otherwise through the fallback handler.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if logWarnFunc != nil {
		logWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// UnknownCategoryWarning は未知のカテゴリを無視して変換した場合の警告です。
type UnknownCategoryWarning struct {
	Column string
	Values []string
}

func (w *UnknownCategoryWarning) Error() string {
	return fmt.Sprintf("found unknown categories %v in column '%s' during transform; encoded as all zeros", w.Values, w.Column)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UnknownCategoryWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Strs("values", w.Values).
		Str("type", "UnknownCategoryWarning")
}

// NewUnknownCategoryWarning は新しいUnknownCategoryWarningを作成します。
func NewUnknownCategoryWarning(column string, values []string) *UnknownCategoryWarning {
	return &UnknownCategoryWarning{Column: column, Values: values}
}

// ===========================================================================
//
//	設定・ファイルのエラー型
//
// ===========================================================================

// ConfigError is returned when the configuration is missing a section or
// required keys, or holds a malformed value.
type ConfigError struct {
	Section string
	Keys    []string
	Reason  string
}

func (e *ConfigError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("vaxset: config: section [%s]: %s: %s", e.Section, e.Reason, strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("vaxset: config: section [%s]: %s", e.Section, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("section", e.Section).
		Strs("keys", e.Keys).
		Str("reason", e.Reason).
		Str("type", "ConfigError")
}

// NewConfigError は新しいConfigErrorを作成し、スタックトレースを付与します。
func NewConfigError(section, reason string, keys ...string) error {
	return errors.WithStack(&ConfigError{Section: section, Keys: keys, Reason: reason})
}

// FileNotFoundError is returned when a configured file does not exist.
// It unwraps to the underlying *fs.PathError so errors.Is(err, fs.ErrNotExist)
// holds.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("vaxset: file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FileNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("type", "FileNotFoundError")
}

// NewFileNotFoundError は新しいFileNotFoundErrorを作成し、スタックトレースを付与します。
func NewFileNotFoundError(path string, cause error) error {
	return errors.WithStack(&FileNotFoundError{Path: path, Err: cause})
}

// ===========================================================================
//
//	データ形状のエラー型
//
// ===========================================================================

// ColumnNotFoundError is returned when a named column is absent from a table.
type ColumnNotFoundError struct {
	Op     string
	Column string
	Source string // file path or table description, may be empty
}

func (e *ColumnNotFoundError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("vaxset: %s: column '%s' not found in %s", e.Op, e.Column, e.Source)
	}
	return fmt.Sprintf("vaxset: %s: column '%s' not found", e.Op, e.Column)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ColumnNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("source", e.Source).
		Str("type", "ColumnNotFoundError")
}

// NewColumnNotFoundError は新しいColumnNotFoundErrorを作成し、スタックトレースを付与します。
func NewColumnNotFoundError(op, column, source string) error {
	return errors.WithStack(&ColumnNotFoundError{Op: op, Column: column, Source: source})
}

// IndexError is returned when a row identifier violates the index
// invariants: missing, duplicated, or shared between train and test tables.
type IndexError struct {
	Op     string
	Column string
	Reason string
	Value  string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("vaxset: %s: index '%s': %s (value: %q)", e.Op, e.Column, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IndexError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("value", e.Value).
		Str("type", "IndexError")
}

// NewIndexError は新しいIndexErrorを作成し、スタックトレースを付与します。
func NewIndexError(op, column, reason, value string) error {
	return errors.WithStack(&IndexError{Op: op, Column: column, Reason: reason, Value: value})
}

// DataError は読み込みやテーブル操作の一般的な失敗です。
type DataError struct {
	Op   string
	Kind string
	Err  error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vaxset: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("vaxset: %s: %s", e.Op, e.Kind)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError は新しいDataErrorを作成し、スタックトレースを付与します。
func NewDataError(op, kind string, err error) error {
	return errors.WithStack(&DataError{Op: op, Kind: kind, Err: err})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("vaxset: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ===========================================================================
//
//	エンコーダのエラー型
//
// ===========================================================================

// NotFittedError は未学習のエンコーダで `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("vaxset: %s: this encoder is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// UnknownCategoryError is returned when a value outside the fitted
// vocabulary reaches an encoder configured to reject it.
type UnknownCategoryError struct {
	Column string
	Value  string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("vaxset: unknown category %q in column '%s' during transform", e.Value, e.Column)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownCategoryError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Str("value", e.Value).
		Str("type", "UnknownCategoryError")
}

// NewUnknownCategoryError は新しいUnknownCategoryErrorを作成し、スタックトレースを付与します。
func NewUnknownCategoryError(column, value string) error {
	return errors.WithStack(&UnknownCategoryError{Column: column, Value: value})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vaxset: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切な場合のエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("vaxset: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
