// Package logger はzerologベースの構造化ロガーを提供する。
//
// プロセス全体で共有するルートロガーと、リクエスト単位の子ロガーを
// context.Context 経由で受け渡す仕組みを持つ。
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// root はプロセス全体で使用するルートロガー。Init で再構成される。
var root = zerolog.New(os.Stdout).With().Timestamp().Logger()

// ctxKey はコンテキストにロガーを格納するためのキー。
type ctxKey struct{}

// Init はルートロガーを初期化する。
// env が development の場合は人間向けのコンソール出力、それ以外はJSON出力となる。
func Init(env, level string) {
	var output io.Writer = os.Stdout
	if isDevelopment(env) {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	InitWithWriter(output, level)
}

// InitWithWriter は出力先を指定してルートロガーを初期化する。
func InitWithWriter(w io.Writer, level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	root = zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel はログレベル文字列をzerologのレベルに変換する。
// 未知の値は info として扱う。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get はルートロガーを返す。
func Get() *zerolog.Logger {
	return &root
}

// WithRequestID はリクエストIDを付与した子ロガーを返す。
func WithRequestID(requestID string) zerolog.Logger {
	return root.With().Str("request_id", requestID).Logger()
}

// NewContext はロガーを格納したコンテキストを返す。
func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext はコンテキストに格納されたロガーを返す。
// 格納されていない場合はルートロガーを返す。
func FromContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
		return l
	}
	return &root
}

func isDevelopment(env string) bool {
	switch env {
	case "", "dev", "development":
		return true
	}
	return false
}
