// Package config はゲートウェイの設定を読み込む。
//
// .env ファイル（godotenv）、環境変数、カレントディレクトリの config.json（viper）の
// 順に値を解決する。読み込んだ Config は起動時に一度だけ生成され、以後変更しない。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nao1215/ongkir/internal/rajaongkir"
)

// Config はゲートウェイの設定値。
type Config struct {
	// Env は実行環境（development / production など）。
	Env string
	// LogLevel はログレベル。
	LogLevel string
	// Addr はHTTPサーバーのリッスンアドレス。
	Addr string
	// Gzip はレスポンス圧縮を有効にするかどうか。
	Gzip bool
	// APIKey はRajaOngkirのAPIキー。
	APIKey string
	// UpstreamBaseURL はRajaOngkir APIのベースURL。
	UpstreamBaseURL string
	// UpstreamTimeout は上流呼び出しのタイムアウト。
	UpstreamTimeout time.Duration
}

// Load は設定を読み込み、検証済みの Config を返す。
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config.jsonの読み込みに失敗: %w", err)
		}
	}

	cfg := Config{
		Env:             v.GetString("app.env"),
		LogLevel:        v.GetString("log.level"),
		Addr:            v.GetString("server.addr"),
		Gzip:            v.GetBool("server.gzip"),
		APIKey:          v.GetString("rajaongkir.api_key"),
		UpstreamBaseURL: v.GetString("rajaongkir.base_url"),
		UpstreamTimeout: v.GetDuration("rajaongkir.timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値の整合性を検証する。
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("RAJAONGKIR_API_KEY が設定されていません")
	}
	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("RAJAONGKIR_BASE_URL が不正です: %q", c.UpstreamBaseURL)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("RAJAONGKIR_TIMEOUT は正の値である必要があります: %s", c.UpstreamTimeout)
	}
	if c.Addr == "" {
		return errors.New("SERVER_ADDR が空です")
	}
	return nil
}

// loadDotEnv は ENV_FILE（未指定時は .env）を環境変数に読み込む。
// 既に設定済みの環境変数は上書きしない。.env が存在しない場合はエラーにしない。
func loadDotEnv() error {
	if file := os.Getenv("ENV_FILE"); file != "" {
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("%s の読み込みに失敗: %w", file, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(".env の読み込みに失敗: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", "127.0.0.1:3030")
	v.SetDefault("server.gzip", true)
	v.SetDefault("rajaongkir.api_key", "")
	v.SetDefault("rajaongkir.base_url", rajaongkir.DefaultBaseURL)
	v.SetDefault("rajaongkir.timeout", "30s")
}
