// 送料APIゲートウェイのエントリポイント。
// RajaOngkirの都市一覧と送料計算をCORS付きのJSON APIとして公開する。
// APIキーは起動時に一度だけ読み込み、ブラウザには渡さない。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/ongkir/internal/config"
	"github.com/nao1215/ongkir/internal/gateway"
	"github.com/nao1215/ongkir/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("設定の読み込みに失敗")
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Get()
	log.Info().
		Str("addr", cfg.Addr).
		Str("upstream", cfg.UpstreamBaseURL).
		Dur("timeout", cfg.UpstreamTimeout).
		Msg("Gatewayサービスを起動します")

	if err := gateway.NewServer(cfg).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Gatewayサービスの起動に失敗")
	}
	log.Info().Msg("Gatewayサービスを停止しました")
}
