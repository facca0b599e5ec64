package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gin-gonic/gin"

	"github.com/nao1215/ongkir/internal/config"
	"github.com/nao1215/ongkir/internal/rajaongkir"
	"github.com/nao1215/ongkir/pkg/logger"
	"github.com/nao1215/ongkir/pkg/middleware"
)

// shutdownTimeout はシャットダウン時に処理中リクエストの完了を待つ時間。
const shutdownTimeout = 5 * time.Second

// RateService は送料APIの操作。*rajaongkir.Client が実装する。
type RateService interface {
	// FetchCities は都市ディレクトリを取得する。
	FetchCities(ctx context.Context, apiKey string) ([]rajaongkir.City, error)
	// ComputeCost は送料を計算する。
	ComputeCost(ctx context.Context, apiKey string, req rajaongkir.CostRequest) ([]rajaongkir.CourierCost, error)
}

// Server はゲートウェイのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// addr はサーバーのリッスンアドレス。
	addr string
	// apiKey は上流に渡すAPIキー。起動後は変更しない。
	apiKey string
	// rates は上流の送料API。
	rates RateService
	// gzip はレスポンス圧縮を有効にするかどうか。
	gzip bool
}

// NewServer は設定から新しいゲートウェイサーバーを生成する。
func NewServer(cfg config.Config) *Server {
	client := rajaongkir.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	return newServer(cfg.Addr, cfg.APIKey, client, cfg.Gzip)
}

// newServer はサーバーを組み立てる。テストからは任意の RateService を渡す。
func newServer(addr, apiKey string, rates RateService, gzip bool) *Server {
	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", rajaongkir.HeaderAPIKey},
	}))

	s := &Server{
		router: router,
		addr:   addr,
		apiKey: apiKey,
		rates:  rates,
		gzip:   gzip,
	}
	s.setupRoutes()
	return s
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/cities", s.handleGetCities())
	s.router.POST("/cost", s.handleCalculateCost())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
	})
}

// Handler はサーバー全体のHTTPハンドラーを返す。
// 圧縮が有効な場合はgzipハンドラーで包む。
func (s *Server) Handler() http.Handler {
	if s.gzip {
		return gziphandler.GzipHandler(s.router)
	}
	return s.router
}

// Run はHTTPサーバーを起動し、ctx がキャンセルされるまで処理を続ける。
// キャンセル後は処理中のリクエストの完了を待ってから戻る。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log := logger.Get()
	log.Info().Str("addr", s.addr).Msg("gateway listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("gateway shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	return nil
}
