package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/ongkir/pkg/logger"
)

// HeaderRequestID はレスポンスに付与するリクエストIDヘッダー名。
const HeaderRequestID = "X-Request-ID"

// RequestLogger はリクエストごとにIDを採番し、処理結果を構造化ログに出力するGinミドルウェアを返す。
// 採番したIDを持つ子ロガーはリクエストのコンテキストに格納され、
// ハンドラからは logger.FromContext で取り出せる。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.New().String()[:8]
		reqLogger := logger.WithRequestID(requestID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), &reqLogger))
		c.Header(HeaderRequestID, requestID)

		c.Next()

		status := c.Writer.Status()
		event := reqLogger.Info()
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case status >= 400:
			event = reqLogger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("duration_ms", time.Since(start)).
			Str("ip", c.ClientIP()).
			Str("origin", c.GetHeader("Origin")).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP")
	}
}
