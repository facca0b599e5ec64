package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig はCORSミドルウェアの設定。
type CORSConfig struct {
	// AllowedOrigins は許可するオリジン。"*" を含む場合は全オリジンを許可する。
	AllowedOrigins []string
	// AllowedMethods は許可するHTTPメソッド。
	AllowedMethods []string
	// AllowedHeaders は許可するリクエストヘッダー。大文字小文字は区別しない。
	AllowedHeaders []string
	// MaxAge はプリフライト結果のキャッシュ秒数を表す文字列。空の場合は送出しない。
	MaxAge string
}

// CORS はクロスオリジンリクエストを許可するGinミドルウェアを返す。
// 許可オリジンが "*" の場合、Originヘッダーの有無に関わらず全レスポンスに
// Access-Control-Allow-Origin: * を付与する。
// プリフライトで許可外のメソッドまたはヘッダーが要求された場合は403を返す。
func CORS(cfg CORSConfig) gin.HandlerFunc {
	wildcard := false
	originsSet := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			wildcard = true
		}
		originsSet[o] = struct{}{}
	}

	methodsSet := make(map[string]struct{}, len(cfg.AllowedMethods))
	for _, m := range cfg.AllowedMethods {
		methodsSet[strings.ToUpper(m)] = struct{}{}
	}
	headersSet := make(map[string]struct{}, len(cfg.AllowedHeaders))
	for _, h := range cfg.AllowedHeaders {
		headersSet[strings.ToLower(h)] = struct{}{}
	}

	allowMethods := strings.Join(cfg.AllowedMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := wildcard
		if wildcard {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if _, ok := originsSet[origin]; ok && origin != "" {
			allowed = true
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		if allowed {
			c.Header("Access-Control-Allow-Methods", allowMethods)
			c.Header("Access-Control-Allow-Headers", allowHeaders)
			if cfg.MaxAge != "" {
				c.Header("Access-Control-Max-Age", cfg.MaxAge)
			}
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		// プリフライト
		if requested := c.GetHeader("Access-Control-Request-Method"); requested != "" {
			if _, ok := methodsSet[strings.ToUpper(requested)]; !ok {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		for _, h := range splitHeaderList(c.GetHeader("Access-Control-Request-Headers")) {
			if _, ok := headersSet[strings.ToLower(h)]; !ok {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// splitHeaderList はカンマ区切りのヘッダー名リストを分割する。
func splitHeaderList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
