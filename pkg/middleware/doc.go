// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// CORS設定、リクエストログ、パニックリカバリを含む。
package middleware
