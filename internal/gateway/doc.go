// Package gateway は送料APIゲートウェイのHTTPサーバーを提供する。
//
// RajaOngkirの都市一覧と送料計算を GET /cities と POST /cost として公開し、
// ブラウザから直接呼び出せるよう全レスポンスにCORSヘッダーを付与する。
// 上流の失敗は原因に関わらず404として返し、原因はログにのみ残す。
package gateway
