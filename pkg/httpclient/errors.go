package httpclient

import "fmt"

// StatusError は接続先が2xx以外のステータスを返したことを表す。
type StatusError struct {
	// Method はHTTPメソッド。
	Method string
	// URL はリクエスト先URL。
	URL string
	// StatusCode はレスポンスのHTTPステータスコード。
	StatusCode int
	// Body はレスポンスボディの先頭部分。
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: %s %s status=%d, body=%s", e.Method, e.URL, e.StatusCode, e.Body)
}

// DecodeError はレスポンスボディのデシリアライズに失敗したことを表す。
type DecodeError struct {
	// URL はリクエスト先URL。
	URL string
	// Err はデコーダが返したエラー。
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("レスポンスボディのデシリアライズに失敗: %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
