// Package httpclient は外部サービスとのHTTP通信を行うクライアントを提供する。
//
// JSONレスポンスを返すAPIに対するGETおよびフォーム形式のPOSTを扱う。
// 2xx以外の応答は StatusError、ボディの解釈失敗は DecodeError として返し、
// 呼び出し側が失敗原因を区別できるようにする。
package httpclient
