// Package rajaongkir はRajaOngkir（インドネシアの送料検索サービス）のクライアントを提供する。
//
// 都市ディレクトリの取得と送料計算の2操作を扱う。上流のレスポンスは
// {"rajaongkir": {"results": [...]}} 形式のエンベロープで返るため、
// 内側の results だけを取り出して返す。失敗は原因種別付きの UpstreamError になる。
package rajaongkir
