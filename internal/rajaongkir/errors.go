package rajaongkir

import "fmt"

// Kind は上流呼び出しの失敗原因の種別。
type Kind int

const (
	// KindTransport は通信エラーやタイムアウトを表す。
	KindTransport Kind = iota + 1
	// KindStatus は上流が成功以外のステータスを返したことを表す。
	KindStatus
	// KindShape はレスポンスボディが期待する形式でないことを表す。
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindShape:
		return "shape"
	default:
		return "unknown"
	}
}

// UpstreamError はRajaOngkir呼び出しの失敗を表す。
// 呼び出し元には種別を問わず同じエラーとして見せ、種別はログでのみ使用する。
type UpstreamError struct {
	// Op は失敗した操作名（"city" または "cost"）。
	Op string
	// Kind は失敗原因の種別。
	Kind Kind
	// StatusCode は KindStatus の場合のステータスコード。
	StatusCode int
	// Err は元のエラー。
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("rajaongkir %s: %s error (status=%d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("rajaongkir %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
