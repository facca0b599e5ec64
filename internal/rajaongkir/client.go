package rajaongkir

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/nao1215/ongkir/pkg/httpclient"
)

// DefaultBaseURL はRajaOngkir Starter APIのベースURL。
const DefaultBaseURL = "https://api.rajaongkir.com/starter"

// HeaderAPIKey はAPIキーを送るリクエストヘッダー名。
const HeaderAPIKey = "key"

const (
	opCity = "city"
	opCost = "cost"
)

// Client はRajaOngkir APIのクライアント。
// APIキーは保持せず、呼び出しごとに受け取る。
type Client struct {
	// api は上流との通信に使用するHTTPクライアント。
	api *httpclient.Client
}

// NewClient は新しいRajaOngkirクライアントを生成する。
// timeout が0以下の場合は httpclient のデフォルトを使用する。
func NewClient(baseURL string, timeout time.Duration) *Client {
	var opts []httpclient.Option
	if timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(timeout))
	}
	return &Client{api: httpclient.New(baseURL, opts...)}
}

// FetchCities は都市ディレクトリ全件を取得する。
func (c *Client) FetchCities(ctx context.Context, apiKey string) ([]City, error) {
	var env cityEnvelope
	if err := c.api.GetJSON(ctx, "/city", &env, httpclient.WithHeader(HeaderAPIKey, apiKey)); err != nil {
		return nil, classify(opCity, errors.Wrap(err, "GET /city"))
	}
	if env.RajaOngkir == nil {
		return nil, shapeError(opCity, "rajaongkir envelope is missing")
	}
	return unwrap(opCity, env.RajaOngkir.Status, env.RajaOngkir.Results)
}

// ComputeCost は送料を計算する。
// リクエストはフォーム形式で origin, destination, weight, courier のみを送る。
func (c *Client) ComputeCost(ctx context.Context, apiKey string, req CostRequest) ([]CourierCost, error) {
	var env costEnvelope
	if err := c.api.PostForm(ctx, "/cost", costForm(req), &env, httpclient.WithHeader(HeaderAPIKey, apiKey)); err != nil {
		return nil, classify(opCost, errors.Wrap(err, "POST /cost"))
	}
	if env.RajaOngkir == nil {
		return nil, shapeError(opCost, "rajaongkir envelope is missing")
	}
	return unwrap(opCost, env.RajaOngkir.Status, env.RajaOngkir.Results)
}

// costForm は CostRequest を上流に送るフォーム値に変換する。
func costForm(req CostRequest) url.Values {
	form := url.Values{}
	form.Set("origin", req.Origin)
	form.Set("destination", req.Destination)
	form.Set("weight", strconv.FormatUint(uint64(req.Weight), 10))
	form.Set("courier", req.Courier)
	return form
}

// classify は httpclient のエラーを UpstreamError に変換する。
func classify(op string, err error) *UpstreamError {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return &UpstreamError{Op: op, Kind: KindStatus, StatusCode: statusErr.StatusCode, Err: err}
	}
	var decodeErr *httpclient.DecodeError
	if errors.As(err, &decodeErr) {
		return &UpstreamError{Op: op, Kind: KindShape, Err: err}
	}
	return &UpstreamError{Op: op, Kind: KindTransport, Err: err}
}

// unwrap はエンベロープの status と results を検証し、results を返す。
// results が無いレスポンスは形式エラーとする。空配列は正常な結果。
func unwrap[T any](op string, status *envelopeStatus, results []T) ([]T, error) {
	if err := checkStatus(op, status); err != nil {
		return nil, err
	}
	if results == nil {
		return nil, shapeError(op, "results are missing")
	}
	return results, nil
}

// checkStatus はエンベロープ内の status が成功以外ならエラーを返す。
// status が無いレスポンスは成功として扱う。
func checkStatus(op string, st *envelopeStatus) error {
	if st == nil || st.Code == http.StatusOK {
		return nil
	}
	return &UpstreamError{
		Op:         op,
		Kind:       KindStatus,
		StatusCode: st.Code,
		Err:        errors.Errorf("rajaongkir status %d: %s", st.Code, st.Description),
	}
}

func shapeError(op, msg string) *UpstreamError {
	return &UpstreamError{Op: op, Kind: KindShape, Err: errors.New(msg)}
}
