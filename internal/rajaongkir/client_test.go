package rajaongkir

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync"
	"testing"
	"time"
)

// testAPIKey はテスト用のAPIキー。
const testAPIKey = "test-api-key"

// cityBody はGET /city の正常レスポンス。
const cityBody = `{
  "rajaongkir": {
    "query": [],
    "status": {"code": 200, "description": "OK"},
    "results": [
      {"city_id":"1","city_name":"Jakarta","province_id":"1","province":"DKI","type":"city","postal_code":"10110"},
      {"city_id":"501","city_name":"Yogyakarta","province_id":"5","province":"DI Yogyakarta","type":"Kota","postal_code":"55111"}
    ]
  }
}`

// costBody はPOST /cost の正常レスポンス。
const costBody = `{
  "rajaongkir": {
    "status": {"code": 200, "description": "OK"},
    "results": [
      {"code":"jne","name":"Jalur Nugraha Ekakurir (JNE)","costs":[
        {"service":"OKE","description":"Ongkos Kirim Ekonomis","cost":[{"value":38000,"etd":"4-5","note":""}]},
        {"service":"REG","description":"Layanan Reguler","cost":[{"value":44000,"etd":"2-3","note":""}]}
      ]}
    ]
  }
}`

// upstreamRequest はテスト用上流サーバーが受け取ったリクエスト。
type upstreamRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// upstreamRecorder は上流サーバーが最後に受け取ったリクエストを保持する。
type upstreamRecorder struct {
	mu  sync.Mutex
	req upstreamRequest
}

// last は最後に受け取ったリクエストを返す。
func (r *upstreamRecorder) last() upstreamRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.req
}

// newUpstream は固定のレスポンスを返すテスト用上流サーバーを生成する。
func newUpstream(t *testing.T, status int, body string) (*Client, *upstreamRecorder) {
	t.Helper()

	rec := &upstreamRecorder{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.req = upstreamRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(b),
		}
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	return NewClient(ts.URL+"/starter", time.Second), rec
}

// assertKind は err が指定種別の UpstreamError であることを検証する。
func assertKind(t *testing.T, err error, want Kind) *UpstreamError {
	t.Helper()

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("UpstreamErrorが返るべきだが %T (%v) が返った", err, err)
	}
	if upErr.Kind != want {
		t.Errorf("Kind = %s, want %s (err=%v)", upErr.Kind, want, err)
	}
	return upErr
}

// TestFetchCities は都市一覧取得を検証する。
func TestFetchCities(t *testing.T) {
	t.Parallel()

	t.Run("エンベロープの内側のresultsをそのまま返すこと", func(t *testing.T) {
		t.Parallel()

		client, rec := newUpstream(t, http.StatusOK, cityBody)

		cities, err := client.FetchCities(context.Background(), testAPIKey)
		if err != nil {
			t.Fatalf("FetchCities()でエラーが発生: %v", err)
		}
		received := rec.last()

		want := []City{
			{CityID: "1", CityName: "Jakarta", ProvinceID: "1", Province: "DKI", CityType: "city", PostalCode: "10110"},
			{CityID: "501", CityName: "Yogyakarta", ProvinceID: "5", Province: "DI Yogyakarta", CityType: "Kota", PostalCode: "55111"},
		}
		if !reflect.DeepEqual(cities, want) {
			t.Errorf("cities = %+v, want %+v", cities, want)
		}
		if received.Method != http.MethodGet {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodGet)
		}
		if received.Path != "/starter/city" {
			t.Errorf("Path = %q, want %q", received.Path, "/starter/city")
		}
		if got := received.Header.Get(HeaderAPIKey); got != testAPIKey {
			t.Errorf("key header = %q, want %q", got, testAPIKey)
		}
	})

	t.Run("JSONに再エンコードしても値が失われないこと", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, cityBody)
		cities, err := client.FetchCities(context.Background(), testAPIKey)
		if err != nil {
			t.Fatalf("FetchCities()でエラーが発生: %v", err)
		}

		encoded, err := json.Marshal(cities)
		if err != nil {
			t.Fatalf("エンコードに失敗: %v", err)
		}
		var decoded []City
		if err := json.Unmarshal(encoded, &decoded); err != nil {
			t.Fatalf("デコードに失敗: %v", err)
		}
		if !reflect.DeepEqual(decoded, cities) {
			t.Errorf("decoded = %+v, want %+v", decoded, cities)
		}
	})

	t.Run("結果が空配列の場合は空スライスを返すこと", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, `{"rajaongkir":{"results":[]}}`)
		cities, err := client.FetchCities(context.Background(), testAPIKey)
		if err != nil {
			t.Fatalf("FetchCities()でエラーが発生: %v", err)
		}
		if cities == nil || len(cities) != 0 {
			t.Errorf("cities = %#v, want empty non-nil slice", cities)
		}
	})

	t.Run("2xx以外のステータスはボディに関わらずKindStatusになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusBadRequest, cityBody)
		_, err := client.FetchCities(context.Background(), testAPIKey)

		upErr := assertKind(t, err, KindStatus)
		if upErr.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want %d", upErr.StatusCode, http.StatusBadRequest)
		}
		if upErr.Op != "city" {
			t.Errorf("Op = %q, want %q", upErr.Op, "city")
		}
	})

	t.Run("エンベロープ内のstatusが200以外ならKindStatusになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, `{"rajaongkir":{"status":{"code":400,"description":"Invalid key."},"results":[]}}`)
		_, err := client.FetchCities(context.Background(), testAPIKey)

		upErr := assertKind(t, err, KindStatus)
		if upErr.StatusCode != http.StatusBadRequest {
			t.Errorf("StatusCode = %d, want %d", upErr.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("エンベロープが無い場合はKindShapeになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, `{"results":[]}`)
		_, err := client.FetchCities(context.Background(), testAPIKey)
		assertKind(t, err, KindShape)
	})

	t.Run("resultsが無い場合はKindShapeになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, `{"rajaongkir":{"status":{"code":200,"description":"OK"}}}`)
		_, err := client.FetchCities(context.Background(), testAPIKey)
		assertKind(t, err, KindShape)
	})

	t.Run("フィールドの型が異なる場合はKindShapeになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, `{"rajaongkir":{"results":[{"city_id":1}]}}`)
		_, err := client.FetchCities(context.Background(), testAPIKey)
		assertKind(t, err, KindShape)
	})

	t.Run("上流に接続できない場合はKindTransportになること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.NotFoundHandler())
		addr := ts.URL
		ts.Close()

		client := NewClient(addr, time.Second)
		_, err := client.FetchCities(context.Background(), testAPIKey)
		assertKind(t, err, KindTransport)
	})
}

// TestComputeCost は送料計算を検証する。
func TestComputeCost(t *testing.T) {
	t.Parallel()

	t.Run("4つのフィールドだけをフォームで送りresultsを返すこと", func(t *testing.T) {
		t.Parallel()

		client, rec := newUpstream(t, http.StatusOK, costBody)

		costs, err := client.ComputeCost(context.Background(), testAPIKey, CostRequest{
			Origin:      "501",
			Destination: "114",
			Weight:      1700,
			Courier:     "jne",
		})
		if err != nil {
			t.Fatalf("ComputeCost()でエラーが発生: %v", err)
		}

		received := rec.last()
		if received.Method != http.MethodPost {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodPost)
		}
		if received.Path != "/starter/cost" {
			t.Errorf("Path = %q, want %q", received.Path, "/starter/cost")
		}
		if got := received.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want %q", got, "application/x-www-form-urlencoded")
		}
		if got := received.Header.Get(HeaderAPIKey); got != testAPIKey {
			t.Errorf("key header = %q, want %q", got, testAPIKey)
		}

		form, err := url.ParseQuery(received.Body)
		if err != nil {
			t.Fatalf("フォームのパースに失敗: %v", err)
		}
		wantForm := url.Values{
			"origin":      {"501"},
			"destination": {"114"},
			"weight":      {"1700"},
			"courier":     {"jne"},
		}
		if !reflect.DeepEqual(form, wantForm) {
			t.Errorf("form = %v, want %v", form, wantForm)
		}

		want := []CourierCost{{
			Code: "jne",
			Name: "Jalur Nugraha Ekakurir (JNE)",
			Costs: []CostDetail{
				{Service: "OKE", Description: "Ongkos Kirim Ekonomis", Cost: []CostValue{{Value: 38000, ETD: "4-5", Note: ""}}},
				{Service: "REG", Description: "Layanan Reguler", Cost: []CostValue{{Value: 44000, ETD: "2-3", Note: ""}}},
			},
		}}
		if !reflect.DeepEqual(costs, want) {
			t.Errorf("costs = %+v, want %+v", costs, want)
		}
	})

	t.Run("2xx以外のステータスはKindStatusになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusInternalServerError, costBody)
		_, err := client.ComputeCost(context.Background(), testAPIKey, CostRequest{Origin: "1", Destination: "2", Weight: 1, Courier: "pos"})

		upErr := assertKind(t, err, KindStatus)
		if upErr.Op != "cost" {
			t.Errorf("Op = %q, want %q", upErr.Op, "cost")
		}
	})

	t.Run("負の金額はKindShapeになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, `{"rajaongkir":{"results":[{"code":"jne","name":"JNE","costs":[{"service":"OKE","description":"","cost":[{"value":-1,"etd":"","note":""}]}]}]}}`)
		_, err := client.ComputeCost(context.Background(), testAPIKey, CostRequest{Origin: "1", Destination: "2", Weight: 1, Courier: "jne"})
		assertKind(t, err, KindShape)
	})

	t.Run("キャンセルされたコンテキストではKindTransportになること", func(t *testing.T) {
		t.Parallel()

		client, _ := newUpstream(t, http.StatusOK, costBody)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.ComputeCost(ctx, testAPIKey, CostRequest{Origin: "1", Destination: "2", Weight: 1, Courier: "jne"})
		assertKind(t, err, KindTransport)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("context.Canceledを辿れない: %v", err)
		}
	})
}

// TestCostForm は送料計算フォームの組み立てを検証する。
func TestCostForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		weight uint32
		want   string
	}{
		{name: "0グラム", weight: 0, want: "0"},
		{name: "1キログラム", weight: 1000, want: "1000"},
		{name: "uint32の最大値", weight: 4294967295, want: "4294967295"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			form := costForm(CostRequest{Origin: "a", Destination: "b", Weight: tt.weight, Courier: "tiki"})
			if got := form.Get("weight"); got != tt.want {
				t.Errorf("weight = %q, want %q", got, tt.want)
			}
			if len(form) != 4 {
				t.Errorf("フォームのキー数 = %d, want 4 (%v)", len(form), form)
			}
		})
	}
}

// TestUpstreamError はエラーメッセージと種別名を検証する。
func TestUpstreamError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &UpstreamError{Op: "city", Kind: KindStatus, StatusCode: 503, Err: cause}
	if got := err.Error(); got != "rajaongkir city: status error (status=503): boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Isで原因を辿れない")
	}
	if got := Kind(0).String(); got != "unknown" {
		t.Errorf("Kind(0).String() = %q, want %q", got, "unknown")
	}
}

// TestUnwrap はエンベロープ検証が都市と送料で同じ規則になることを検証する。
func TestUnwrap(t *testing.T) {
	t.Parallel()

	t.Run("statusが無くresultsがあれば成功", func(t *testing.T) {
		t.Parallel()

		got, err := unwrap(opCity, nil, []City{{CityID: "1"}})
		if err != nil {
			t.Fatalf("unwrap()でエラーが発生: %v", err)
		}
		if len(got) != 1 || got[0].CityID != "1" {
			t.Errorf("results = %+v", got)
		}
	})

	t.Run("空のresultsは成功", func(t *testing.T) {
		t.Parallel()

		got, err := unwrap(opCost, &envelopeStatus{Code: 200, Description: "OK"}, []CourierCost{})
		if err != nil {
			t.Fatalf("unwrap()でエラーが発生: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("results = %#v, want empty slice", got)
		}
	})

	t.Run("resultsが無い場合は形式エラー", func(t *testing.T) {
		t.Parallel()

		_, err := unwrap[City](opCity, nil, nil)
		upErr := assertKind(t, err, KindShape)
		if upErr.Op != opCity {
			t.Errorf("Op = %q, want %q", upErr.Op, opCity)
		}

		_, err = unwrap[CourierCost](opCost, nil, nil)
		upErr = assertKind(t, err, KindShape)
		if upErr.Op != opCost {
			t.Errorf("Op = %q, want %q", upErr.Op, opCost)
		}
	})

	t.Run("status異常はresultsの有無より優先される", func(t *testing.T) {
		t.Parallel()

		_, err := unwrap[CourierCost](opCost, &envelopeStatus{Code: 400, Description: "Bad request"}, nil)
		upErr := assertKind(t, err, KindStatus)
		if upErr.StatusCode != 400 {
			t.Errorf("StatusCode = %d, want 400", upErr.StatusCode)
		}
	})
}
