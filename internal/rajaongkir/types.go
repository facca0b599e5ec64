package rajaongkir

// City はRajaOngkirの都市ディレクトリの1件。
// 全フィールドは上流の値をそのまま保持する。
type City struct {
	// CityID は都市ID。送料計算の origin / destination に使う。
	CityID string `json:"city_id"`
	// CityName は都市名。
	CityName string `json:"city_name"`
	// ProvinceID は州ID。
	ProvinceID string `json:"province_id"`
	// Province は州名。
	Province string `json:"province"`
	// CityType は "Kota" や "Kabupaten" などの区分。JSON上のキーは "type"。
	CityType string `json:"type"`
	// PostalCode は郵便番号。
	PostalCode string `json:"postal_code"`
}

// CostRequest は送料計算の入力。
type CostRequest struct {
	// Origin は出荷元の都市ID。
	Origin string `json:"origin"`
	// Destination は配送先の都市ID。
	Destination string `json:"destination"`
	// Weight はグラム単位の重量。
	Weight uint32 `json:"weight"`
	// Courier は配送業者コード（例: "jne"）。
	Courier string `json:"courier"`
}

// CourierCost は配送業者ごとの送料一覧。
type CourierCost struct {
	// Code は配送業者コード（例: "jne"）。
	Code string `json:"code"`
	// Name は配送業者名。
	Name string `json:"name"`
	// Costs はサービスごとの送料。
	Costs []CostDetail `json:"costs"`
}

// CostDetail は配送サービス1種類分の送料。
type CostDetail struct {
	// Service はサービスコード（例: "REG"）。
	Service string `json:"service"`
	// Description はサービスの説明。
	Description string `json:"description"`
	// Cost は金額と到着予定日数の一覧。
	Cost []CostValue `json:"cost"`
}

// CostValue は送料の金額と到着予定日数。
type CostValue struct {
	// Value はルピア単位の送料。
	Value uint32 `json:"value"`
	// ETD は到着予定日数（例: "1-2"）。
	ETD string `json:"etd"`
	// Note は上流の備考。
	Note string `json:"note"`
}

// envelopeStatus は上流レスポンスに含まれる処理結果。
type envelopeStatus struct {
	// Code は上流の処理結果コード。200以外は失敗。
	Code int `json:"code"`
	// Description は処理結果の説明。
	Description string `json:"description"`
}

// cityEnvelope は GET /city のレスポンス全体。
type cityEnvelope struct {
	RajaOngkir *struct {
		Status  *envelopeStatus `json:"status"`
		Results []City          `json:"results"`
	} `json:"rajaongkir"`
}

// costEnvelope は POST /cost のレスポンス全体。
type costEnvelope struct {
	RajaOngkir *struct {
		Status  *envelopeStatus `json:"status"`
		Results []CourierCost   `json:"results"`
	} `json:"rajaongkir"`
}
