package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/goccy/go-json"

	"github.com/nao1215/ongkir/internal/rajaongkir"
	"github.com/nao1215/ongkir/pkg/logger"
)

const (
	// errNotFound は上流の失敗をまとめて返すときのメッセージ。原因は含めない。
	errNotFound = "not found"
	// errInvalidBody はリクエストボディを解釈できないときのメッセージ。
	errInvalidBody = "invalid request body"
)

// costRequestBody は POST /cost のリクエストボディ。
// 4フィールドすべてを必須とするため、欠落を検出できるようポインタで受ける。
type costRequestBody struct {
	Origin      *string `json:"origin" binding:"required"`
	Destination *string `json:"destination" binding:"required"`
	Weight      *uint32 `json:"weight" binding:"required"`
	Courier     *string `json:"courier" binding:"required"`
}

// toCostRequest は検証済みのボディを上流へのリクエストに変換する。
func (b costRequestBody) toCostRequest() rajaongkir.CostRequest {
	return rajaongkir.CostRequest{
		Origin:      *b.Origin,
		Destination: *b.Destination,
		Weight:      *b.Weight,
		Courier:     *b.Courier,
	}
}

// handleGetCities は都市一覧を返すハンドラを返す。
func (s *Server) handleGetCities() gin.HandlerFunc {
	return func(c *gin.Context) {
		cities, err := s.rates.FetchCities(c.Request.Context(), s.apiKey)
		if err != nil {
			s.respondUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, cities)
	}
}

// bindCostRequest はボディがちょうど1つのJSON値であることを確認してからバインドする。
// 末尾に余分な文字が続くボディは不正として扱う。
func bindCostRequest(c *gin.Context) (costRequestBody, error) {
	var body costRequestBody
	raw, err := c.GetRawData()
	if err != nil {
		return body, err
	}
	if !json.Valid(raw) {
		return body, errors.New("request body is not a single JSON value")
	}
	if err := binding.JSON.BindBody(raw, &body); err != nil {
		return body, err
	}
	return body, nil
}

// handleCalculateCost は送料計算を行うハンドラを返す。
// ボディが不正な場合は上流を呼ばずに400を返す。
func (s *Server) handleCalculateCost() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := bindCostRequest(c)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug().Err(err).Msg("cost request rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
			return
		}

		costs, err := s.rates.ComputeCost(c.Request.Context(), s.apiKey, body.toCostRequest())
		if err != nil {
			s.respondUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, costs)
	}
}

// respondUpstreamError は上流の失敗をログに残し、原因を問わず404を返す。
func (s *Server) respondUpstreamError(c *gin.Context, err error) {
	event := logger.FromContext(c.Request.Context()).Warn().Err(err)
	var upErr *rajaongkir.UpstreamError
	if errors.As(err, &upErr) {
		event = event.Str("op", upErr.Op).Str("kind", upErr.Kind.String())
		if upErr.StatusCode != 0 {
			event = event.Int("upstream_status", upErr.StatusCode)
		}
	}
	event.Msg("upstream request failed")

	c.JSON(http.StatusNotFound, gin.H{"error": errNotFound})
}
