package transfers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leltar/pkg/metadata"
	"leltar/pkg/models"
	"leltar/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T, f fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())
	decimal.MarshalJSONWithoutQuotes = true

	router := gin.New()
	NewHandler(f.service, zap.NewNop()).RegisterRoutes(router)
	return router
}

func TestCreateAndUndoTransferOverHTTP(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(t, f)

	body := fmt.Sprintf(`{"from_wh":"központi raktár","to_wh":"Ital raktár","product_id":%d,"qty":10}`, f.product)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/months/2024-05/transfers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Transfer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, metadata.WarehouseCentral, created.FromWarehouse)
	assert.True(t, f.theoretical(t, metadata.WarehouseCentral).Equal(decimal.NewFromInt(90)))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/months/2024-05/transfers", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Transfer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/transfers/%d", created.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.theoretical(t, metadata.WarehouseCentral).Equal(decimal.NewFromInt(100)))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/transfers/%d", created.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTransferRejectsBadPayloads(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(t, f)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"unknown warehouse", "/months/2024-05/transfers", fmt.Sprintf(`{"from_wh":"Pince","to_wh":"Galopp","product_id":%d,"qty":1}`, f.product)},
		{"same warehouse", "/months/2024-05/transfers", fmt.Sprintf(`{"from_wh":"Galopp","to_wh":"Galopp","product_id":%d,"qty":1}`, f.product)},
		{"zero quantity", "/months/2024-05/transfers", fmt.Sprintf(`{"from_wh":"Galopp","to_wh":"Mázsa","product_id":%d,"qty":0}`, f.product)},
		{"missing product", "/months/2024-05/transfers", `{"from_wh":"Galopp","to_wh":"Mázsa","qty":1}`},
		{"bad month", "/months/2024-13/transfers", fmt.Sprintf(`{"from_wh":"Galopp","to_wh":"Mázsa","product_id":%d,"qty":1}`, f.product)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, f.db.Transfers())
}

func TestExportOverHTTP(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(t, f)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/months/2024-05/transfers/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transfers_2024-05.csv")
	assert.Equal(t, "id,ts,from_wh,to_wh,product_id,qty,user\n", w.Body.String())
}
