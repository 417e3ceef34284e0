package router_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	bomH "github.com/fekuna/omnipos-inventory-service/internal/bom/handler"
	bomRepo "github.com/fekuna/omnipos-inventory-service/internal/bom/repository"
	bomUC "github.com/fekuna/omnipos-inventory-service/internal/bom/usecase"
	partH "github.com/fekuna/omnipos-inventory-service/internal/part/handler"
	partRepo "github.com/fekuna/omnipos-inventory-service/internal/part/repository"
	partUC "github.com/fekuna/omnipos-inventory-service/internal/part/usecase"
	poH "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/handler"
	poRepo "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/repository"
	poUC "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/router"
	scanH "github.com/fekuna/omnipos-inventory-service/internal/scan/handler"
	scanUC "github.com/fekuna/omnipos-inventory-service/internal/scan/usecase"
	supplierH "github.com/fekuna/omnipos-inventory-service/internal/supplier/handler"
	supplierRepo "github.com/fekuna/omnipos-inventory-service/internal/supplier/repository"
	supplierUC "github.com/fekuna/omnipos-inventory-service/internal/supplier/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/testutil"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	db := testutil.NewDB(t)

	parts := partRepo.NewPGRepository(db)
	suppliers := supplierRepo.NewPGRepository(db)
	pub := &testutil.RecordingPublisher{}

	partUseCase := partUC.NewPartUseCase(parts, pub, log)
	h := &router.Handlers{
		Part:     partH.NewPartHandler(partUseCase, log),
		BOM:      bomH.NewBOMHandler(bomUC.NewBOMUseCase(bomRepo.NewPGRepository(db), parts, log), log),
		Supplier: supplierH.NewSupplierHandler(supplierUC.NewSupplierUseCase(suppliers, log), log),
		PurchaseOrder: poH.NewPurchaseOrderHandler(poUC.NewPurchaseOrderUseCase(
			poRepo.NewPGRepository(db), parts, suppliers, poUC.NewNumberGenerator(nil, log), pub, log,
		), log),
		Scan: scanH.NewScanHandler(scanUC.NewScanUseCase(parts, partUseCase, scanUC.NewHistory(8), log), log),
	}
	return router.New(h, router.Options{AllowedOrigins: []string{"http://localhost:3000"}}, log)
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderStoreID, testutil.StoreID)
	req.Header.Set(auth.HeaderUserID, testutil.UserID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	require.NotEmpty(t, body.Data.ID, w.Body.String())
	return body.Data.ID
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "inventory_http_request_duration_seconds")
}

func TestRouter_RequiresStoreHeader(t *testing.T) {
	r := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/parts", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RestockRaisesBuildability(t *testing.T) {
	r := newEngine(t)

	wheel := dataID(t, call(r, http.MethodPost, "/api/v1/parts", `{"name":"Wheel","in_stock":20}`))
	bolt := dataID(t, call(r, http.MethodPost, "/api/v1/parts", `{"name":"Bolt","sku":"B-1","in_stock":9}`))

	w := call(r, http.MethodPost, "/api/v1/products/cart/bom", fmt.Sprintf(`{"part_id":%q,"quantity_needed":4}`, wheel))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = call(r, http.MethodPost, "/api/v1/products/cart/bom", fmt.Sprintf(`{"part_id":%q,"quantity_needed":3}`, bolt))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	buildable := func() (int, string) {
		w := call(r, http.MethodGet, "/api/v1/products/cart/buildability", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body struct {
			Data struct {
				Buildable  int `json:"buildable"`
				Bottleneck struct {
					ID string `json:"id"`
				} `json:"bottleneck"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Data.Buildable, body.Data.Bottleneck.ID
	}

	units, bottleneck := buildable()
	assert.Equal(t, 3, units)
	assert.Equal(t, bolt, bottleneck)

	supplier := dataID(t, call(r, http.MethodPost, "/api/v1/suppliers", `{"name":"Acme","email":"sales@acme.test"}`))
	po := dataID(t, call(r, http.MethodPost, "/api/v1/purchase-orders",
		fmt.Sprintf(`{"supplier_id":%q,"items":[{"part_id":%q,"quantity":12,"cost_per_unit":"0.25"}]}`, supplier, bolt)))

	require.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/v1/purchase-orders/"+po+"/send", "").Code)
	require.Equal(t, http.StatusOK, call(r, http.MethodPost, "/api/v1/purchase-orders/"+po+"/receive", "").Code)

	units, bottleneck = buildable()
	assert.Equal(t, 5, units)
	assert.Equal(t, wheel, bottleneck)

	w = call(r, http.MethodDelete, "/api/v1/suppliers/"+supplier, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodGet, "/api/v1/scan/resolve?q=b-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bolt, dataID(t, w))
}
