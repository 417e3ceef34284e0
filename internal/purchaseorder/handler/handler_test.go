package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	partrepo "github.com/fekuna/omnipos-inventory-service/internal/part/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/handler"
	porepo "github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/usecase"
	supplierrepo "github.com/fekuna/omnipos-inventory-service/internal/supplier/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/testutil"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*sqlx.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	uc := usecase.NewPurchaseOrderUseCase(
		porepo.NewPGRepository(db),
		partrepo.NewPGRepository(db),
		supplierrepo.NewPGRepository(db),
		usecase.NewNumberGenerator(nil, logger.NewNop()),
		nil,
		logger.NewNop(),
	)
	h := handler.NewPurchaseOrderHandler(uc, logger.NewNop())

	r := gin.New()
	g := r.Group("/purchase-orders", auth.RequireStore())
	g.POST("", h.CreatePO)
	g.GET("", h.ListPOs)
	g.GET("/:id", h.GetPO)
	g.DELETE("/:id", h.DeletePO)
	g.POST("/:id/send", h.MarkSent)
	g.POST("/:id/receive", h.MarkReceived)
	return db, r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderStoreID, testutil.StoreID)
	req.Header.Set(auth.HeaderUserID, testutil.UserID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type poBody struct {
	Data struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		TotalCost string `json:"total_cost"`
		Items     []struct {
			PartID           string `json:"part_id"`
			QuantityReceived int    `json:"quantity_received"`
		} `json:"items"`
	} `json:"data"`
}

type errorBody struct {
	Error struct {
		Code string   `json:"code"`
		Refs []string `json:"refs"`
	} `json:"error"`
}

func TestPurchaseOrderHandler_Lifecycle(t *testing.T) {
	db, r := newServer(t)
	s := testutil.SeedSupplier(t, db, testutil.StoreID, "Acme")
	p := testutil.SeedPart(t, db, testutil.StoreID, "Hinge", testutil.PartSeed{InStock: 10})

	w := do(r, http.MethodPost, "/purchase-orders",
		fmt.Sprintf(`{"supplier_id":%q,"items":[{"part_id":%q,"quantity":5,"cost_per_unit":"1.5"}]}`, s.ID, p.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created poBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "draft", created.Data.Status)
	assert.Equal(t, "7.5", created.Data.TotalCost)

	w = do(r, http.MethodPost, "/purchase-orders/"+created.Data.ID+"/receive", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/purchase-orders/"+created.Data.ID+"/send", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/purchase-orders/"+created.Data.ID+"/receive", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var received poBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &received))
	assert.Equal(t, "received", received.Data.Status)
	require.Len(t, received.Data.Items, 1)
	assert.Equal(t, 5, received.Data.Items[0].QuantityReceived)
	assert.Equal(t, 15, testutil.InStock(t, db, p.ID))

	w = do(r, http.MethodDelete, "/purchase-orders/"+created.Data.ID, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/purchase-orders?status=received", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestPurchaseOrderHandler_Validation(t *testing.T) {
	db, r := newServer(t)
	s := testutil.SeedSupplier(t, db, testutil.StoreID, "Acme")

	w := do(r, http.MethodPost, "/purchase-orders", fmt.Sprintf(`{"supplier_id":%q,"items":[]}`, s.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/purchase-orders",
		fmt.Sprintf(`{"supplier_id":%q,"items":[{"part_id":"missing","quantity":1,"cost_per_unit":"1"}]}`, s.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/purchase-orders/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseOrderHandler_StaleReceipt(t *testing.T) {
	db, r := newServer(t)
	s := testutil.SeedSupplier(t, db, testutil.StoreID, "Acme")
	p := testutil.SeedPart(t, db, testutil.StoreID, "Hinge", testutil.PartSeed{})

	w := do(r, http.MethodPost, "/purchase-orders",
		fmt.Sprintf(`{"supplier_id":%q,"items":[{"part_id":%q,"quantity":2,"cost_per_unit":"1"}]}`, s.ID, p.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created poBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodPost, "/purchase-orders/"+created.Data.ID+"/send", "")
	require.Equal(t, http.StatusOK, w.Code)

	_, err := db.Exec(db.Rebind(`DELETE FROM parts WHERE id = ?`), p.ID)
	require.NoError(t, err)

	w = do(r, http.MethodPost, "/purchase-orders/"+created.Data.ID+"/receive", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "STALE_DEPENDENCY", body.Error.Code)
	assert.Equal(t, []string{p.ID}, body.Error.Refs)
}
