package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/bom/handler"
	bomrepo "github.com/fekuna/omnipos-inventory-service/internal/bom/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/bom/usecase"
	partrepo "github.com/fekuna/omnipos-inventory-service/internal/part/repository"
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
	uc := usecase.NewBOMUseCase(bomrepo.NewPGRepository(db), partrepo.NewPGRepository(db), logger.NewNop())
	h := handler.NewBOMHandler(uc, logger.NewNop())

	r := gin.New()
	g := r.Group("", auth.RequireStore())
	g.GET("/products/:product_id/bom", h.ListLines)
	g.POST("/products/:product_id/bom", h.AddLine)
	g.GET("/products/:product_id/buildability", h.GetBuildability)
	g.GET("/products/:product_id/fulfillability", h.CheckFulfillability)
	g.PATCH("/bom-lines/:id", h.UpdateQuantity)
	g.DELETE("/bom-lines/:id", h.RemoveLine)
	g.POST("/buildability", h.BatchBuildability)
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

func TestBOMHandler_AddListAndBuild(t *testing.T) {
	db, r := newServer(t)
	a := testutil.SeedPart(t, db, testutil.StoreID, "A", testutil.PartSeed{InStock: 20})
	b := testutil.SeedPart(t, db, testutil.StoreID, "B", testutil.PartSeed{InStock: 9})

	w := do(r, http.MethodPost, "/products/prod-1/bom", `{"part_id":"`+a.ID+`","quantity_needed":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(r, http.MethodPost, "/products/prod-1/bom", `{"part_id":"`+b.ID+`","quantity_needed":3}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/products/prod-1/bom", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []struct {
			PartID         string `json:"part_id"`
			QuantityNeeded int    `json:"quantity_needed"`
			MissingPart    bool   `json:"missing_part"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 2, list.Total)
	assert.Equal(t, a.ID, list.Data[0].PartID)
	assert.False(t, list.Data[0].MissingPart)

	w = do(r, http.MethodGet, "/products/prod-1/buildability", "")
	require.Equal(t, http.StatusOK, w.Code)
	var build struct {
		Data struct {
			Status     string `json:"status"`
			Buildable  int    `json:"buildable"`
			Bottleneck struct {
				ID string `json:"id"`
			} `json:"bottleneck"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &build))
	assert.Equal(t, "ok", build.Data.Status)
	assert.Equal(t, 3, build.Data.Buildable)
	assert.Equal(t, b.ID, build.Data.Bottleneck.ID)
}

func TestBOMHandler_StaleIs422(t *testing.T) {
	db, r := newServer(t)
	a := testutil.SeedPart(t, db, testutil.StoreID, "A", testutil.PartSeed{InStock: 20})
	w := do(r, http.MethodPost, "/products/prod-1/bom", `{"part_id":"`+a.ID+`","quantity_needed":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	_, err := db.Exec(db.Rebind(`DELETE FROM parts WHERE id = ?`), a.ID)
	require.NoError(t, err)

	w = do(r, http.MethodGet, "/products/prod-1/buildability", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error struct {
			Code string   `json:"code"`
			Refs []string `json:"refs"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "STALE_DEPENDENCY", body.Error.Code)
	assert.Equal(t, []string{a.ID}, body.Error.Refs)
}

func TestBOMHandler_BatchAndFulfillability(t *testing.T) {
	db, r := newServer(t)
	a := testutil.SeedPart(t, db, testutil.StoreID, "A", testutil.PartSeed{InStock: 10, Committed: 4})
	w := do(r, http.MethodPost, "/products/prod-1/bom", `{"part_id":"`+a.ID+`","quantity_needed":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/buildability", `{"items":[{"product_id":"prod-1"},{"product_id":"prod-2"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var batch struct {
		Data []struct {
			Status    string `json:"status"`
			Buildable int    `json:"buildable"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	require.Len(t, batch.Data, 2)
	assert.Equal(t, "ok", batch.Data[0].Status)
	assert.Equal(t, 5, batch.Data[0].Buildable)
	assert.Equal(t, "needs_bom", batch.Data[1].Status)

	w = do(r, http.MethodGet, "/products/prod-1/fulfillability?quantity=4", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ful struct {
		Data struct {
			Buildable   int  `json:"buildable"`
			Fulfillable bool `json:"fulfillable"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ful))
	assert.Equal(t, 3, ful.Data.Buildable)
	assert.False(t, ful.Data.Fulfillable)
}

func TestBOMHandler_UpdateAndRemove(t *testing.T) {
	db, r := newServer(t)
	a := testutil.SeedPart(t, db, testutil.StoreID, "A", testutil.PartSeed{InStock: 10})
	w := do(r, http.MethodPost, "/products/prod-1/bom", `{"part_id":"`+a.ID+`","quantity_needed":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodPatch, "/bom-lines/"+created.Data.ID, `{"quantity_needed":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/bom-lines/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/bom-lines/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
