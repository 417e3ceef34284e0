package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/part/handler"
	"github.com/fekuna/omnipos-inventory-service/internal/part/repository"
	"github.com/fekuna/omnipos-inventory-service/internal/part/usecase"
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
	uc := usecase.NewPartUseCase(repository.NewPGRepository(db), nil, logger.NewNop())
	h := handler.NewPartHandler(uc, logger.NewNop())

	r := gin.New()
	g := r.Group("/parts", auth.RequireStore())
	g.POST("", h.CreatePart)
	g.GET("", h.ListParts)
	g.GET("/low-stock", h.ListLowStock)
	g.GET("/:id", h.GetPart)
	g.PATCH("/:id", h.UpdatePart)
	g.DELETE("/:id", h.DeletePart)
	g.POST("/:id/adjust", h.AdjustStock)
	g.GET("/:id/movements", h.ListMovements)
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

type partBody struct {
	Data struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		InStock        int    `json:"in_stock"`
		Available      int    `json:"available"`
		BelowThreshold bool   `json:"below_threshold"`
	} `json:"data"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestPartHandler_CreateAndGet(t *testing.T) {
	_, r := newServer(t)

	w := do(r, http.MethodPost, "/parts", `{"name":"Hinge","in_stock":4,"min_threshold":5}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created partBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Hinge", created.Data.Name)
	assert.Equal(t, 4, created.Data.Available)
	assert.True(t, created.Data.BelowThreshold)

	w = do(r, http.MethodGet, "/parts/"+created.Data.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got partBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.Data.ID, got.Data.ID)
}

func TestPartHandler_MissingStoreHeader(t *testing.T) {
	_, r := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/parts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
}

func TestPartHandler_CreateRejectsMissingName(t *testing.T) {
	_, r := newServer(t)

	w := do(r, http.MethodPost, "/parts", `{"in_stock":4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPartHandler_GetUnknownIs404(t *testing.T) {
	_, r := newServer(t)

	w := do(r, http.MethodGet, "/parts/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestPartHandler_AdjustStock(t *testing.T) {
	db, r := newServer(t)
	p := testutil.SeedPart(t, db, testutil.StoreID, "Bolt", testutil.PartSeed{InStock: 3})

	w := do(r, http.MethodPost, "/parts/"+p.ID+"/adjust", `{"delta":-10,"reason":"broken"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body partBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Data.InStock)

	w = do(r, http.MethodPost, "/parts/"+p.ID+"/adjust", `{"delta":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/parts/"+p.ID+"/movements", "")
	require.Equal(t, http.StatusOK, w.Code)
	var movements struct {
		Data  []map[string]interface{} `json:"data"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movements))
	assert.Equal(t, 1, movements.Total)
}

func TestPartHandler_ListLowStock(t *testing.T) {
	db, r := newServer(t)
	testutil.SeedPart(t, db, testutil.StoreID, "Fine", testutil.PartSeed{InStock: 50, MinThreshold: 5})
	testutil.SeedPart(t, db, testutil.StoreID, "Low", testutil.PartSeed{InStock: 1, MinThreshold: 5})

	w := do(r, http.MethodGet, "/parts/low-stock", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data  []map[string]interface{} `json:"data"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "Low", body.Data[0]["name"])
}

func TestPartHandler_UpdateAndDelete(t *testing.T) {
	db, r := newServer(t)
	p := testutil.SeedPart(t, db, testutil.StoreID, "Bolt", testutil.PartSeed{InStock: 10})

	w := do(r, http.MethodPatch, "/parts/"+p.ID, `{"committed":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	var body partBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Data.Available)

	w = do(r, http.MethodDelete, "/parts/"+p.ID+"?cascade=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/parts/"+p.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
