package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/bom"
	"github.com/fekuna/omnipos-inventory-service/internal/bom/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type BOMHandler struct {
	uc     bom.UseCase
	logger logger.ZapLogger
}

func NewBOMHandler(uc bom.UseCase, log logger.ZapLogger) *BOMHandler {
	return &BOMHandler{
		uc:     uc,
		logger: log,
	}
}

type addLineRequest struct {
	VariantID      string `json:"variant_id"`
	PartID         string `json:"part_id" binding:"required"`
	QuantityNeeded int    `json:"quantity_needed" binding:"required"`
}

type updateQuantityRequest struct {
	QuantityNeeded int `json:"quantity_needed" binding:"required"`
}

type batchBuildabilityRequest struct {
	Items []dto.ProductKey `json:"items" binding:"required,dive"`
}

type variantQuery struct {
	VariantID string `form:"variant_id"`
}

type fulfillabilityQuery struct {
	VariantID string `form:"variant_id"`
	Quantity  int    `form:"quantity" binding:"required"`
}

func (h *BOMHandler) ListLines(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q variantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	lines, err := h.uc.ListLines(c.Request.Context(), tenant.StoreID, c.Param("product_id"), q.VariantID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewLineViews(lines), "total": len(lines)})
}

func (h *BOMHandler) AddLine(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	line, err := h.uc.AddLine(c.Request.Context(), &dto.AddLineInput{
		StoreID:        tenant.StoreID,
		UserID:         tenant.UserID,
		ProductID:      c.Param("product_id"),
		VariantID:      req.VariantID,
		PartID:         req.PartID,
		QuantityNeeded: req.QuantityNeeded,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": line})
}

func (h *BOMHandler) UpdateQuantity(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	line, err := h.uc.UpdateQuantity(c.Request.Context(), &dto.UpdateQuantityInput{
		StoreID:        tenant.StoreID,
		LineID:         c.Param("id"),
		QuantityNeeded: req.QuantityNeeded,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": line})
}

func (h *BOMHandler) RemoveLine(c *gin.Context) {
	tenant := auth.GetTenant(c)

	if err := h.uc.RemoveLine(c.Request.Context(), tenant.StoreID, c.Param("id")); err != nil {
		apperror.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BOMHandler) GetBuildability(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q variantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	b, err := h.uc.GetBuildability(c.Request.Context(), tenant.StoreID, c.Param("product_id"), q.VariantID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": b})
}

func (h *BOMHandler) BatchBuildability(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req batchBuildabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	rows, err := h.uc.BatchBuildability(c.Request.Context(), tenant.StoreID, req.Items)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows, "total": len(rows)})
}

func (h *BOMHandler) CheckFulfillability(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q fulfillabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	f, err := h.uc.CheckFulfillability(c.Request.Context(), &dto.FulfillabilityInput{
		StoreID:   tenant.StoreID,
		ProductID: c.Param("product_id"),
		VariantID: q.VariantID,
		Quantity:  q.Quantity,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": f})
}
