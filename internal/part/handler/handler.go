package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/part"
	"github.com/fekuna/omnipos-inventory-service/internal/part/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type PartHandler struct {
	uc     part.UseCase
	logger logger.ZapLogger
}

func NewPartHandler(uc part.UseCase, log logger.ZapLogger) *PartHandler {
	return &PartHandler{
		uc:     uc,
		logger: log,
	}
}

type createPartRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	Unit         string `json:"unit"`
	InStock      int    `json:"in_stock" binding:"gte=0"`
	MinThreshold int    `json:"min_threshold" binding:"gte=0"`
}

type updatePartRequest struct {
	SKU          *string `json:"sku"`
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Unit         *string `json:"unit"`
	Committed    *int    `json:"committed"`
	MinThreshold *int    `json:"min_threshold"`
}

type adjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

type listPartsQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type listMovementsQuery struct {
	MovementType string `form:"movement_type"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

func (h *PartHandler) CreatePart(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req createPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	p, err := h.uc.CreatePart(c.Request.Context(), &dto.CreatePartInput{
		StoreID:      tenant.StoreID,
		UserID:       tenant.UserID,
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		InStock:      req.InStock,
		MinThreshold: req.MinThreshold,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.NewPartView(p)})
}

func (h *PartHandler) ListParts(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q listPartsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	parts, total, err := h.uc.ListParts(c.Request.Context(), &dto.PartFilters{
		StoreID:  tenant.StoreID,
		Search:   q.Search,
		Category: q.Category,
		LowStock: q.LowStock,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewPartViews(parts), "total": total})
}

func (h *PartHandler) ListLowStock(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q listPartsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	parts, total, err := h.uc.ListLowStock(c.Request.Context(), tenant.StoreID, q.Page, q.PageSize)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewPartViews(parts), "total": total})
}

func (h *PartHandler) GetPart(c *gin.Context) {
	tenant := auth.GetTenant(c)

	p, err := h.uc.GetPart(c.Request.Context(), tenant.StoreID, c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewPartView(p)})
}

func (h *PartHandler) UpdatePart(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req updatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	p, err := h.uc.UpdatePart(c.Request.Context(), &dto.UpdatePartInput{
		StoreID:      tenant.StoreID,
		PartID:       c.Param("id"),
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		Committed:    req.Committed,
		MinThreshold: req.MinThreshold,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewPartView(p)})
}

func (h *PartHandler) DeletePart(c *gin.Context) {
	tenant := auth.GetTenant(c)

	err := h.uc.DeletePart(c.Request.Context(), &dto.DeletePartInput{
		StoreID:    tenant.StoreID,
		PartID:     c.Param("id"),
		CascadeBOM: c.Query("cascade") == "true",
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PartHandler) AdjustStock(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	p, err := h.uc.AdjustStock(c.Request.Context(), &dto.AdjustStockInput{
		StoreID:       tenant.StoreID,
		PartID:        c.Param("id"),
		Delta:         req.Delta,
		Reason:        req.Reason,
		ReferenceType: "manual",
		UserID:        tenant.UserID,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewPartView(p)})
}

func (h *PartHandler) ListMovements(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q listMovementsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	movements, total, err := h.uc.ListMovements(c.Request.Context(), &dto.MovementFilters{
		StoreID:      tenant.StoreID,
		PartID:       c.Param("id"),
		MovementType: q.MovementType,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": movements, "total": total})
}
