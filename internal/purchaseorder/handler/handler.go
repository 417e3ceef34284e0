package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder"
	"github.com/fekuna/omnipos-inventory-service/internal/purchaseorder/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PurchaseOrderHandler struct {
	uc     purchaseorder.UseCase
	logger logger.ZapLogger
}

func NewPurchaseOrderHandler(uc purchaseorder.UseCase, log logger.ZapLogger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		uc:     uc,
		logger: log,
	}
}

type createPORequest struct {
	SupplierID string              `json:"supplier_id" binding:"required"`
	Notes      string              `json:"notes"`
	Items      []createPOItemInput `json:"items" binding:"required,min=1,dive"`
}

type createPOItemInput struct {
	PartID      string          `json:"part_id" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

type listPOsQuery struct {
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

func (h *PurchaseOrderHandler) CreatePO(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req createPORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	items := make([]dto.CreatePOItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = dto.CreatePOItemInput{
			PartID:      item.PartID,
			Quantity:    item.Quantity,
			CostPerUnit: item.CostPerUnit,
		}
	}

	po, err := h.uc.CreatePO(c.Request.Context(), &dto.CreatePOInput{
		StoreID:    tenant.StoreID,
		UserID:     tenant.UserID,
		SupplierID: req.SupplierID,
		Notes:      req.Notes,
		Items:      items,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": po})
}

func (h *PurchaseOrderHandler) ListPOs(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q listPOsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	orders, total, err := h.uc.ListPOs(c.Request.Context(), &dto.POFilters{
		StoreID:    tenant.StoreID,
		Status:     model.POStatus(q.Status),
		SupplierID: q.SupplierID,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders, "total": total})
}

func (h *PurchaseOrderHandler) GetPO(c *gin.Context) {
	tenant := auth.GetTenant(c)

	po, err := h.uc.GetPO(c.Request.Context(), tenant.StoreID, c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": po})
}

func (h *PurchaseOrderHandler) MarkSent(c *gin.Context) {
	tenant := auth.GetTenant(c)

	po, err := h.uc.MarkSent(c.Request.Context(), &dto.TransitionInput{
		StoreID:         tenant.StoreID,
		UserID:          tenant.UserID,
		PurchaseOrderID: c.Param("id"),
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": po})
}

func (h *PurchaseOrderHandler) MarkReceived(c *gin.Context) {
	tenant := auth.GetTenant(c)

	po, err := h.uc.MarkReceived(c.Request.Context(), &dto.TransitionInput{
		StoreID:         tenant.StoreID,
		UserID:          tenant.UserID,
		PurchaseOrderID: c.Param("id"),
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": po})
}

func (h *PurchaseOrderHandler) DeletePO(c *gin.Context) {
	tenant := auth.GetTenant(c)

	if err := h.uc.DeletePO(c.Request.Context(), tenant.StoreID, c.Param("id")); err != nil {
		apperror.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
