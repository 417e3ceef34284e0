package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier"
	"github.com/fekuna/omnipos-inventory-service/internal/supplier/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	uc     supplier.UseCase
	logger logger.ZapLogger
}

func NewSupplierHandler(uc supplier.UseCase, log logger.ZapLogger) *SupplierHandler {
	return &SupplierHandler{
		uc:     uc,
		logger: log,
	}
}

type createSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type updateSupplierRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type listSuppliersQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	s, err := h.uc.CreateSupplier(c.Request.Context(), &dto.CreateSupplierInput{
		StoreID: tenant.StoreID,
		UserID:  tenant.UserID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": s})
}

func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q listSuppliersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	suppliers, total, err := h.uc.ListSuppliers(c.Request.Context(), &dto.SupplierFilters{
		StoreID:  tenant.StoreID,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suppliers, "total": total})
}

func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	tenant := auth.GetTenant(c)

	s, err := h.uc.GetSupplier(c.Request.Context(), tenant.StoreID, c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s})
}

func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req updateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	s, err := h.uc.UpdateSupplier(c.Request.Context(), &dto.UpdateSupplierInput{
		StoreID:    tenant.StoreID,
		SupplierID: c.Param("id"),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Notes:      req.Notes,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s})
}

func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	tenant := auth.GetTenant(c)

	if err := h.uc.DeleteSupplier(c.Request.Context(), tenant.StoreID, c.Param("id")); err != nil {
		apperror.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
