package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	partdto "github.com/fekuna/omnipos-inventory-service/internal/part/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/scan"
	"github.com/fekuna/omnipos-inventory-service/internal/scan/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	uc     scan.UseCase
	logger logger.ZapLogger
}

func NewScanHandler(uc scan.UseCase, log logger.ZapLogger) *ScanHandler {
	return &ScanHandler{
		uc:     uc,
		logger: log,
	}
}

type searchQuery struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}

type adjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *ScanHandler) Resolve(c *gin.Context) {
	tenant := auth.GetTenant(c)

	p, err := h.uc.Resolve(c.Request.Context(), &dto.ResolveInput{
		StoreID: tenant.StoreID,
		UserID:  tenant.UserID,
		Query:   c.Query("q"),
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": partdto.NewPartView(p)})
}

func (h *ScanHandler) Search(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	parts, err := h.uc.Search(c.Request.Context(), tenant.StoreID, q.Q, q.Limit)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": partdto.NewPartViews(parts), "total": len(parts)})
}

func (h *ScanHandler) Adjust(c *gin.Context) {
	tenant := auth.GetTenant(c)

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.RespondBindError(c, err)
		return
	}

	p, err := h.uc.AdjustBy(c.Request.Context(), &dto.AdjustInput{
		StoreID: tenant.StoreID,
		UserID:  tenant.UserID,
		PartID:  c.Param("id"),
		Delta:   req.Delta,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": partdto.NewPartView(p)})
}

func (h *ScanHandler) History(c *gin.Context) {
	tenant := auth.GetTenant(c)

	parts, err := h.uc.History(c.Request.Context(), tenant.StoreID, tenant.UserID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": partdto.NewPartViews(parts), "total": len(parts)})
}
