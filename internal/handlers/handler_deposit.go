package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/gullak-app/gullak_backend/internal/core/ports/services"
	"github.com/gullak-app/gullak_backend/internal/dto"
	"github.com/gullak-app/gullak_backend/internal/middleware"
)

// depositHandler handles HTTP requests for deposit posting and queries.
type depositHandler struct {
	depositService portssvc.DepositSvcFacade
}

func newDepositHandler(depositService portssvc.DepositSvcFacade) *depositHandler {
	return &depositHandler{depositService: depositService}
}

func (h *depositHandler) createDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDeposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	deposit, err := h.depositService.CreateDeposit(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create deposit")
		return
	}

	logger.Info("Deposit created", slog.String("deposit_id", deposit.DepositID), slog.String("account_id", deposit.AccountID))
	c.JSON(http.StatusCreated, dto.ToDepositResponse(deposit))
}

func (h *depositHandler) bulkCreateDeposits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req dto.BulkCreateDepositsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for bulkCreateDeposits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.depositService.BulkCreateDeposits(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to process bulk deposits")
		return
	}

	logger.Info("Bulk deposits processed", slog.Int("total", resp.Total), slog.Int("success", resp.SuccessCount), slog.Int("failed", resp.FailedCount))
	c.JSON(http.StatusOK, resp)
}

func (h *depositHandler) updateDeposit(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	depositID := c.Param("depositID")

	var req dto.UpdateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	deposit, err := h.depositService.UpdateDeposit(c.Request.Context(), actor, depositID, req)
	if err != nil {
		respondError(c, err, "Failed to update deposit")
		return
	}
	c.JSON(http.StatusOK, dto.ToDepositResponse(deposit))
}

func (h *depositHandler) deleteDeposit(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	depositID := c.Param("depositID")

	acct, err := h.depositService.DeleteDeposit(c.Request.Context(), actor, depositID)
	if err != nil {
		respondError(c, err, "Failed to delete deposit")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(acct))
}

func (h *depositHandler) listDepositsByAccount(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	accountID := c.Param("accountID")

	var params dto.ListDepositsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.depositService.ListDepositsByAccount(c.Request.Context(), actor, accountID, params)
	if err != nil {
		respondError(c, err, "Failed to list deposits")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerDepositRoutes wires deposit endpoints under /api/v1.
func registerDepositRoutes(v1 *gin.RouterGroup, depositService portssvc.DepositSvcFacade) {
	h := newDepositHandler(depositService)

	deposits := v1.Group("/deposits")
	{
		deposits.POST("", h.createDeposit)
		deposits.POST("/bulk", h.bulkCreateDeposits)
		deposits.PUT("/:depositID", h.updateDeposit)
		deposits.DELETE("/:depositID", h.deleteDeposit)
	}
	v1.GET("/accounts/:accountID/deposits", h.listDepositsByAccount)
}
