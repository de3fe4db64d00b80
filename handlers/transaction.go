package handlers

import (
	"errors"
	"net/http"

	txRepo "hireloop/database/repository/transaction"
	"hireloop/middleware"
	"hireloop/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes read access to the acceptance ledger.
type TransactionHandler struct {
	Repo txRepo.TransactionRepository
}

func NewTransactionHandler(repo txRepo.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{Repo: repo}
}

// GetByRequest handles GET /api/transactions/request/:id.
func (h *TransactionHandler) GetByRequest(c *gin.Context) {
	tx, err := h.Repo.GetByRequestID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, txRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch transaction", err.Error())
		return
	}
	caller := middleware.CallerID(c)
	if tx.BuyerID != caller && tx.SellerID != caller && middleware.CallerRole(c) != utils.RoleAdmin {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "transaction belongs to another user")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// ListMine handles GET /api/transactions.
func (h *TransactionHandler) ListMine(c *gin.Context) {
	txs, err := h.Repo.ListByUser(c.Request.Context(), middleware.CallerID(c), 100)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}
