package api

import (
	"net/http" // HTTP status codes

	"bookstore/internal/middleware" // Authenticated caller
	"bookstore/internal/service"    // Wallet service
	"bookstore/internal/validate"   // Request validation

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Monetary amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// SetBalanceRequest overwrites a wallet balance
type SetBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" validate:"required"`
}

// AdjustBalanceRequest credits (positive) or debits (negative) a wallet
type AdjustBalanceRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

// GetWalletHandler returns the caller's wallet
func GetWalletHandler(wallets *service.WalletService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet, err := wallets.GetByUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// SetBalanceHandler lets an admin overwrite a user's balance
func SetBalanceHandler(wallets *service.WalletService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := idParam(c, v, "userId")
		if err != nil {
			respondError(c, log, err)
			return
		}
		var req SetBalanceRequest
		if err := bindBody(c, v, &req); err != nil {
			respondError(c, log, err)
			return
		}
		wallet, err := wallets.SetBalance(c.Request.Context(), userID, *req.Balance)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// AdjustBalanceHandler lets an admin credit or debit a user's balance
func AdjustBalanceHandler(wallets *service.WalletService, v *validate.Validator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := idParam(c, v, "userId")
		if err != nil {
			respondError(c, log, err)
			return
		}
		var req AdjustBalanceRequest
		if err := bindBody(c, v, &req); err != nil {
			respondError(c, log, err)
			return
		}
		wallet, err := wallets.AdjustBalance(c.Request.Context(), userID, *req.Amount)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}
