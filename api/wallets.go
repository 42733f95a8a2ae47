package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/BrickVest/BrickVest-Backend/api/apistrings"
	models "github.com/BrickVest/BrickVest-Backend/api/models"
	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	basemodels "github.com/BrickVest/BrickVest-Backend/models"
	"github.com/BrickVest/BrickVest-Backend/services/ledger"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Wallet struct {
	server *Server
}

func (w Wallet) router(server *Server) {
	w.server = server

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.POST("create", AuthenticatedMiddleware(), w.createWallet)
	serverGroupV1.GET("", AuthenticatedMiddleware(), w.getUserWallet)
	serverGroupV1.GET("transactions", AuthenticatedMiddleware(), w.getTransactions)
	serverGroupV1.GET("transactions/:id", AuthenticatedMiddleware(), w.getTransaction)
	serverGroupV1.GET("chain-balance", AuthenticatedMiddleware(), w.getChainBalance)
	serverGroupV1.POST(":userId/verify", AuthenticatedMiddleware(), AdminMiddleware(), w.setVerification)
}

type createWalletRequest struct {
	ChainAddress string `json:"chain_address" binding:"required"`
}

func (w *Wallet) createWallet(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	var request createWalletRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	account, err := w.server.ledger.CreateAccount(ctx, activeUser.UserID, request.ChainAddress)
	if err == ledger.ErrAccountNotPossible {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.DuplicateWallet))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Created Successfully", models.ToWalletResponse(account)))
}

func (w *Wallet) getUserWallet(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	account, err := w.server.ledger.GetAccountByUserID(ctx, activeUser.UserID)
	if err == ledger.ErrAccountNotFound {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UserNoWallet))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("User Wallet Fetched Successfully", models.ToWalletResponse(account)))
}

func (w *Wallet) getTransactions(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	account, err := w.server.ledger.GetAccountByUserID(ctx, activeUser.UserID)
	if err == ledger.ErrAccountNotFound {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UserNoWallet))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	transactions, err := w.server.store.ListWalletTransactionsByAccount(ctx, db.ListWalletTransactionsByAccountParams{
		AccountID: account.ID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil && err != sql.ErrNoRows {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Transactions Fetched Successfully", models.ToTransactionCollectionResponse(transactions)))
}

func (w *Wallet) getTransaction(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	transactionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	transaction, err := w.server.store.GetWalletTransaction(ctx, transactionID)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.InvalidRequest))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	if !activeUser.IsAdmin() {
		account, err := w.server.ledger.GetAccountByUserID(ctx, activeUser.UserID)
		if err != nil || transaction.AccountID != account.ID {
			ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.InvalidRequest))
			return
		}
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Transaction Fetched Successfully", models.ToTransactionResponse(transaction)))
}

type setVerificationRequest struct {
	Status string `json:"status" binding:"required"`
}

// setVerification moves a holder's account through the KYC states.
func (w *Wallet) setVerification(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	var request setVerificationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	status := db.VerificationStatus(request.Status)
	switch status {
	case db.VerificationStatusUnverified, db.VerificationStatusPending, db.VerificationStatusVerified:
	default:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	account, err := w.server.ledger.GetAccountByUserID(ctx, userID)
	if err == ledger.ErrAccountNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.UserNoWallet))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	updated, err := w.server.store.UpdateWalletAccountVerification(ctx, db.UpdateWalletAccountVerificationParams{
		ID:                 account.ID,
		VerificationStatus: status,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Verification Updated", models.ToWalletResponse(updated)))
}

// getChainBalance reads the holder's token balance from the chain
// gateway, as opposed to the custodial ledger balance.
func (w *Wallet) getChainBalance(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	account, err := w.server.ledger.GetAccountByUserID(ctx, activeUser.UserID)
	if err == ledger.ErrAccountNotFound {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UserNoWallet))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	balance, err := w.server.oracle.TokenBalance(ctx, w.server.config.PropertyTokenAddr, account.ChainAddress)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Chain Balance Fetched Successfully", gin.H{
		"token_address": w.server.config.PropertyTokenAddr,
		"holder":        account.ChainAddress,
		"balance":       balance.String(),
	}))
}
