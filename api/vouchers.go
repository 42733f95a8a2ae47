package api

import (
	"encoding/json"
	"net/http"

	"github.com/BrickVest/BrickVest-Backend/api/apistrings"
	basemodels "github.com/BrickVest/BrickVest-Backend/models"
	"github.com/BrickVest/BrickVest-Backend/services/ledger"
	"github.com/BrickVest/BrickVest-Backend/services/voucher"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Voucher struct {
	server *Server
}

func (v Voucher) router(server *Server) {
	v.server = server

	serverGroupV1 := server.router.Group("/api/v1/vouchers")
	serverGroupV1.POST("generate", AuthenticatedMiddleware(), v.generateVoucher)
	serverGroupV1.POST("redeem", AuthenticatedMiddleware(), v.redeemVoucher)
	serverGroupV1.GET("authority", v.getAuthority)
	serverGroupV1.GET("nonce/:nonce", AuthenticatedMiddleware(), AdminMiddleware(), v.getNonceStatus)
}

type generateVoucherRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

func (v *Voucher) generateVoucher(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	var request generateVoucherRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	account, err := v.server.ledger.GetAccountByUserID(ctx, activeUser.UserID)
	if err == ledger.ErrAccountNotFound {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UserNoWallet))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	issued, err := v.server.vouchers.Generate(ctx, account, request.Recipient, amount, v.server.config.PropertyTokenAddr)
	switch {
	case err == voucher.ErrKycRequired:
		ctx.JSON(http.StatusForbidden, basemodels.NewError(apistrings.VoucherKycRequired))
		return
	case err == voucher.ErrInvalidAmount:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Voucher Issued Successfully", issued))
}

type redeemVoucherRequest struct {
	Payload   json.RawMessage `json:"payload" binding:"required"`
	Signature string          `json:"signature" binding:"required"`
}

func (v *Voucher) redeemVoucher(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	var request redeemVoucherRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	account, err := v.server.ledger.GetAccountByUserID(ctx, activeUser.UserID)
	if err == ledger.ErrAccountNotFound {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.UserNoWallet))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	txHash, err := v.server.vouchers.Execute(ctx, account, voucher.Voucher{
		Payload:   request.Payload,
		Signature: request.Signature,
	})
	switch {
	case err == voucher.ErrMalformed:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.VoucherMalformed))
		return
	case err == voucher.ErrExpired:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.VoucherExpired))
		return
	case err == voucher.ErrInvalidSignature:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.VoucherBadSig))
		return
	case err == voucher.ErrReplayedVoucher:
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.VoucherReplayed))
		return
	case err != nil:
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Voucher Redeemed Successfully", gin.H{
		"tx_hash": txHash,
	}))
}

// getNonceStatus reports whether a voucher nonce has already been
// consumed, for support lookups on disputed redemptions.
func (v *Voucher) getNonceStatus(ctx *gin.Context) {
	consumed, err := v.server.store.NonceConsumed(ctx, ctx.Param("nonce"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Nonce Status", gin.H{
		"nonce":    ctx.Param("nonce"),
		"consumed": consumed,
	}))
}

// getAuthority exposes the address vouchers are signed with, so the
// on-chain verifier contract can be configured against it.
func (v *Voucher) getAuthority(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Voucher Authority", gin.H{
		"address": v.server.vouchers.AuthorityAddress(),
	}))
}
