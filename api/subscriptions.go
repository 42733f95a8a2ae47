package api

import (
	"database/sql"
	"net/http"

	"github.com/BrickVest/BrickVest-Backend/api/apistrings"
	models "github.com/BrickVest/BrickVest-Backend/api/models"
	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	basemodels "github.com/BrickVest/BrickVest-Backend/models"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Subscription struct {
	server *Server
}

func (s Subscription) router(server *Server) {
	s.server = server

	serverGroupV1 := server.router.Group("/api/v1/subscriptions")
	serverGroupV1.POST("", AuthenticatedMiddleware(), s.createSubscription)
	serverGroupV1.GET("", AuthenticatedMiddleware(), s.getUserSubscriptions)
	serverGroupV1.GET(":id", AuthenticatedMiddleware(), s.getSubscription)
	serverGroupV1.POST(":id/cancel", AuthenticatedMiddleware(), s.cancelSubscription)
	serverGroupV1.GET(":id/disbursements", AuthenticatedMiddleware(), s.getSubscriptionDisbursements)
	serverGroupV1.POST(":id/kyc", AuthenticatedMiddleware(), AdminMiddleware(), s.setKycVerified)
}

type createSubscriptionRequest struct {
	PropertyID      string `json:"property_id" binding:"required"`
	WalletAddress   string `json:"wallet_address" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
	SharePercentage string `json:"share_percentage" binding:"required"`
}

func (s *Subscription) createSubscription(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	var request createSubscriptionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	propertyID, err := uuid.Parse(request.PropertyID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}
	amount, err := decimal.NewFromString(request.Amount)
	if err != nil || !amount.IsPositive() {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}
	share, err := decimal.NewFromString(request.SharePercentage)
	if err != nil || !share.IsPositive() {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	subscription, err := s.server.store.CreateSubscription(ctx, db.CreateSubscriptionParams{
		PropertyID:      propertyID,
		UserID:          activeUser.UserID,
		WalletAddress:   request.WalletAddress,
		Amount:          amount,
		SharePercentage: share,
		KycVerified:     activeUser.Verified,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Subscription Created Successfully", models.ToSubscriptionResponse(subscription)))
}

func (s *Subscription) getUserSubscriptions(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	subscriptions, err := s.server.store.ListSubscriptionsByUser(ctx, activeUser.UserID)
	if err != nil && err != sql.ErrNoRows {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Subscriptions Fetched Successfully", models.ToSubscriptionCollectionResponse(subscriptions)))
}

func (s *Subscription) getSubscription(ctx *gin.Context) {
	subscription, ok := s.ownedSubscription(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Subscription Fetched Successfully", models.ToSubscriptionResponse(subscription)))
}

func (s *Subscription) cancelSubscription(ctx *gin.Context) {
	subscription, ok := s.ownedSubscription(ctx)
	if !ok {
		return
	}

	cancelled, err := s.server.store.CancelSubscription(ctx, subscription.ID)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.SubscriptionInactive))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Subscription Cancelled Successfully", models.ToSubscriptionResponse(cancelled)))
}

func (s *Subscription) getSubscriptionDisbursements(ctx *gin.Context) {
	subscription, ok := s.ownedSubscription(ctx)
	if !ok {
		return
	}

	disbursements, err := s.server.store.ListDisbursementsBySubscription(ctx, subscription.ID)
	if err != nil && err != sql.ErrNoRows {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Disbursements Fetched Successfully", models.ToDisbursementCollectionResponse(disbursements)))
}

type setKycVerifiedRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

func (s *Subscription) setKycVerified(ctx *gin.Context) {
	subscriptionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	var request setKycVerifiedRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	subscription, err := s.server.store.SetSubscriptionKycVerified(ctx, db.SetSubscriptionKycVerifiedParams{
		ID:          subscriptionID,
		KycVerified: *request.Verified,
	})
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.SubscriptionNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Subscription KYC Updated", models.ToSubscriptionResponse(subscription)))
}

// ownedSubscription loads the :id subscription and enforces that it
// belongs to the caller. It writes the error response on failure.
func (s *Subscription) ownedSubscription(ctx *gin.Context) (db.Subscription, bool) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return db.Subscription{}, false
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return db.Subscription{}, false
	}

	subscription, err := s.server.store.GetSubscription(ctx, id)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.SubscriptionNotFound))
		return db.Subscription{}, false
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return db.Subscription{}, false
	}

	if subscription.UserID != activeUser.UserID && !activeUser.IsAdmin() {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.SubscriptionNotFound))
		return db.Subscription{}, false
	}

	return subscription, true
}
