package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/BrickVest/BrickVest-Backend/api/apistrings"
	models "github.com/BrickVest/BrickVest-Backend/api/models"
	basemodels "github.com/BrickVest/BrickVest-Backend/models"
	"github.com/BrickVest/BrickVest-Backend/services/allocation"
	"github.com/BrickVest/BrickVest-Backend/services/disbursement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Disbursement struct {
	server *Server
}

func (d Disbursement) router(server *Server) {
	d.server = server

	serverGroupV1 := server.router.Group("/api/v1/disbursements")
	serverGroupV1.POST("distribute", AuthenticatedMiddleware(), AdminMiddleware(), d.distribute)
	serverGroupV1.GET(":id", AuthenticatedMiddleware(), d.getDisbursement)
	serverGroupV1.POST(":id/process", AuthenticatedMiddleware(), AdminMiddleware(), d.processDisbursement)
	serverGroupV1.POST(":id/retry", AuthenticatedMiddleware(), AdminMiddleware(), d.retryDisbursement)
	serverGroupV1.GET("distribution/:id", AuthenticatedMiddleware(), AdminMiddleware(), d.getDistribution)
	serverGroupV1.GET("stats/:propertyId", AuthenticatedMiddleware(), AdminMiddleware(), d.getPropertyStats)
	serverGroupV1.GET("errors", AuthenticatedMiddleware(), AdminMiddleware(), d.getUnresolvedErrors)
	serverGroupV1.POST("errors/:id/resolve", AuthenticatedMiddleware(), AdminMiddleware(), d.resolveError)
}

type distributeRequest struct {
	PropertyID     string `json:"property_id" binding:"required"`
	DistributionID string `json:"distribution_id" binding:"required"`
	Total          string `json:"total" binding:"required"`
}

// distribute runs one distribution: the total is split across the
// property's active subscribers and each cut is paid out immediately.
func (d *Disbursement) distribute(ctx *gin.Context) {
	var request distributeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	propertyID, err := uuid.Parse(request.PropertyID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}
	distributionID, err := uuid.Parse(request.DistributionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}
	total, err := decimal.NewFromString(request.Total)
	if err != nil || !total.IsPositive() {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	result, err := d.server.disbursements.Distribute(ctx, propertyID, distributionID, total, time.Now())
	if err == allocation.ErrNoActiveSubscribers {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.NoActiveSubscribers))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Distribution Completed", models.ToDistributionResponse(result)))
}

func (d *Disbursement) getDisbursement(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	row, err := d.server.disbursements.Get(ctx, id)
	if err == disbursement.ErrNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.DisbursementNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	resp := gin.H{"disbursement": models.ToDisbursementResponse(row)}
	if row.TransactionID.Valid {
		tx, err := d.server.store.GetWalletTransactionByDisbursementID(ctx, uuid.NullUUID{UUID: row.ID, Valid: true})
		if err == nil {
			resp["transaction"] = models.ToTransactionResponse(tx)
		}
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Disbursement Fetched Successfully", resp))
}

// processDisbursement pays out a pending disbursement on demand, for
// records a distribution run created but never got to process.
func (d *Disbursement) processDisbursement(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	err = d.server.disbursements.Process(ctx, id)
	switch {
	case err == disbursement.ErrNotFound:
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.DisbursementNotFound))
		return
	case err == disbursement.ErrInvalidState:
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.DisbursementBadState))
		return
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	row, err := d.server.disbursements.Get(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Disbursement Processed Successfully", models.ToDisbursementResponse(row)))
}

func (d *Disbursement) retryDisbursement(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	err = d.server.disbursements.Retry(ctx, id)
	switch {
	case err == disbursement.ErrNotFound:
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.DisbursementNotFound))
		return
	case err == disbursement.ErrInvalidState:
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.DisbursementBadState))
		return
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	row, err := d.server.disbursements.Get(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Disbursement Retried Successfully", models.ToDisbursementResponse(row)))
}

func (d *Disbursement) getDistribution(ctx *gin.Context) {
	distributionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	rows, err := d.server.store.ListDisbursementsByDistribution(ctx, distributionID)
	if err != nil && err != sql.ErrNoRows {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Distribution Fetched Successfully", models.ToDisbursementCollectionResponse(rows)))
}

// getUnresolvedErrors surfaces the durable failure records written by
// the retry layer so an operator can inspect and resolve them.
func (d *Disbursement) getUnresolvedErrors(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	rows, err := d.server.store.ListUnresolvedErrorLogs(ctx, int32(limit))
	if err != nil && err != sql.ErrNoRows {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Error Logs Fetched Successfully", rows))
}

func (d *Disbursement) resolveError(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	row, err := d.server.store.ResolveErrorLog(ctx, id)
	if err == sql.ErrNoRows {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.InvalidRequest))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Error Log Resolved", row))
}

func (d *Disbursement) getPropertyStats(ctx *gin.Context) {
	propertyID, err := uuid.Parse(ctx.Param("propertyId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	stats, err := d.server.store.GetDisbursementStatsByProperty(ctx, propertyID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Property Stats Fetched Successfully", gin.H{
		"property_id":     propertyID,
		"total_disbursed": stats.TotalDisbursed.StringFixed(2),
		"average_amount":  stats.AverageAmount.StringFixed(2),
		"completed_count": stats.CompletedCount,
		"failed_count":    stats.FailedCount,
	}))
}
