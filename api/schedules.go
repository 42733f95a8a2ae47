package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/BrickVest/BrickVest-Backend/api/apistrings"
	models "github.com/BrickVest/BrickVest-Backend/api/models"
	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	basemodels "github.com/BrickVest/BrickVest-Backend/models"
	"github.com/BrickVest/BrickVest-Backend/services/disbursement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Schedule struct {
	server *Server
}

func (s Schedule) router(server *Server) {
	s.server = server

	serverGroupV1 := server.router.Group("/api/v1/schedules")
	serverGroupV1.POST("", AuthenticatedMiddleware(), AdminMiddleware(), s.createSchedule)
	serverGroupV1.GET(":id", AuthenticatedMiddleware(), s.getSchedule)
	serverGroupV1.POST(":id/pause", AuthenticatedMiddleware(), AdminMiddleware(), s.pauseSchedule)
	serverGroupV1.POST(":id/resume", AuthenticatedMiddleware(), AdminMiddleware(), s.resumeSchedule)
	serverGroupV1.GET("subscription/:id", AuthenticatedMiddleware(), s.getSubscriptionSchedules)
	serverGroupV1.GET("due", AuthenticatedMiddleware(), AdminMiddleware(), s.listDueSchedules)
	serverGroupV1.POST("sweep", AuthenticatedMiddleware(), AdminMiddleware(), s.runSweep)
}

type createScheduleRequest struct {
	SubscriptionID   string    `json:"subscription_id" binding:"required"`
	Amount           string    `json:"amount" binding:"required"`
	RoiPercentage    string    `json:"roi_percentage"`
	Frequency        string    `json:"frequency" binding:"required"`
	NextDisbursement time.Time `json:"next_disbursement" binding:"required"`
}

func (s *Schedule) createSchedule(ctx *gin.Context) {
	var request createScheduleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	subscriptionID, err := uuid.Parse(request.SubscriptionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}
	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}
	roi := decimal.Zero
	if request.RoiPercentage != "" {
		roi, err = decimal.NewFromString(request.RoiPercentage)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
			return
		}
	}

	schedule, err := s.server.schedules.CreateSchedule(ctx, disbursement.CreateScheduleInput{
		SubscriptionID:   subscriptionID,
		Amount:           amount,
		RoiPercentage:    roi,
		Frequency:        db.ScheduleFrequency(request.Frequency),
		NextDisbursement: request.NextDisbursement,
	})
	switch {
	case err == disbursement.ErrInvalidFrequency:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.ScheduleBadFrequency))
		return
	case err == disbursement.ErrInvalidAmount:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	case err == disbursement.ErrSubscriptionNotFound:
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.SubscriptionNotFound))
		return
	case err == disbursement.ErrSubscriptionInactive:
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.SubscriptionInactive))
		return
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Schedule Created Successfully", models.ToScheduleResponse(schedule)))
}

func (s *Schedule) getSchedule(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	schedule, err := s.server.schedules.GetSchedule(ctx, id)
	if err == disbursement.ErrScheduleNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.ScheduleNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Schedule Fetched Successfully", models.ToScheduleResponse(schedule)))
}

func (s *Schedule) pauseSchedule(ctx *gin.Context) {
	s.toggleSchedule(ctx, false, "Schedule Paused Successfully")
}

func (s *Schedule) resumeSchedule(ctx *gin.Context) {
	s.toggleSchedule(ctx, true, "Schedule Resumed Successfully")
}

func (s *Schedule) toggleSchedule(ctx *gin.Context, active bool, message string) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	var schedule db.DisbursementSchedule
	if active {
		schedule, err = s.server.schedules.Resume(ctx, id)
	} else {
		schedule, err = s.server.schedules.Pause(ctx, id)
	}
	if err == disbursement.ErrScheduleNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.ScheduleNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess(message, models.ToScheduleResponse(schedule)))
}

func (s *Schedule) getSubscriptionSchedules(ctx *gin.Context) {
	subscriptionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidRequest))
		return
	}

	schedules, err := s.server.store.ListSchedulesBySubscription(ctx, subscriptionID)
	if err != nil && err != sql.ErrNoRows {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	var nextDisbursement *time.Time
	next, err := s.server.store.GetNextScheduledDisbursement(ctx, subscriptionID)
	if err == nil && next.Valid {
		nextDisbursement = &next.Time
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Schedules Fetched Successfully", gin.H{
		"schedules":         models.ToScheduleCollectionResponse(schedules),
		"next_disbursement": nextDisbursement,
	}))
}

// listDueSchedules shows what the next sweep would pick up. Rows held
// by a sweep in flight are skipped rather than waited on.
func (s *Schedule) listDueSchedules(ctx *gin.Context) {
	schedules, err := s.server.store.ListDueDisbursementSchedules(ctx, db.ListDueDisbursementSchedulesParams{
		Now:   time.Now(),
		Limit: 100,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Due Schedules Fetched Successfully", models.ToScheduleCollectionResponse(schedules)))
}

// runSweep triggers the due-schedule sweep on demand, outside its
// regular interval.
func (s *Schedule) runSweep(ctx *gin.Context) {
	result, err := s.server.schedules.Sweep(ctx, time.Now())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Sweep Completed", result))
}
