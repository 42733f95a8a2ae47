package api

import (
	"net/http"
	"time"

	"github.com/BrickVest/BrickVest-Backend/api/apistrings"
	models "github.com/BrickVest/BrickVest-Backend/api/models"
	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	basemodels "github.com/BrickVest/BrickVest-Backend/models"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Notifications struct {
	server *Server
}

func (n Notifications) router(server *Server) {
	n.server = server

	serverGroupV1 := server.router.Group("/api/v1/notifications")
	serverGroupV1.GET("", AuthenticatedMiddleware(), n.getUserNotifications)
}

type notificationResponse struct {
	ID        models.ID `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponses(rows []db.Notification) []notificationResponse {
	var responses []notificationResponse
	for _, row := range rows {
		responses = append(responses, notificationResponse{
			ID:        models.ID(row.ID),
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	return responses
}

func (n *Notifications) getUserNotifications(ctx *gin.Context) {
	activeUser, err := utils.GetActiveUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, basemodels.NewError(apistrings.UserNotFound))
		return
	}

	rows, err := n.server.notifications.Get(ctx, activeUser.UserID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Notifications Fetched Successfully", toNotificationResponses(rows)))
}
