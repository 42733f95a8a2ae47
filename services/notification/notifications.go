package notification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/utils"
)

// Store is the slice of the query layer notifications need.
type Store interface {
	CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID int64) ([]db.Notification, error)
}

type Notification struct {
	store  Store
	plunk  *Plunk
	config *utils.Config
	logger *logging.Logger
}

func NewNotificationService(store Store, config *utils.Config, logger *logging.Logger) *Notification {
	return &Notification{
		store: store,
		plunk: &Plunk{
			HttpClient: &http.Client{Timeout: 15 * time.Second},
			Config:     config,
		},
		config: config,
		logger: logger,
	}
}

func (n *Notification) Create(ctx context.Context, userID int64, message string) (*db.Notification, error) {
	nots, err := n.store.CreateNotification(ctx, db.CreateNotificationParams{
		UserID:  userID,
		Message: message,
	})

	if err != nil {
		return nil, err
	}
	return &nots, nil
}

func (n *Notification) Get(ctx context.Context, userID int64) ([]db.Notification, error) {
	nots, err := n.store.ListNotificationsByUser(ctx, userID)

	if err != nil {
		return nil, err
	}
	return nots, nil
}

// NotifyDisbursement records an in-app notice for the subscriber and
// mails the operations inbox. Neither failure reaches the payout path,
// this is strictly best effort.
func (n *Notification) NotifyDisbursement(ctx context.Context, userID int64, d db.Disbursement) {
	message := fmt.Sprintf("You received a distribution payout of %s", d.Amount.StringFixed(2))
	if _, err := n.Create(ctx, userID, message); err != nil {
		n.logger.WithError(err).Warn("failed to record disbursement notification")
	}

	if n.config.OpsEmail == "" {
		return
	}
	go func() {
		err := n.plunk.SendTemplatedEmail(n.config.OpsEmail, "disbursement-completed", map[string]any{
			"user_id":         userID,
			"disbursement_id": d.ID.String(),
			"amount":          d.Amount.StringFixed(2),
		})
		if err != nil {
			n.logger.WithError(err).Warn("failed to send disbursement email")
		}
	}()
}
