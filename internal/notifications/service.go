package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/config"
	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
	"github.com/minhngdev/foodcourt-backend/pkg/mailer"
	"github.com/minhngdev/foodcourt-backend/pkg/metrics"
	"github.com/minhngdev/foodcourt-backend/pkg/outbox"
)

// followerSource resolves the accounts subscribed to a store.
type followerSource interface {
	ListFollowerAccounts(ctx context.Context, storeID uint) ([]models.Account, error)
}

// accountSource resolves a single account for direct notifications.
type accountSource interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
}

// Service fans domain events out to followers and manages the in-app feed.
type Service interface {
	NotifyFoodPublished(ctx context.Context, data outbox.FoodPublishedData) error
	NotifyMenuPublished(ctx context.Context, data outbox.MenuPublishedData) error
	NotifyPaymentSettled(ctx context.Context, data outbox.PaymentSettledData) error

	List(ctx context.Context, accountID uint, limit int, cursor string) ([]models.Notification, error)
	MarkRead(ctx context.Context, accountID, notificationID uint) error
	UnreadCount(ctx context.Context, accountID uint) (int64, error)
}

type service struct {
	repo      Repository
	followers followerSource
	accounts  accountSource
	sender    mailer.Sender
	cfg       config.NotifyConfig
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	followers followerSource,
	accounts accountSource,
	sender mailer.Sender,
	cfg config.NotifyConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if followers == nil {
		return nil, fmt.Errorf("follower source required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account source required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	return &service{
		repo:      repo,
		followers: followers,
		accounts:  accounts,
		sender:    sender,
		cfg:       cfg,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// NotifyFoodPublished announces a new dish to every follower of the store.
func (s *service) NotifyFoodPublished(ctx context.Context, data outbox.FoodPublishedData) error {
	title := fmt.Sprintf("%s has a new dish", data.StoreName)
	body := fmt.Sprintf("%s just added %s to their menu. Order it while it's fresh!", data.StoreName, data.FoodName)
	return s.fanOut(ctx, data.StoreID, enums.NotificationTypeNewFood, title, body, &data.FoodID)
}

// NotifyMenuPublished announces a new menu to every follower of the store.
func (s *service) NotifyMenuPublished(ctx context.Context, data outbox.MenuPublishedData) error {
	title := fmt.Sprintf("%s published a new menu", data.StoreName)
	body := fmt.Sprintf("%s just published the %s menu. Take a look!", data.StoreName, data.MenuName)
	return s.fanOut(ctx, data.StoreID, enums.NotificationTypeNewMenu, title, body, &data.MenuID)
}

// NotifyPaymentSettled confirms a settled payment to the paying customer.
func (s *service) NotifyPaymentSettled(ctx context.Context, data outbox.PaymentSettledData) error {
	account, err := s.accounts.FindByID(ctx, data.CustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// customer deactivated since settlement; nothing to announce
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	title := fmt.Sprintf("Payment received for order #%d", data.OrderID)
	body := fmt.Sprintf(
		"We received your payment of %s VND for order #%d (transaction %s). Your food is on the way.",
		data.Amount, data.OrderID, data.TransactionID,
	)

	err = s.repo.CreateBatch(ctx, []models.Notification{{
		AccountID: account.ID,
		Type:      enums.NotificationTypePayment,
		Title:     title,
		Message:   body,
		RelatedID: &data.OrderID,
	}})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record notification")
	}

	s.deliverEmail(ctx, account.Email, title, body)
	return nil
}

// fanOut records in-app rows for all followers, then delivers emails.
// Email failures are logged and counted but never fail the fan-out; the
// in-app rows are the durable record.
func (s *service) fanOut(ctx context.Context, storeID uint, kind enums.NotificationType, title, body string, relatedID *uint) error {
	followers, err := s.followers.ListFollowerAccounts(ctx, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followers")
	}
	if len(followers) == 0 {
		return nil
	}

	rows := make([]models.Notification, 0, len(followers))
	for _, follower := range followers {
		rows = append(rows, models.Notification{
			AccountID: follower.ID,
			Type:      kind,
			Title:     title,
			Message:   body,
			RelatedID: relatedID,
		})
	}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record notifications")
	}

	for _, follower := range followers {
		s.deliverEmail(ctx, follower.Email, title, body)
	}
	return nil
}

func (s *service) deliverEmail(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}

	backoff := retry.WithMaxRetries(uint64(s.cfg.MaxAttempts-1), retry.NewConstant(s.cfg.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.sender.Send(mailer.Message{To: to, Subject: subject, Body: body}); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		metrics.NotificationSends.WithLabelValues("failed").Inc()
		if s.logg != nil {
			logCtx := s.logg.WithField(ctx, "recipient", to)
			s.logg.Error(logCtx, "notification email delivery failed", err)
		}
		return
	}
	metrics.NotificationSends.WithLabelValues("sent").Inc()
}

func (s *service) List(ctx context.Context, accountID uint, limit int, cursor string) ([]models.Notification, error) {
	rows, err := s.repo.ListByAccount(ctx, accountID, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}

// MarkRead marks a notification as read. Marking an already-read row again
// is a no-op.
func (s *service) MarkRead(ctx context.Context, accountID, notificationID uint) error {
	_, err := s.repo.MarkRead(ctx, accountID, notificationID, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, accountID uint) (int64, error) {
	count, err := s.repo.UnreadCount(ctx, accountID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}
