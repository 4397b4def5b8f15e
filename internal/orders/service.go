package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/minhngdev/foodcourt-backend/pkg/db/models"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	pkgerrors "github.com/minhngdev/foodcourt-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

// Create places an order atomically: the order row, its price-snapshotted
// items and the settlement row all commit together or not at all.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		store, err := repo.FindStore(ctx, input.StoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
		if !store.Approved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "store is not accepting orders")
		}

		foodIDs := make([]uint, 0, len(input.Items))
		for _, item := range input.Items {
			foodIDs = append(foodIDs, item.FoodID)
		}
		foods, err := repo.FindFoodsForStore(ctx, input.StoreID, foodIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load foods")
		}
		foodsByID := make(map[uint]models.Food, len(foods))
		for _, food := range foods {
			foodsByID[food.ID] = food
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		for _, item := range input.Items {
			food, ok := foodsByID[item.FoodID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("food %d does not belong to store %d", item.FoodID, input.StoreID))
			}
			if !food.Available {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("food %d is not available", item.FoodID))
			}
			items = append(items, models.OrderItem{
				FoodID:   food.ID,
				Quantity: item.Quantity,
				Price:    food.Price,
				Note:     item.Note,
			})
		}

		order := &models.Order{
			CustomerID:      input.CustomerID,
			StoreID:         input.StoreID,
			Status:          enums.OrderStatusPending,
			PaymentMethod:   input.PaymentMethod,
			ShippingFee:     input.ShippingFee,
			DeliveryAddress: input.DeliveryAddress,
			Note:            input.Note,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		order.Items = items

		payment := &models.Payment{
			OrderID: order.ID,
			Amount:  order.TotalAmount(),
			Status:  enums.PaymentStatusPending,
		}
		if input.PaymentMethod == enums.PaymentMethodCash {
			payment.Status = enums.PaymentStatusCompleted
			settled := s.now()
			payment.PaymentDate = &settled
		}
		if _, err := repo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		order.Payment = payment

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func validateCreate(input CreateInput) error {
	if input.CustomerID == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if input.StoreID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if !input.PaymentMethod.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported payment method %q", input.PaymentMethod))
	}
	if input.DeliveryAddress == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if input.ShippingFee.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping fee must not be negative")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	seen := make(map[uint]bool, len(input.Items))
	for _, item := range input.Items {
		if item.FoodID == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "food id required")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity for food %d must be positive", item.FoodID))
		}
		if seen[item.FoodID] {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("food %d listed more than once", item.FoodID))
		}
		seen[item.FoodID] = true
	}
	return nil
}

// Get loads one order, restricted to its customer, its store or an admin.
func (s *service) Get(ctx context.Context, input TransitionInput) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := authorizeAccess(order, input); err != nil {
		return nil, err
	}
	return order, nil
}

func authorizeAccess(order *models.Order, input TransitionInput) error {
	switch input.ActorRole {
	case enums.RoleAdmin:
		return nil
	case enums.RoleCustomer:
		if order.CustomerID == input.ActorAccountID {
			return nil
		}
	case enums.RoleStore:
		if input.ActorStoreID != nil && order.StoreID == *input.ActorStoreID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to actor")
}

// Confirm moves a pending order to confirmed. Store side only.
func (s *service) Confirm(ctx context.Context, input TransitionInput) (*models.Order, error) {
	return s.transition(ctx, input, enums.OrderStatusConfirmed, storeActorOnly)
}

// Deliver moves a confirmed order to delivering. Store side only.
func (s *service) Deliver(ctx context.Context, input TransitionInput) (*models.Order, error) {
	return s.transition(ctx, input, enums.OrderStatusDelivering, storeActorOnly)
}

// Complete moves a delivering order to completed. Store side only.
func (s *service) Complete(ctx context.Context, input TransitionInput) (*models.Order, error) {
	return s.transition(ctx, input, enums.OrderStatusCompleted, storeActorOnly)
}

// Cancel moves a pending order to cancelled. Either party may cancel while
// the order is still pending; an open settlement row is closed as failed.
func (s *service) Cancel(ctx context.Context, input TransitionInput) (*models.Order, error) {
	return s.transition(ctx, input, enums.OrderStatusCancelled, anyOwningActor)
}

type actorRule int

const (
	storeActorOnly actorRule = iota
	anyOwningActor
)

func (s *service) transition(ctx context.Context, input TransitionInput, target enums.OrderStatus, rule actorRule) (*models.Order, error) {
	if input.OrderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := authorizeTransition(order, input, rule); err != nil {
			return err
		}

		if order.Status == target {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}

		if err := repo.UpdateStatus(ctx, order.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if target == enums.OrderStatusCancelled {
			if err := repo.UpdatePaymentStatusByOrder(ctx, order.ID, enums.PaymentStatusFailed); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close payment")
			}
		}

		order.Status = target
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func authorizeTransition(order *models.Order, input TransitionInput, rule actorRule) error {
	switch rule {
	case storeActorOnly:
		if input.ActorRole == enums.RoleAdmin {
			return nil
		}
		if input.ActorRole == enums.RoleStore && input.ActorStoreID != nil && order.StoreID == *input.ActorStoreID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the store can perform this transition")
	default:
		return authorizeAccess(order, input)
	}
}

// List returns orders for exactly one side of the marketplace.
func (s *service) List(ctx context.Context, input ListInput) ([]models.Order, error) {
	switch {
	case input.CustomerID != nil:
		rows, err := s.repo.ListByCustomer(ctx, *input.CustomerID, input)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
		}
		return rows, nil
	case input.StoreID != nil:
		rows, err := s.repo.ListByStore(ctx, *input.StoreID, input)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store orders")
		}
		return rows, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer or store filter required")
	}
}
