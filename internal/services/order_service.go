package services

import (
	"fmt"
	"log"

	"bookstore/internal/models"
	"bookstore/internal/repositories"

	"gorm.io/gorm"
)

// OrderService handles business logic related to orders: checkout,
// payment, cancellation, admin status changes and listings.
type OrderService struct {
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	bookRepo  repositories.BookRepository
	txm       repositories.TxManager
	notifier  Notifier
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository,
	bookRepo repositories.BookRepository, txm repositories.TxManager, notifier Notifier) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		txm:       txm,
		notifier:  notifier,
	}
}

// CreateOrder converts the user's cart into an immutable order
// snapshot. Each line's stock is decremented with an atomic conditional
// update inside the same transaction that inserts the order, so
// concurrent checkouts cannot oversell. Unit prices are frozen into the
// order items at this moment; later catalog price changes do not affect
// existing orders.
func (s *OrderService) CreateOrder(userID, cartID string, method models.PaymentMethod,
	billing, shipping models.Address) (*models.Order, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("invalid payment method: %s", method)
	}

	var order *models.Order
	err := s.txm.Do(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetByIDAndUserTx(tx, cartID, userID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCartUnavailable, err)
		}
		if cart.Status != models.CartStatusActive || len(cart.Items) == 0 {
			return ErrCartUnavailable
		}

		var (
			totalCents int64
			orderItems []models.OrderItem
		)
		for _, item := range cart.Items {
			book, err := s.bookRepo.GetByIDTx(tx, item.BookID)
			if err != nil {
				return err
			}
			if err := s.bookRepo.DecrementStockTx(tx, book.ID, item.Quantity); err != nil {
				return fmt.Errorf("book %q: %w", book.Title, err)
			}

			lineCents := book.PriceCents * int64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				BookID:         book.ID,
				Quantity:       item.Quantity,
				UnitPriceCents: book.PriceCents,
				PriceCents:     lineCents,
			})
			totalCents += lineCents
		}

		order = &models.Order{
			UserID:           userID,
			TotalAmountCents: totalCents,
			Status:           models.OrderStatusPending,
			PaymentMethod:    method,
			Billing:          billing,
			Shipping:         shipping,
			Items:            orderItems,
		}
		if err := s.orderRepo.CreateTx(tx, order); err != nil {
			return err
		}

		// The cart is consumed by checkout.
		cart.Status = models.CartStatusCompleted
		return s.cartRepo.SaveCartTx(tx, cart)
	})
	if err != nil {
		return nil, err
	}

	s.sendInvoice(order)
	return order, nil
}

// ProcessPayment charges a pending order. Orders paid on delivery move
// to PROCESSING; every other method is charged (no gateway is wired, so
// the charge always succeeds) and the order moves to PAID.
func (s *OrderService) ProcessPayment(orderID, paymentTransactionID string) (*models.Order, error) {
	var order *models.Order
	err := s.txm.Do(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.GetByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			return fmt.Errorf("order cannot be paid: %w", ErrInvalidStatusTransition)
		}

		if order.PaymentMethod == models.PaymentMethodOrderOnDelivery {
			order.Status = models.OrderStatusProcessing
		} else {
			order.Status = models.OrderStatusPaid
			order.PaymentTransactionID = paymentTransactionID
		}
		return s.orderRepo.SaveTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusPaid {
		s.sendInvoice(order)
	}
	return order, nil
}

// CancelOrder cancels an order still in PENDING or PROCESSING and
// restores the stock exactly as it was decremented at creation.
func (s *OrderService) CancelOrder(orderID string) (*models.Order, error) {
	var order *models.Order
	err := s.txm.Do(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.GetByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusProcessing {
			return fmt.Errorf("order cannot be cancelled: %w", ErrInvalidStatusTransition)
		}

		for _, item := range order.Items {
			if err := s.bookRepo.RestoreStockTx(tx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		return s.orderRepo.SaveTx(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AdminUpdateOrderStatus moves an order to a new status on behalf of an
// admin, enforcing the transition table, and appends an audit log entry
// recording who changed what and why.
func (s *OrderService) AdminUpdateOrderStatus(adminID, orderID string, newStatus models.OrderStatus, reason string) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("invalid order status: %s", newStatus)
	}

	var order *models.Order
	err := s.txm.Do(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.GetByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(newStatus) {
			return fmt.Errorf("order cannot move from %s to %s: %w",
				order.Status, newStatus, ErrInvalidStatusTransition)
		}

		previous := order.Status
		order.Status = newStatus
		if err := s.orderRepo.SaveTx(tx, order); err != nil {
			return err
		}

		return s.orderRepo.AppendStatusLogTx(tx, &models.OrderStatusChangeLog{
			OrderID:        order.ID,
			AdminID:        adminID,
			PreviousStatus: previous,
			NewStatus:      newStatus,
			Reason:         reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderByID retrieves a single order with its items.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetUserOrders retrieves a user's orders, optionally filtered by
// status. An unknown status string is rejected with the list of valid
// values.
func (s *OrderService) GetUserOrders(userID, status string) ([]models.Order, error) {
	var filter *models.OrderStatus
	if status != "" {
		parsed := models.OrderStatus(status)
		if !parsed.Valid() {
			return nil, fmt.Errorf("invalid status %q, must be one of: pending, processing, paid, shipped, completed, cancelled", status)
		}
		filter = &parsed
	}
	return s.orderRepo.ListByUser(userID, filter)
}

var validOrderSortFields = map[string]string{
	"created_at":   "created_at",
	"total_amount": "total_amount_cents",
	"status":       "status",
}

// ListUserOrders retrieves a page of a user's orders with sorting.
func (s *OrderService) ListUserOrders(userID string, page, perPage int, sortBy, order string) ([]models.Order, int64, error) {
	params, err := normalizeListParams(page, perPage, sortBy, order)
	if err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListByUserPaged(userID, params)
}

// ListAllOrders retrieves a page of every order, for admins.
func (s *OrderService) ListAllOrders(page, perPage int, sortBy, order string) ([]models.Order, int64, error) {
	params, err := normalizeListParams(page, perPage, sortBy, order)
	if err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListAll(params)
}

func normalizeListParams(page, perPage int, sortBy, order string) (repositories.ListOrdersParams, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := validOrderSortFields[sortBy]
	if !ok {
		return repositories.ListOrdersParams{}, fmt.Errorf("invalid sort_by %q, must be one of: created_at, total_amount, status", sortBy)
	}
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		return repositories.ListOrdersParams{}, fmt.Errorf("invalid order %q, must be 'asc' or 'desc'", order)
	}
	return repositories.ListOrdersParams{Page: page, PerPage: perPage, SortBy: column, Order: order}, nil
}

// sendInvoice hands the order to the notifier. Delivery runs through a
// durable queue, so a publish failure is logged and swallowed rather
// than failing the checkout.
func (s *OrderService) sendInvoice(order *models.Order) {
	if s.notifier == nil {
		log.Println("Notifier is not configured. Skipping invoice notification.")
		return
	}
	if err := s.notifier.SendOrderInvoice(order); err != nil {
		log.Printf("Warning: failed to publish invoice notification for order %s: %v", order.ID, err)
	}
}
