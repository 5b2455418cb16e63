package orders

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/order-tracker/internal/metrics"
	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/rogerio-castellano/order-tracker/internal/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Service struct {
	store   repo.Store
	events  EventPublisher
	metrics *metrics.Collector
	log     zerolog.Logger
}

type Option func(*Service)

func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(store repo.Store, opts ...Option) *Service {
	s := &Service{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the request, then checks the user, the product and its stock,
// decrements the stock and records the order in one transaction. Any failure leaves
// the store untouched.
func (s *Service) PlaceOrder(ctx context.Context, payload validation.OrderPayload) (models.Order, error) {
	req, err := validation.ValidateOrder(payload)
	if err != nil {
		s.rejected(req, err)
		return models.Order{}, err
	}

	var (
		order   models.Order
		product models.Product
	)
	err = s.store.Atomically(ctx, func(tx repo.Tx) error {
		if _, err := tx.GetUser(ctx, req.UserID); err != nil {
			return notFound(err, repo.ErrUserNotFound, validation.ErrUserNotFound)
		}

		p, err := tx.GetProduct(ctx, req.ProductID)
		if err != nil {
			return notFound(err, repo.ErrProductNotFound, validation.ErrProductNotFound)
		}

		if err := validation.CheckStock(p, req.Quantity); err != nil {
			return err
		}

		total := p.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))

		product, err = tx.AdjustStock(ctx, p.ID, -req.Quantity)
		if errors.Is(err, repo.ErrInvalidQuantityChange) {
			return validation.ErrInsufficientStock
		}
		if err != nil {
			return err
		}

		order, err = tx.CreateOrder(ctx, models.Order{
			UserID:    req.UserID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Total:     total,
		})
		if err != nil {
			return err
		}

		orderID := order.ID
		_, err = tx.LogMovement(ctx, models.Movement{
			ProductID: p.ID,
			Delta:     -req.Quantity,
			Reason:    models.MovementOrder,
			OrderID:   &orderID,
		})
		return err
	})
	if err != nil {
		s.rejected(req, err)
		return models.Order{}, err
	}

	s.metrics.OrderPlaced(order.Total)
	s.log.Info().
		Int("order_id", order.ID).
		Int("user_id", order.UserID).
		Int("product_id", order.ProductID).
		Int("quantity", order.Quantity).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")

	if product.IsLowStock() {
		s.metrics.LowStock()
		s.log.Warn().
			Int("product_id", product.ID).
			Int("stock", product.Stock).
			Int("min_stock", product.MinStock).
			Msgf("ALERT: product %d is below its minimum stock", product.ID)
	}

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, order); err != nil {
			s.log.Error().Err(err).Int("order_id", order.ID).Msg("failed to publish order event")
		}
	}

	return order, nil
}

// OrdersByUser lists a user's orders oldest first. It does not check that the user exists.
func (s *Service) OrdersByUser(ctx context.Context, userID int) ([]models.Order, error) {
	return s.store.Orders().GetByUserID(ctx, userID)
}

func (s *Service) GetOrder(ctx context.Context, id int) (models.Order, error) {
	o, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return models.Order{}, notFound(err, repo.ErrOrderNotFound, validation.ErrOrderNotFound)
	}
	return o, nil
}

func (s *Service) rejected(req validation.ParsedOrder, err error) {
	reason := rejectReason(err)
	s.metrics.OrderRejected(reason)

	if reason == "internal" {
		s.log.Error().Err(err).Msg("order failed")
		return
	}
	s.log.Debug().
		Str("reason", reason).
		Int("user_id", req.UserID).
		Int("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Msg("order rejected")
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, validation.ErrOrderFieldsRequired):
		return "missing_fields"
	case errors.Is(err, validation.ErrQuantityNotPositive):
		return "quantity_not_positive"
	case errors.Is(err, validation.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, validation.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, validation.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "internal"
	}
}

// notFound swaps a store sentinel for the verdict clients see.
func notFound(err, sentinel error, verdict *validation.Error) error {
	if errors.Is(err, sentinel) {
		return verdict
	}
	return err
}
