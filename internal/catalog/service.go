package catalog

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/order-tracker/internal/metrics"
	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/rogerio-castellano/order-tracker/internal/repo"
	"github.com/rogerio-castellano/order-tracker/internal/validation"
	"github.com/rs/zerolog"
)

// Service serves products, users, stock movements and the dashboard.
type Service struct {
	store   repo.Store
	metrics *metrics.Collector
	log     zerolog.Logger
}

type Option func(*Service)

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

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.Products().GetAll(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int) (models.Product, error) {
	p, err := s.store.Products().GetByID(ctx, id)
	if errors.Is(err, repo.ErrProductNotFound) {
		return models.Product{}, validation.ErrProductNotFound
	}
	return p, err
}

// LowStock returns every product whose stock is strictly below its minimum.
func (s *Service) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.store.Products().LowStock(ctx)
}

// CreateProduct stores a validated product and records its opening stock as a movement.
func (s *Service) CreateProduct(ctx context.Context, payload validation.ProductPayload) (models.Product, error) {
	in, err := validation.ValidateProduct(payload)
	if err != nil {
		return models.Product{}, err
	}

	var created models.Product
	err = s.store.Atomically(ctx, func(tx repo.Tx) error {
		created, err = tx.CreateProduct(ctx, models.Product{
			Name:     in.Name,
			Price:    in.Price,
			Stock:    in.Stock,
			MinStock: in.MinStock,
		})
		if err != nil {
			return err
		}
		return s.logMovement(ctx, tx, created.ID, created.Stock, models.MovementInitial)
	})
	if err != nil {
		return models.Product{}, err
	}

	s.log.Info().Int("product_id", created.ID).Str("name", created.Name).Msg("product created")
	s.checkLowStock(created)
	return created, nil
}

// UpdateProduct replaces name, price, stock and minimum stock. A stock change is
// recorded as an adjustment.
func (s *Service) UpdateProduct(ctx context.Context, id int, payload validation.ProductPayload) (models.Product, error) {
	in, err := validation.ValidateProduct(payload)
	if err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	err = s.store.Atomically(ctx, func(tx repo.Tx) error {
		current, err := tx.GetProduct(ctx, id)
		if err != nil {
			return err
		}

		updated, err = tx.UpdateProduct(ctx, models.Product{
			ID:       id,
			Name:     in.Name,
			Price:    in.Price,
			Stock:    in.Stock,
			MinStock: in.MinStock,
		})
		if err != nil {
			return err
		}
		return s.logMovement(ctx, tx, id, updated.Stock-current.Stock, models.MovementAdjustment)
	})
	if err != nil {
		return models.Product{}, storeVerdict(err)
	}

	s.log.Info().Int("product_id", updated.ID).Msg("product updated")
	s.checkLowStock(updated)
	return updated, nil
}

// AdjustStock restocks (positive delta) or writes off (negative delta) a product.
func (s *Service) AdjustStock(ctx context.Context, id int, payload validation.AdjustmentPayload) (models.Product, error) {
	delta, err := validation.ValidateAdjustment(payload)
	if err != nil {
		return models.Product{}, err
	}

	var adjusted models.Product
	err = s.store.Atomically(ctx, func(tx repo.Tx) error {
		adjusted, err = tx.AdjustStock(ctx, id, delta)
		if err != nil {
			return err
		}
		return s.logMovement(ctx, tx, id, delta, models.MovementAdjustment)
	})
	if err != nil {
		return models.Product{}, storeVerdict(err)
	}

	s.metrics.StockAdjusted()
	s.log.Info().Int("product_id", id).Int("delta", delta).Int("stock", adjusted.Stock).Msg("stock adjusted")
	s.checkLowStock(adjusted)
	return adjusted, nil
}

// Movements lists the stock history of an existing product, oldest first.
func (s *Service) Movements(ctx context.Context, productID int, f repo.MovementFilter) ([]models.Movement, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.store.Movements().GetByProductID(ctx, productID, f)
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Users().GetAll(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int) (models.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, repo.ErrUserNotFound) {
		return models.User{}, validation.ErrUserNotFound
	}
	return u, err
}

func (s *Service) Dashboard(ctx context.Context) (repo.Metrics, error) {
	return s.store.Metrics().GetDashboardMetrics(ctx)
}

func (s *Service) logMovement(ctx context.Context, tx repo.Tx, productID, delta int, reason models.MovementReason) error {
	if delta == 0 {
		return nil
	}
	_, err := tx.LogMovement(ctx, models.Movement{ProductID: productID, Delta: delta, Reason: reason})
	return err
}

func (s *Service) checkLowStock(p models.Product) {
	if !p.IsLowStock() {
		return
	}
	s.metrics.LowStock()
	s.log.Warn().
		Int("product_id", p.ID).
		Int("stock", p.Stock).
		Int("min_stock", p.MinStock).
		Msgf("ALERT: product %d is below its minimum stock", p.ID)
}

func storeVerdict(err error) error {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		return validation.ErrProductNotFound
	case errors.Is(err, repo.ErrInvalidQuantityChange):
		return validation.ErrNegativeStock
	default:
		return err
	}
}
