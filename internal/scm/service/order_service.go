package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService drives the purchase-order lifecycle. Stock moves only on
// status transitions into or out of COMPLETED; creation, line replacement and
// deletion never touch product quantities.
type OrderService struct {
	orderRepo    *repository.OrderRepository
	productRepo  *repository.ProductRepository
	supplierRepo *repository.SupplierRepository
	audit        *AuditService
}

func NewOrderService(or *repository.OrderRepository, pr *repository.ProductRepository, sr *repository.SupplierRepository, audit *AuditService) *OrderService {
	return &OrderService{orderRepo: or, productRepo: pr, supplierRepo: sr, audit: audit}
}

type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type OrderRequest struct {
	SupplierID string             `json:"supplier_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// buildItems snapshots the current unit price and cost of every line's
// product. The copies are frozen; later catalog price changes must not reach
// existing orders.
func (s *OrderService) buildItems(ctx context.Context, orderID string, lines []OrderItemRequest) ([]entity.OrderItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: order needs at least one line", ErrInvalidInput)
	}

	items := make([]entity.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, decimal.Zero, notFoundOr(err, "product "+line.ProductID)
		}

		var cost *decimal.Decimal
		if product.CostPrice != nil {
			c := *product.CostPrice
			cost = &c
		}
		items = append(items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			Cost:      cost,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return items, total, nil
}

// Create builds a PENDING order against live catalog pricing. No stock is
// deducted or received at creation.
func (s *OrderService) Create(ctx context.Context, req OrderRequest, userID string) (*entity.Order, error) {
	if _, err := s.supplierRepo.GetByID(ctx, req.SupplierID); err != nil {
		return nil, notFoundOr(err, "supplier "+req.SupplierID)
	}

	order := &entity.Order{
		ID:         uuid.New().String(),
		SupplierID: req.SupplierID,
		OrderDate:  time.Now(),
		Status:     entity.OrderStatusPending,
	}

	items, total, err := s.buildItems(ctx, order.ID, req.Items)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.TotalAmount = total

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrTxFailed, err)
	}

	s.audit.Record(ctx, "CREATE_ORDER", "Order", order.ID, userID)
	return s.orderRepo.GetByID(ctx, order.ID)
}

func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order "+id)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.List(ctx)
}

// UpdateStatus applies the status write and the matching stock deltas as one
// atomic unit. Completion receives goods; leaving COMPLETED reverses that
// exact receipt.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, userID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order "+id)
	}

	deltas := entity.StockDeltas(order.Status, status, order.Items)
	if err := s.orderRepo.UpdateStatusWithStock(ctx, order, status, deltas); err != nil {
		return nil, fmt.Errorf("%w: update order status: %v", ErrTxFailed, err)
	}

	s.audit.Record(ctx, "UPDATE_ORDER_STATUS", "Order", order.ID, userID)
	return s.orderRepo.GetByID(ctx, id)
}

// Update replaces the full line set, re-snapshotting prices the same way
// Create does. Stock is untouched: transitions alone move stock, so updating
// or deleting a COMPLETED order keeps its receipt in place.
func (s *OrderService) Update(ctx context.Context, id string, req OrderRequest, userID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order "+id)
	}
	if _, err := s.supplierRepo.GetByID(ctx, req.SupplierID); err != nil {
		return nil, notFoundOr(err, "supplier "+req.SupplierID)
	}

	items, total, err := s.buildItems(ctx, order.ID, req.Items)
	if err != nil {
		return nil, err
	}
	order.SupplierID = req.SupplierID
	order.TotalAmount = total

	if err := s.orderRepo.ReplaceItems(ctx, order, items); err != nil {
		return nil, fmt.Errorf("%w: update order: %v", ErrTxFailed, err)
	}

	s.audit.Record(ctx, "UPDATE_ORDER", "Order", order.ID, userID)
	return s.orderRepo.GetByID(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.orderRepo.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "order "+id)
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: delete order: %v", ErrTxFailed, err)
	}
	s.audit.Record(ctx, "DELETE_ORDER", "Order", id, userID)
	return nil
}
