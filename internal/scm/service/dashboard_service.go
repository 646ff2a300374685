package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/shopspring/decimal"
)

// DashboardStats is the operational read-only snapshot. Total stock value is
// price * quantity (selling price), distinct from the cost-based inventory
// valuation in the financial metrics.
type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	TotalSuppliers  int64           `json:"total_suppliers"`
	TotalOrders     int64           `json:"total_orders"`
	LowStockCount   int64           `json:"low_stock_count"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	PendingOrders   int64           `json:"pending_orders"`
}

type DashboardService struct {
	productRepo  *repository.ProductRepository
	supplierRepo *repository.SupplierRepository
	orderRepo    *repository.OrderRepository
}

func NewDashboardService(pr *repository.ProductRepository, sr *repository.SupplierRepository, or *repository.OrderRepository) *DashboardService {
	return &DashboardService{productRepo: pr, supplierRepo: sr, orderRepo: or}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	supplierCount, err := s.supplierRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count suppliers: %w", err)
	}
	orderCount, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	pendingCount, err := s.orderRepo.CountByStatus(ctx, entity.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}

	var lowStock int64
	stockValue := decimal.Zero
	for _, p := range products {
		if p.LowStock() {
			lowStock++
		}
		stockValue = stockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	return &DashboardStats{
		TotalProducts:   int64(len(products)),
		TotalSuppliers:  supplierCount,
		TotalOrders:     orderCount,
		LowStockCount:   lowStock,
		TotalStockValue: stockValue,
		PendingOrders:   pendingCount,
	}, nil
}
