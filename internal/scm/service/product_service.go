package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	productListCacheKey = "scm:products:list"
	productListCacheTTL = 5 * time.Minute
)

// ProductService owns catalog CRUD for products. Order completion adjusts
// quantity through the order repository, never through here.
type ProductService struct {
	repo         *repository.ProductRepository
	supplierRepo *repository.SupplierRepository
	rdb          *redis.Client
	audit        *AuditService
}

func NewProductService(repo *repository.ProductRepository, supplierRepo *repository.SupplierRepository, rdb *redis.Client, audit *AuditService) *ProductService {
	return &ProductService{repo: repo, supplierRepo: supplierRepo, rdb: rdb, audit: audit}
}

type ProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	SKU           string           `json:"sku" binding:"required"`
	Category      string           `json:"category"`
	Quantity      int              `json:"quantity" binding:"gte=0"`
	Price         decimal.Decimal  `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	MinStockLevel int              `json:"min_stock_level"`
	SupplierID    *string          `json:"supplier_id"`
}

func (s *ProductService) validate(ctx context.Context, req ProductRequest) error {
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.CostPrice != nil && req.CostPrice.IsNegative() {
		return fmt.Errorf("%w: cost price must not be negative", ErrInvalidInput)
	}
	if req.SupplierID != nil {
		if _, err := s.supplierRepo.GetByID(ctx, *req.SupplierID); err != nil {
			return notFoundOr(err, "supplier "+*req.SupplierID)
		}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, req ProductRequest, userID string) (*entity.Product, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          req.Name,
		SKU:           req.SKU,
		Category:      req.Category,
		Quantity:      req.Quantity,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		MinStockLevel: req.MinStockLevel,
		SupplierID:    req.SupplierID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.clearCache(ctx)
	s.audit.Record(ctx, "CREATE_PRODUCT", "Product", product.ID, userID)
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product "+id)
	}
	return product, nil
}

// List serves from the redis cache when warm; any catalog write invalidates
// it.
func (s *ProductService) List(ctx context.Context) ([]entity.Product, error) {
	if cached, err := s.rdb.Get(ctx, productListCacheKey).Bytes(); err == nil {
		var products []entity.Product
		if json.Unmarshal(cached, &products) == nil {
			return products, nil
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if payload, err := json.Marshal(products); err == nil {
		s.rdb.Set(ctx, productListCacheKey, payload, productListCacheTTL)
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req ProductRequest, userID string) (*entity.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product "+id)
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.SKU = req.SKU
	product.Category = req.Category
	product.Quantity = req.Quantity
	product.Price = req.Price
	product.CostPrice = req.CostPrice
	product.MinStockLevel = req.MinStockLevel
	product.SupplierID = req.SupplierID

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.clearCache(ctx)
	s.audit.Record(ctx, "UPDATE_PRODUCT", "Product", product.ID, userID)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "product "+id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.clearCache(ctx)
	s.audit.Record(ctx, "DELETE_PRODUCT", "Product", id, userID)
	return nil
}

func (s *ProductService) clearCache(ctx context.Context) {
	s.rdb.Del(ctx, productListCacheKey)
}
