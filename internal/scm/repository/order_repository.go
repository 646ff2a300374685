package repository

import (
	"context"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its items as one unit. gorm cascades the
// association inside a single transaction.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Items").Preload("Items.Product").
		Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Items").Preload("Items.Product").
		Order("order_date DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatusWithStock writes the new status and the matching stock deltas in
// one transaction: either all product quantities and the status land, or none
// do. Quantity writes are relative (quantity = quantity + d) so two racing
// fully-atomic calls both apply their delta.
func (r *OrderRepository) UpdateStatusWithStock(ctx context.Context, order *entity.Order, status entity.OrderStatus, deltas []entity.StockDelta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range deltas {
			res := tx.Model(&entity.Product{}).Where("id = ?", d.ProductID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", d.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Update("status", status).Error
	})
}

// ReplaceItems swaps the order's full line set and total atomically. Stock is
// untouched; only status transitions move stock.
func (r *OrderRepository) ReplaceItems(ctx context.Context, order *entity.Order, items []entity.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"supplier_id":  order.SupplierID,
				"total_amount": order.TotalAmount,
			}).Error
	})
}

// Delete removes the order and its items. Completed orders keep their stock
// effect; deletion never adjusts quantities.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Order{}).Error
	})
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Count(&total).Error
	return total, err
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status entity.OrderStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("status = ?", status).Count(&total).Error
	return total, err
}
