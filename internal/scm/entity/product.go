package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product quantity is the only field the order lifecycle may touch;
// price and cost price are mutated through catalog CRUD alone.
type Product struct {
	ID            string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name          string           `json:"name" gorm:"size:200;not null"`
	SKU           string           `json:"sku" gorm:"size:64;not null;uniqueIndex"`
	Category      string           `json:"category" gorm:"size:100"`
	Quantity      int              `json:"quantity" gorm:"not null;default:0"`
	Price         decimal.Decimal  `json:"price" gorm:"type:decimal(12,2);not null"`
	CostPrice     *decimal.Decimal `json:"cost_price" gorm:"type:decimal(12,2)"`
	MinStockLevel int              `json:"min_stock_level" gorm:"not null;default:0"`
	SupplierID    *string          `json:"supplier_id" gorm:"type:uuid;index"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Product) TableName() string {
	return "scm_products"
}

// CostOrZero treats an unknown cost price as zero for valuation and COGS.
func (p *Product) CostOrZero() decimal.Decimal {
	if p.CostPrice == nil {
		return decimal.Zero
	}
	return *p.CostPrice
}

// LowStock reports whether on-hand quantity has fallen to or below the
// configured minimum (boundary inclusive).
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinStockLevel
}
