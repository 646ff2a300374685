package repository

import "gorm.io/gorm"

// Repositories bundles every SCM repository for wiring.
type Repositories struct {
	User     *UserRepository
	Supplier *SupplierRepository
	Product  *ProductRepository
	Order    *OrderRepository
	Audit    *AuditRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Supplier: NewSupplierRepository(db),
		Product:  NewProductRepository(db),
		Order:    NewOrderRepository(db),
		Audit:    NewAuditRepository(db),
	}
}
